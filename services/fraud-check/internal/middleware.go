package internal

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/resilience"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeySessionID
)

const (
	headerRequestID = "X-Request-Id"
	headerSessionID = "X-Session-ID"
)

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(headerRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, reqID)))
	})
}

func requestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// sessionMiddleware resolves X-Session-ID, creating a session when absent or unknown,
// and echoes the effective id back in the response header.
func sessionMiddleware(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := sessions.GetOrCreate(r.Header.Get(headerSessionID))
			w.Header().Set(headerSessionID, sess.ID)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeySessionID, sess.ID)))
		})
	}
}

func sessionIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeySessionID).(string)
	return v
}

// rateLimitMiddleware applies a per-client token bucket. Only a session the store
// already knows gets its own bucket; anything else shares the remote host's bucket,
// so inventing session ids neither buys tokens nor creates sessions.
func rateLimitMiddleware(limiter *resilience.KeyedLimiter, sessions *SessionStore, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r, sessions)
			if !limiter.Allow(key) {
				metrics.RateLimited.Add(r.Context(), 1)
				secs := int(math.Ceil(limiter.RetryAfter(key).Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests", requestIDFromContext(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request, sessions *SessionStore) string {
	if id := r.Header.Get(headerSessionID); id != "" {
		if _, ok := sessions.Get(id); ok {
			return "session:" + id
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
