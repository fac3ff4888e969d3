package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/resilience"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/events"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/rewards"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/risk"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/scanner"
)

type captureNotifier struct {
	mu     sync.Mutex
	points []events.PointsEarned
	badges []events.BadgeUnlocked
}

func (c *captureNotifier) PointsEarned(_ context.Context, ev events.PointsEarned) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.points = append(c.points, ev)
}

func (c *captureNotifier) BadgeUnlocked(_ context.Context, ev events.BadgeUnlocked) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.badges = append(c.badges, ev)
}

func (c *captureNotifier) badgeIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, b := range c.badges {
		out = append(out, b.BadgeID)
	}
	return out
}

type failingSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *failingSource) Fetch(context.Context, risk.Kind, string) (risk.Record, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return risk.Record{}, false, f.err
}

type fixture struct {
	router   http.Handler
	sessions *SessionStore
	notifier *captureNotifier
	limiter  *resilience.KeyedLimiter
}

type fixtureOption func(*Deps)

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	metrics := NewMetrics()
	tables := risk.NewHolder(risk.DefaultTable())
	breaker := resilience.NewCircuitBreakerAdaptive(time.Minute, 1, 2, 0.5, time.Hour, 1)
	checker := NewChecker(&risk.DelayedSource{Tables: tables}, breaker, resilience.RetryPolicy{Attempts: 2, BaseDelay: time.Millisecond}, metrics)
	sessions := NewSessionStore(2, 0, rewards.DefaultCatalog())
	notifier := &captureNotifier{}
	deps := Deps{
		Checker:  checker,
		Rewarder: NewRewarder(sessions, notifier, metrics),
		Sessions: sessions,
		Scanner:  scanner.MustBuild(scanner.DefaultPhrases()),
		Limiter:  resilience.NewKeyedLimiter(1000, 1000, 0, 0),
		Metrics:  metrics,
	}
	for _, o := range opts {
		o(&deps)
	}
	return &fixture{
		router:   NewRouter(NewHandler(deps), nil),
		sessions: sessions,
		notifier: notifier,
		limiter:  deps.Limiter,
	}
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  errorPayload    `json:"error"`
}

func (f *fixture) do(t *testing.T, method, path, session string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(headerSessionID, session)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}

var errBackend = errors.New("backend down")
