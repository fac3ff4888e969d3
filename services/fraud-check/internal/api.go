package internal

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/otelinit"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/resilience"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/locale"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/rewards"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/risk"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/scanner"
)

// Deps wires the handler's collaborators.
type Deps struct {
	Checker  *Checker
	Rewarder *Rewarder
	Sessions *SessionStore
	Scanner  *scanner.Automaton
	Limiter  *resilience.KeyedLimiter
	Seeds    *SeedWatcher // nil when serving the embedded table
	Metrics  *Metrics
}

type Handler struct {
	Deps
	validate *validator.Validate
}

func NewHandler(d Deps) *Handler {
	return &Handler{Deps: d, validate: validator.New()}
}

// NewRouter mounts the public API. promHandler may be nil.
func NewRouter(h *Handler, promHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if promHandler != nil {
		r.Handle("/metrics", promHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/locales/{locale}/{screen}", h.getLocale)
		r.Get("/status", h.status)
		r.Group(func(r chi.Router) {
			r.Use(rateLimitMiddleware(h.Limiter, h.Sessions, h.Metrics))
			r.Use(sessionMiddleware(h.Sessions))
			r.Post("/advisors/check", h.checkAdvisor)
			r.Post("/websites/check", h.checkWebsite)
			r.Post("/scan", h.scan)
			r.Post("/referrals", h.referral)
			r.Get("/achievements", h.achievements)
		})
	})
	return r
}

type checkRequest struct {
	Query string `json:"query" validate:"max=512"`
}

type scanRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

type toast struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type checkResponse struct {
	Found        bool             `json:"found"`
	Record       *risk.Record     `json:"record,omitempty"`
	Tier         risk.Tier        `json:"tier,omitempty"`
	TierLabel    string           `json:"tierLabel,omitempty"`
	PointsEarned int              `json:"pointsEarned"`
	TotalPoints  int              `json:"totalPoints"`
	Unlocked     []rewards.Unlock `json:"unlocked"`
	Message      string           `json:"message,omitempty"`
	Toasts       []toast          `json:"toasts,omitempty"`
}

type awardResponse struct {
	PointsEarned int              `json:"pointsEarned"`
	TotalPoints  int              `json:"totalPoints"`
	Unlocked     []rewards.Unlock `json:"unlocked"`
	Toasts       []toast          `json:"toasts,omitempty"`
}

type scanResponse struct {
	Matches     []scanner.Match  `json:"matches"`
	Flags       []string         `json:"flags"`
	MaxSeverity scanner.Severity `json:"maxSeverity,omitempty"`
}

type badgeView struct {
	rewards.Badge
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

type achievementsResponse struct {
	TotalPoints     int         `json:"totalPoints"`
	Level           int         `json:"level"`
	NextLevelPoints int         `json:"nextLevelPoints"`
	Progress        float64     `json:"progress"`
	ChecksCompleted int         `json:"checksCompleted"`
	FraudsDetected  int         `json:"fraudsDetected"`
	Referrals       int         `json:"referrals"`
	Badges          []badgeView `json:"badges"`
}

func (h *Handler) checkAdvisor(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, risk.KindAdvisor)
}

func (h *Handler) checkWebsite(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, risk.KindWebsite)
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request, kind risk.Kind) {
	ctx := r.Context()
	reqID := requestIDFromContext(ctx)
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), reqID)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), reqID)
		return
	}
	loc := requestLocale(r)
	sessionID := sessionIDFromContext(ctx)

	rec, found, err := h.Checker.Check(ctx, kind, req.Query)
	if err != nil {
		status, code := mapDomainError(err)
		if status >= http.StatusInternalServerError {
			slog.WarnContext(ctx, "lookup failed", "kind", kind, "error", err, "request_id", reqID)
		}
		writeError(w, status, code, err.Error(), reqID)
		return
	}

	screen := locale.ScreenFor(kind)
	resp := checkResponse{Found: found, Unlocked: []rewards.Unlock{}}
	if !found {
		resp.Message = locale.Get(loc, screen, "noResults")
		if sess, ok := h.Sessions.Get(sessionID); ok {
			resp.TotalPoints = sess.State.TotalPoints
		}
		writeSuccess(w, http.StatusOK, "", resp)
		return
	}

	tier := rec.Tier()
	resp.Record = &rec
	resp.Tier = tier
	resp.TierLabel = locale.TierLabel(loc, screen, tier)

	actions := []rewards.Action{checkAction(kind)}
	if tier == risk.TierHigh {
		actions = append(actions, rewards.FraudDetected)
	}
	out, err := h.Rewarder.Award(ctx, sessionID, loc, actions...)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), reqID)
		return
	}
	resp.PointsEarned = out.Points
	resp.TotalPoints = out.State.TotalPoints
	if len(out.Unlocks) > 0 {
		resp.Unlocked = out.Unlocks
	}
	resp.Toasts = toastsFor(loc, out)
	writeSuccess(w, http.StatusOK, "", resp)
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := requestIDFromContext(ctx)
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), reqID)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "empty_query", "text must not be empty", reqID)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), reqID)
		return
	}
	ctx, end := otelinit.WithSpan(ctx, "fraud.scan", attribute.Int("text.length", len(req.Text)))
	defer end()

	matches := h.Scanner.Scan(req.Text)
	if matches == nil {
		matches = []scanner.Match{}
	}
	h.Metrics.Scans.Add(ctx, 1)
	h.Metrics.ScanMatches.Add(ctx, int64(len(matches)), metric.WithAttributes(attribute.String("severity", string(scanner.MaxSeverity(matches)))))
	writeSuccess(w, http.StatusOK, "", scanResponse{
		Matches:     matches,
		Flags:       h.Scanner.Flags(req.Text),
		MaxSeverity: scanner.MaxSeverity(matches),
	})
}

func (h *Handler) referral(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc := requestLocale(r)
	out, err := h.Rewarder.Award(ctx, sessionIDFromContext(ctx), loc, rewards.Referral)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(ctx))
		return
	}
	resp := awardResponse{PointsEarned: out.Points, TotalPoints: out.State.TotalPoints, Unlocked: []rewards.Unlock{}, Toasts: toastsFor(loc, out)}
	if len(out.Unlocks) > 0 {
		resp.Unlocked = out.Unlocks
	}
	writeSuccess(w, http.StatusCreated, "", resp)
}

func (h *Handler) achievements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.Sessions.Get(sessionIDFromContext(ctx))
	if !ok {
		status, code := mapDomainError(ErrSessionNotFound)
		writeError(w, status, code, ErrSessionNotFound.Error(), requestIDFromContext(ctx))
		return
	}
	loc := requestLocale(r)
	st := sess.State
	resp := achievementsResponse{
		TotalPoints:     st.TotalPoints,
		Level:           st.Level(),
		NextLevelPoints: st.NextLevelPoints(),
		Progress:        st.Progress(),
		ChecksCompleted: st.ChecksCompleted,
		FraudsDetected:  st.FraudsDetected,
		Referrals:       st.Referrals,
		Badges:          make([]badgeView, 0, len(st.Badges)),
	}
	for _, b := range st.Badges {
		resp.Badges = append(resp.Badges, badgeView{
			Badge:       b,
			Name:        locale.BadgeName(loc, b.ID),
			Description: locale.BadgeDescription(loc, b.ID),
			Emoji:       locale.BadgeEmoji(b.ID),
		})
	}
	writeSuccess(w, http.StatusOK, "", resp)
}

func (h *Handler) getLocale(w http.ResponseWriter, r *http.Request) {
	loc := locale.Parse(chi.URLParam(r, "locale"))
	screen := chi.URLParam(r, "screen")
	text, err := locale.Text(loc, screen)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"locale": loc, "screen": screen, "text": text})
}

func (h *Handler) status(w http.ResponseWriter, _ *http.Request) {
	out := map[string]any{
		"breaker":         h.Checker.BreakerState(),
		"sessions":        h.Sessions.Len(),
		"scanner_phrases": h.Scanner.Len(),
		"scanner_version": h.Scanner.Fingerprint(),
	}
	if h.Seeds != nil {
		out["seed"] = h.Seeds.Metadata()
	}
	writeSuccess(w, http.StatusOK, "", out)
}

func checkAction(kind risk.Kind) rewards.Action {
	if kind == risk.KindWebsite {
		return rewards.CheckWebsite
	}
	return rewards.CheckAdvisor
}

func requestLocale(r *http.Request) locale.Locale {
	return locale.Negotiate(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}

func toastsFor(loc locale.Locale, out AwardOutcome) []toast {
	if out.Points == 0 {
		return nil
	}
	title, body := locale.PointsToast(loc, out.Points, out.State.TotalPoints)
	toasts := []toast{{Title: title, Body: body}}
	for _, u := range out.Unlocks {
		title, body := locale.BadgeToast(loc, u.BadgeID)
		toasts = append(toasts, toast{Title: title, Body: body})
	}
	return toasts
}
