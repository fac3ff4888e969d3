package internal

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/otelinit"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/events"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/locale"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/rewards"
)

// AwardOutcome summarizes one batch of actions applied to a session.
type AwardOutcome struct {
	Points  int
	State   rewards.State
	Unlocks []rewards.Unlock
}

// Rewarder applies point-earning actions to sessions and emits the resulting events.
type Rewarder struct {
	sessions *SessionStore
	notifier Notifier
	metrics  *Metrics
	now      func() time.Time
}

func NewRewarder(sessions *SessionStore, notifier Notifier, metrics *Metrics) *Rewarder {
	return &Rewarder{sessions: sessions, notifier: notifier, metrics: metrics, now: time.Now}
}

// Award applies actions in order as one transition of the session. Events are
// published after the session lock is released.
func (r *Rewarder) Award(ctx context.Context, sessionID string, loc locale.Locale, actions ...rewards.Action) (AwardOutcome, error) {
	ctx, end := otelinit.WithSpan(ctx, "fraud.award", attribute.Int("actions", len(actions)))
	defer end()

	var unlocks []rewards.Unlock
	var before int
	state, err := r.sessions.Apply(sessionID, func(s rewards.State) (rewards.State, error) {
		before = s.TotalPoints
		next, u, err := rewards.AwardAll(s, actions...)
		if err != nil {
			return s, err
		}
		unlocks = u
		return next, nil
	})
	if err != nil {
		return AwardOutcome{State: state}, err
	}
	out := AwardOutcome{Points: state.TotalPoints - before, State: state, Unlocks: unlocks}

	now := r.now()
	total := before
	for _, a := range actions {
		p, _ := rewards.Points(a)
		total += p
		r.metrics.Points.Add(ctx, int64(p), metric.WithAttributes(attribute.String("action", string(a))))
		r.notifier.PointsEarned(ctx, events.NewPointsEarned(sessionID, string(loc), a, p, total, now))
	}
	for _, u := range unlocks {
		r.metrics.Unlocks.Add(ctx, 1, metric.WithAttributes(attribute.String("badge", u.BadgeID)))
		r.notifier.BadgeUnlocked(ctx, events.NewBadgeUnlocked(sessionID, string(loc), u, now))
	}
	return out, nil
}
