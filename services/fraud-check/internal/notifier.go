package internal

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/natsctx"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/events"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/locale"
)

// Notifier delivers gamification events. Delivery is best effort.
type Notifier interface {
	PointsEarned(ctx context.Context, ev events.PointsEarned)
	BadgeUnlocked(ctx context.Context, ev events.BadgeUnlocked)
}

// LogNotifier renders events as localized toast text into the log.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

func (n LogNotifier) PointsEarned(ctx context.Context, ev events.PointsEarned) {
	title, body := locale.PointsToast(locale.Parse(ev.Locale), ev.Points, ev.TotalPoints)
	n.logger().InfoContext(ctx, "points earned",
		"session_id", ev.SessionID, "action", ev.Action, "points", ev.Points,
		"total", ev.TotalPoints, "title", title, "body", body)
}

func (n LogNotifier) BadgeUnlocked(ctx context.Context, ev events.BadgeUnlocked) {
	title, body := locale.BadgeToast(locale.Parse(ev.Locale), ev.BadgeID)
	n.logger().InfoContext(ctx, "badge unlocked",
		"session_id", ev.SessionID, "badge", ev.BadgeID, "threshold", ev.Threshold,
		"total", ev.TotalPoints, "title", title, "body", body)
}

// NATSNotifier publishes events as JSON with trace headers and falls back to
// Fallback when a publish fails.
type NATSNotifier struct {
	Conn     natsctx.MsgPublisher
	Fallback Notifier
	Metrics  *Metrics
}

func (n *NATSNotifier) PointsEarned(ctx context.Context, ev events.PointsEarned) {
	if err := natsctx.PublishJSON(ctx, n.Conn, events.SubjectPointsEarned, ev); err != nil {
		n.failed(ctx, events.SubjectPointsEarned, err)
		n.Fallback.PointsEarned(ctx, ev)
	}
}

func (n *NATSNotifier) BadgeUnlocked(ctx context.Context, ev events.BadgeUnlocked) {
	if err := natsctx.PublishJSON(ctx, n.Conn, events.SubjectBadgeUnlocked, ev); err != nil {
		n.failed(ctx, events.SubjectBadgeUnlocked, err)
		n.Fallback.BadgeUnlocked(ctx, ev)
	}
}

func (n *NATSNotifier) failed(ctx context.Context, subject string, err error) {
	slog.WarnContext(ctx, "nats publish failed", "subject", subject, "error", err)
	if n.Metrics != nil {
		n.Metrics.NotifyFailures.Add(ctx, 1, metric.WithAttributes(attributeSubject(subject)))
	}
}
