package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	nats "github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/events"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/locale"
)

// ErrUnknownSubject is returned by Render for subjects the relay does not handle.
var ErrUnknownSubject = errors.New("unknown subject")

// Toast is a rendered notification ready for delivery.
type Toast struct {
	SessionID string `json:"sessionId"`
	EventID   string `json:"eventId"`
	Locale    string `json:"locale"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

// Render decodes an event payload and produces its localized toast.
func Render(subject string, data []byte) (Toast, error) {
	switch subject {
	case events.SubjectPointsEarned:
		var ev events.PointsEarned
		if err := json.Unmarshal(data, &ev); err != nil {
			return Toast{}, fmt.Errorf("decode %s: %w", subject, err)
		}
		loc := locale.Parse(ev.Locale)
		title, body := locale.PointsToast(loc, ev.Points, ev.TotalPoints)
		return Toast{SessionID: ev.SessionID, EventID: ev.EventID, Locale: string(loc), Title: title, Body: body}, nil
	case events.SubjectBadgeUnlocked:
		var ev events.BadgeUnlocked
		if err := json.Unmarshal(data, &ev); err != nil {
			return Toast{}, fmt.Errorf("decode %s: %w", subject, err)
		}
		loc := locale.Parse(ev.Locale)
		title, body := locale.BadgeToast(loc, ev.BadgeID)
		return Toast{SessionID: ev.SessionID, EventID: ev.EventID, Locale: string(loc), Title: title, Body: body}, nil
	}
	return Toast{}, fmt.Errorf("%w: %s", ErrUnknownSubject, subject)
}

// Relay logs every rendered toast. Delivery channels (push, SMS) plug in behind Sink.
type Relay struct {
	Sink      func(context.Context, Toast)
	delivered metric.Int64Counter
	dropped   metric.Int64Counter
}

func NewRelay(sink func(context.Context, Toast)) *Relay {
	meter := otel.Meter("infinsafe-go")
	delivered, _ := meter.Int64Counter("infinsafe_relay_toasts_total")
	dropped, _ := meter.Int64Counter("infinsafe_relay_dropped_total")
	if sink == nil {
		sink = LogSink
	}
	return &Relay{Sink: sink, delivered: delivered, dropped: dropped}
}

// Handle is the NATS message callback.
func (r *Relay) Handle(ctx context.Context, m *nats.Msg) {
	toast, err := Render(m.Subject, m.Data)
	if err != nil {
		r.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("subject", m.Subject)))
		slog.WarnContext(ctx, "event dropped", "subject", m.Subject, "error", err)
		return
	}
	r.Sink(ctx, toast)
	r.delivered.Add(ctx, 1, metric.WithAttributes(attribute.String("subject", m.Subject), attribute.String("locale", toast.Locale)))
}

// LogSink writes toasts to the default logger.
func LogSink(ctx context.Context, t Toast) {
	slog.InfoContext(ctx, "toast", "session_id", t.SessionID, "event_id", t.EventID,
		"locale", t.Locale, "title", t.Title, "body", t.Body)
}
