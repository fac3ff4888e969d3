package natsctx

import (
	"context"
	"encoding/json"

	nats "github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var propagator = propagation.TraceContext{}

// MsgPublisher is the subset of *nats.Conn used for publishing.
type MsgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NewMsg builds a message carrying the traceparent of ctx in its headers.
func NewMsg(ctx context.Context, subject string, data []byte) *nats.Msg {
	hdr := nats.Header{}
	propagator.Inject(ctx, propagation.HeaderCarrier(hdr))
	return &nats.Msg{Subject: subject, Data: data, Header: hdr}
}

// Publish injects traceparent into headers and publishes.
func Publish(ctx context.Context, nc MsgPublisher, subject string, data []byte) error {
	return nc.PublishMsg(NewMsg(ctx, subject, data))
}

// PublishJSON marshals v and publishes it on subject.
func PublishJSON(ctx context.Context, nc MsgPublisher, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return Publish(ctx, nc, subject, data)
}

// Extract returns a context carrying the remote span context found in m's headers.
func Extract(ctx context.Context, m *nats.Msg) context.Context {
	if m.Header == nil {
		return ctx
	}
	return propagator.Extract(ctx, propagation.HeaderCarrier(m.Header))
}

// Subscribe wraps nc.Subscribe and extracts trace context for each message, starting a child span.
func Subscribe(nc *nats.Conn, subject string, handler func(context.Context, *nats.Msg)) (*nats.Subscription, error) {
	return nc.Subscribe(subject, func(m *nats.Msg) {
		ctx := Extract(context.Background(), m)
		ctx, span := otel.Tracer("infinsafe-nats").Start(ctx, "nats.consume "+m.Subject,
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(attribute.String("messaging.destination.name", m.Subject)),
		)
		defer span.End()
		handler(ctx, m)
	})
}
