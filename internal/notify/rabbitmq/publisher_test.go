package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"welfaredesk/backend/internal/notify"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	out    []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.out = append(f.out, published{exchange: exchange, key: key, msg: msg})
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Notification(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "welfaredesk.events")

	id := uuid.New()
	n := notify.Notification{
		ID:        id,
		CitizenID: "citizen-1",
		Title:     "Appointment Approved",
		Message:   "Your PWD ID appointment has been approved.",
		Kind:      notify.KindApproved,
		CreatedAt: time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC),
	}
	if err := p.CreateNotification(context.Background(), n); err != nil {
		t.Fatalf("CreateNotification error: %v", err)
	}

	if len(ch.out) != 1 {
		t.Fatalf("published = %d, want 1", len(ch.out))
	}
	got := ch.out[0]
	if got.exchange != "welfaredesk.events" || got.key != "notification.appointment_approved" {
		t.Fatalf("exchange=%q key=%q", got.exchange, got.key)
	}
	if got.msg.MessageId != id.String() || got.msg.DeliveryMode != amqp.Persistent || got.msg.ContentType != "application/json" {
		t.Fatalf("publishing = %+v", got.msg)
	}

	var decoded notify.Notification
	if err := json.Unmarshal(got.msg.Body, &decoded); err != nil {
		t.Fatalf("body is not json: %v", err)
	}
	if decoded.CitizenID != "citizen-1" || decoded.Kind != notify.KindApproved {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestPublisher_AuditRoutingKeyAndErrors(t *testing.T) {
	boom := errors.New("channel closed")
	ch := &fakeChannel{err: boom}
	p := NewPublisher(ch, "x")

	err := p.RecordAction(context.Background(), notify.AuditRecord{ActorID: "staff-1", Action: "appointment.declined"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if ch.out[0].key != "audit.appointment.declined" {
		t.Fatalf("key = %q", ch.out[0].key)
	}
	if ch.out[0].msg.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}

	if err := p.Close(); err != nil || !ch.closed {
		t.Fatalf("Close err=%v closed=%v", err, ch.closed)
	}
}
