package events

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
)

func TestNewPublisherWithoutBrokersIsNoop(t *testing.T) {
	p := NewPublisher(nil, "topic", zap.NewNop())
	if _, ok := p.(*Noop); !ok {
		t.Fatalf("NewPublisher() = %T, want *Noop", p)
	}
	if err := p.Publish(context.Background(), New(LawyerApproved, "k", nil)); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
}

func TestEventEnvelope(t *testing.T) {
	e := New(AppointmentConfirmed, "appt-1", map[string]string{"status": "confirmed"})

	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"id", "type", "key", "occurred_at", "data"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("envelope missing %q", field)
		}
	}
	if decoded["type"] != AppointmentConfirmed {
		t.Errorf("type = %v, want %s", decoded["type"], AppointmentConfirmed)
	}
}
