package event

import (
	"testing"

	"divvy/internal/persist"
)

func TestChangeMessageRoundTrip(t *testing.T) {
	msg := NewChangeMessage(persist.CollectionExpenses)
	if msg.Collection != persist.CollectionExpenses {
		t.Errorf("Collection = %q, want %q", msg.Collection, persist.CollectionExpenses)
	}
	if msg.At.IsZero() {
		t.Error("At is zero, want a timestamp")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}

	decoded, err := ChangeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("ChangeMessageFromJSON() error: %v", err)
	}
	if decoded.Collection != msg.Collection {
		t.Errorf("Collection = %q, want %q", decoded.Collection, msg.Collection)
	}
	if !decoded.At.Equal(msg.At) {
		t.Errorf("At = %v, want %v", decoded.At, msg.At)
	}
}

func TestChangeMessageFromJSON_Invalid(t *testing.T) {
	if _, err := ChangeMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
