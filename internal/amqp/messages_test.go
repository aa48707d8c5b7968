package amqp

import (
	"testing"

	"fintrack/internal/analysis"
)

func TestAlertMessageRoundTrip(t *testing.T) {
	msg := NewAlertMessage(analysis.Alert{
		Category: "food",
		Severity: analysis.SeverityDanger,
		Message:  "Budget exceeded for food",
	})
	if msg.Timestamp.IsZero() {
		t.Error("timestamp must be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := AlertMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Category != "food" || back.Severity != "danger" || back.Message != msg.Message {
		t.Errorf("round-trip mismatch: %+v", back)
	}
}

func TestAlertMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := AlertMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error")
	}
}
