package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/analysis"
)

// AlertMessage carries one evaluated budget alert to downstream
// notifiers.
type AlertMessage struct {
	Category  string    `json:"category"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAlertMessage wraps an evaluated alert with a publish timestamp.
func NewAlertMessage(alert analysis.Alert) *AlertMessage {
	return &AlertMessage{
		Category:  alert.Category,
		Severity:  string(alert.Severity),
		Message:   alert.Message,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertMessageFromJSON creates a message from JSON bytes.
func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
