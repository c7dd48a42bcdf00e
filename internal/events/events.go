package events

import "time"

// Event types published to the alert lifecycle topic.
const (
	TypeAlertCreated  = "alert.created"
	TypeAlertResolved = "alert.resolved"
)

// AlertEvent is the audit record published for every alert lifecycle
// transition. Downstream consumers (reporting, the ops dashboard) key on
// AlertID.
type AlertEvent struct {
	Type      string    `json:"type"`
	AlertID   string    `json:"alert_id"`
	Category  string    `json:"category"`
	Actor     string    `json:"actor"`
	Reachable int       `json:"reachable,omitempty"`
	Positive  int       `json:"positive,omitempty"`
	Cancelled int       `json:"cancelled,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
