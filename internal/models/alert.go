package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert is one readiness paging event addressed to an audience category.
// Alerts carry no mutable state; everything that happens after creation is
// recorded as AlertResponse rows until the alert is resolved and deleted.
type Alert struct {
	ID            uuid.UUID `json:"id"`
	Category      Category  `json:"category"`
	RequesterName string    `json:"requester_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// AlertResponse is one recipient's recorded yes/no answer to an alert.
// At most one row exists per (alert_id, recipient_id); a repeated button
// press replaces the stored row.
type AlertResponse struct {
	AlertID     uuid.UUID `json:"alert_id"`
	RecipientID int64     `json:"recipient_id"`
	Available   bool      `json:"available"`
	RespondedAt time.Time `json:"responded_at"`
}

// InboxNotification is one row in the requester-facing in-app inbox,
// created when a recipient confirms availability or when an alert resolves.
type InboxNotification struct {
	ID            uuid.UUID `json:"id"`
	AlertID       uuid.UUID `json:"alert_id"`
	ResponderName string    `json:"responder_name"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}
