package db

import (
	"context"
	"fmt"

	"dispatch-service/internal/models"
)

// CreateInboxNotification inserts one row into the requester-facing inbox.
// The UI layer consumes these; this service only writes them.
func (d *DB) CreateInboxNotification(ctx context.Context, n models.InboxNotification) error {
	query := `
        INSERT INTO inbox_notifications (id, alert_id, responder_name, message, created_at)
        VALUES ($1, $2, $3, $4, $5)`
	_, err := d.Pool.Exec(ctx, query, n.ID, n.AlertID, n.ResponderName, n.Message, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert inbox notification: %w", err)
	}
	return nil
}
