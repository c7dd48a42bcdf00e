package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"dispatch-service/internal/models"
)

// UpsertResponse records a recipient's answer to an alert. A repeated press
// for the same (alert_id, recipient_id) replaces the stored row, so the
// latest press always wins and rows never accumulate.
func (d *DB) UpsertResponse(ctx context.Context, r models.AlertResponse) error {
	query := `
        INSERT INTO alert_responses (alert_id, recipient_id, available, responded_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (alert_id, recipient_id)
        DO UPDATE SET available = EXCLUDED.available, responded_at = EXCLUDED.responded_at`
	_, err := d.Pool.Exec(ctx, query, r.AlertID, r.RecipientID, r.Available, r.RespondedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert response for alert %s: %w", r.AlertID, err)
	}
	return nil
}

// ListResponses fetches all responses recorded for an alert.
func (d *DB) ListResponses(ctx context.Context, alertID uuid.UUID) ([]models.AlertResponse, error) {
	query := `
        SELECT alert_id, recipient_id, available, responded_at
        FROM alert_responses
        WHERE alert_id = $1
        ORDER BY responded_at ASC`
	rows, err := d.Pool.Query(ctx, query, alertID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses for alert %s: %w", alertID, err)
	}
	defer rows.Close()

	var list []models.AlertResponse
	for rows.Next() {
		var r models.AlertResponse
		if err := rows.Scan(&r.AlertID, &r.RecipientID, &r.Available, &r.RespondedAt); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

// DeleteResponses removes all responses for an alert and reports the count.
func (d *DB) DeleteResponses(ctx context.Context, alertID uuid.UUID) (int64, error) {
	result, err := d.Pool.Exec(ctx, `DELETE FROM alert_responses WHERE alert_id = $1`, alertID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete responses for alert %s: %w", alertID, err)
	}
	return result.RowsAffected(), nil
}
