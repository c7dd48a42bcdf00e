package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dispatch-service/internal/models"
)

// QueryActiveRecipients returns active directory entries, optionally
// restricted to a function tag. Recipients without a chat id are included;
// the reachable/unreachable split belongs to the caller because the
// unreachable still count toward audience coverage.
func (d *DB) QueryActiveRecipients(ctx context.Context, functionTag string) ([]models.Recipient, error) {
	query := `
        SELECT id, display_name, chat_id, active, COALESCE(function_tag, '')
        FROM recipients
        WHERE active = true`
	args := []interface{}{}
	if functionTag != "" {
		query += " AND function_tag = $1"
		args = append(args, functionTag)
	}
	query += " ORDER BY display_name ASC"

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active recipients: %w", err)
	}
	defer rows.Close()

	var list []models.Recipient
	for rows.Next() {
		var r models.Recipient
		if err := rows.Scan(&r.ID, &r.DisplayName, &r.ChatID, &r.Active, &r.FunctionTag); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

// FindRecipientByChatID resolves a chat id back to a directory entry;
// ErrNotFound if nobody holds that chat id.
func (d *DB) FindRecipientByChatID(ctx context.Context, chatID int64) (models.Recipient, error) {
	var r models.Recipient
	query := `
        SELECT id, display_name, chat_id, active, COALESCE(function_tag, '')
        FROM recipients
        WHERE chat_id = $1`
	err := d.Pool.QueryRow(ctx, query, chatID).Scan(&r.ID, &r.DisplayName, &r.ChatID, &r.Active, &r.FunctionTag)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Recipient{}, ErrNotFound
		}
		return models.Recipient{}, fmt.Errorf("failed to find recipient by chat_id %d: %w", chatID, err)
	}
	return r, nil
}
