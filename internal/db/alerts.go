package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dispatch-service/internal/models"
)

// CreateAlert inserts a new alert record.
func (d *DB) CreateAlert(ctx context.Context, alert models.Alert) error {
	query := `
        INSERT INTO alerts (id, category, requester_name, created_at)
        VALUES ($1, $2, $3, $4)`
	_, err := d.Pool.Exec(ctx, query, alert.ID, alert.Category, alert.RequesterName, alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// GetAlert fetches one alert by id; ErrNotFound if it no longer exists.
func (d *DB) GetAlert(ctx context.Context, id uuid.UUID) (models.Alert, error) {
	var a models.Alert
	query := `
        SELECT id, category, requester_name, created_at
        FROM alerts
        WHERE id = $1`
	err := d.Pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Category, &a.RequesterName, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Alert{}, ErrNotFound
		}
		return models.Alert{}, fmt.Errorf("failed to get alert %s: %w", id, err)
	}
	return a, nil
}

// CountRecentAlerts counts alerts created at or after the cutoff. The
// broadcaster uses it as the admission-control read before inserting.
func (d *DB) CountRecentAlerts(ctx context.Context, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM alerts WHERE created_at >= $1`
	if err := d.Pool.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recent alerts: %w", err)
	}
	return count, nil
}

// ListStaleAlerts returns alerts created before the cutoff, oldest first.
func (d *DB) ListStaleAlerts(ctx context.Context, before time.Time) ([]models.Alert, error) {
	query := `
        SELECT id, category, requester_name, created_at
        FROM alerts
        WHERE created_at < $1
        ORDER BY created_at ASC`
	rows, err := d.Pool.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale alerts: %w", err)
	}
	defer rows.Close()

	var list []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.Category, &a.RequesterName, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// DeleteAlert removes the alert row. Zero rows affected is not an error;
// a concurrent closer may have deleted it first.
func (d *DB) DeleteAlert(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := d.Pool.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete alert %s: %w", id, err)
	}
	return result.RowsAffected(), nil
}
