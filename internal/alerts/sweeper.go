package alerts

import (
	"context"
	"fmt"

	"dispatch-service/internal/models"
)

// SystemCloser is the attributed closer for sweeper-triggered resolutions.
const SystemCloser = "system (auto-resolution)"

// SweepExpired closes every alert older than the staleness threshold. One
// alert's failure never stops the sweep; failures are counted instead.
func (s *Service) SweepExpired(ctx context.Context) (models.SweepSummary, error) {
	cutoff := s.now().Add(-s.cfg.Alert.StaleThreshold)
	stale, err := s.store.ListStaleAlerts(ctx, cutoff)
	if err != nil {
		return models.SweepSummary{}, fmt.Errorf("failed to list stale alerts: %w", err)
	}

	var sum models.SweepSummary
	for _, a := range stale {
		if _, err := s.CloseAlert(ctx, a.ID, a.Category, SystemCloser); err != nil {
			s.logger.Errorf("Auto-resolution of alert %s failed: %v", a.ID, err)
			sum.Failed++
			continue
		}
		sum.Closed++
	}
	if len(stale) > 0 {
		s.logger.Infof("Sweep finished: %d closed, %d failed", sum.Closed, sum.Failed)
	}
	return sum, nil
}
