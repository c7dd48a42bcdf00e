package alerts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"dispatch-service/internal/events"
	"dispatch-service/internal/models"
	"dispatch-service/internal/telegram"
)

// CreateAlert creates a readiness alert and pages every reachable recipient
// of the category. Per-recipient send failures are counted, never fatal.
func (s *Service) CreateAlert(ctx context.Context, category models.Category, requesterName string) (models.DeliverySummary, error) {
	// Admission control: count-then-insert. Two racing creators can
	// over-admit by one; the ceiling is a soft limit, not a serialized one.
	cutoff := s.now().Add(-s.cfg.Alert.CeilingWindow)
	active, err := s.store.CountRecentAlerts(ctx, cutoff)
	if err != nil {
		return models.DeliverySummary{}, fmt.Errorf("ceiling check failed: %w", err)
	}
	if active >= s.cfg.Alert.Ceiling {
		return models.DeliverySummary{}, ErrCapacityExceeded
	}

	recipients, err := s.directory.QueryActiveRecipients(ctx, category.FunctionTag())
	if err != nil {
		return models.DeliverySummary{}, fmt.Errorf("directory lookup failed: %w", err)
	}

	var reachable, unreachable []models.Recipient
	for _, r := range recipients {
		if r.Reachable() {
			reachable = append(reachable, r)
		} else {
			unreachable = append(unreachable, r)
		}
	}

	// Nobody to notify is a successful no-op, not a failure.
	if len(reachable) == 0 && len(unreachable) == 0 {
		s.logger.Warnf("No recipients for category %s, nothing to do", category)
		return models.DeliverySummary{}, nil
	}

	alert := models.Alert{
		ID:            uuid.New(),
		Category:      category,
		RequesterName: requesterName,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateAlert(ctx, alert); err != nil {
		return models.DeliverySummary{}, fmt.Errorf("failed to create alert: %w", err)
	}

	text := pageText(alert)
	delivered := 0
	for _, r := range reachable {
		actions := &models.PageActions{
			ConfirmData: telegram.EncodeCallback(telegram.ChoiceAvailable, alert.ID, *r.ChatID),
			DeclineData: telegram.EncodeCallback(telegram.ChoiceUnavailable, alert.ID, *r.ChatID),
		}
		if _, err := s.messenger.Send(ctx, *r.ChatID, text, actions); err != nil {
			s.logger.Errorf("Page to %s (chat %d) failed: %v", r.DisplayName, *r.ChatID, err)
			continue
		}
		delivered++
	}
	s.logger.Infof("Alert %s created: paged %d/%d reachable, %d unreachable",
		alert.ID, delivered, len(reachable), len(unreachable))

	s.publishEvent(ctx, events.AlertEvent{
		Type:      events.TypeAlertCreated,
		AlertID:   alert.ID.String(),
		Category:  string(alert.Category),
		Actor:     requesterName,
		Reachable: len(reachable),
		Timestamp: alert.CreatedAt,
	})

	return models.DeliverySummary{
		AlertID:     alert.ID.String(),
		Reachable:   len(reachable),
		Unreachable: len(unreachable),
		Delivered:   delivered,
	}, nil
}

func pageText(alert models.Alert) string {
	return fmt.Sprintf(
		"*Readiness alert*\n"+
			"Audience: %s\n"+
			"Requested by: %s\n"+
			"Time: %s\n\n"+
			"Are you available to respond?",
		alert.Category.Label(),
		alert.RequesterName,
		alert.CreatedAt.Format("02.01.2006 15:04"),
	)
}
