package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"dispatch-service/internal/db"
	"dispatch-service/internal/events"
	"dispatch-service/internal/models"
)

// CloseAlert resolves an alert: it tallies responses, sends a thank-you to
// everyone who confirmed availability and a cancellation to everyone else
// reachable, then deletes the alert's state. Closing an already-closed
// alert is a successful no-op. Two concurrent closers may double-send
// notifications; deletion itself is idempotent.
func (s *Service) CloseAlert(ctx context.Context, alertID uuid.UUID, category models.Category, closedBy string) (models.ClosureSummary, error) {
	alert, err := s.store.GetAlert(ctx, alertID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Infof("Alert %s already resolved, closure is a no-op", alertID)
			return models.ClosureSummary{}, nil
		}
		return models.ClosureSummary{}, fmt.Errorf("failed to load alert %s: %w", alertID, err)
	}

	// Responses must be read before anything is deleted; a crash between
	// the sends and the deletes loses no responder.
	responses, err := s.store.ListResponses(ctx, alertID)
	if err != nil {
		return models.ClosureSummary{}, fmt.Errorf("failed to read responses for alert %s: %w", alertID, err)
	}
	answered := make(map[int64]bool, len(responses))
	for _, r := range responses {
		answered[r.RecipientID] = r.Available
	}

	// The closure audience is the directory as it stands now, not the
	// original send targets; membership may have changed since the page.
	recipients, err := s.directory.QueryActiveRecipients(ctx, category.FunctionTag())
	if err != nil {
		return models.ClosureSummary{}, fmt.Errorf("directory lookup failed: %w", err)
	}

	var positive, cancelled []models.Recipient
	for _, r := range recipients {
		if !r.Reachable() {
			continue
		}
		// Declined and silent recipients land in the same class and get
		// the same cancellation wording.
		if answered[r.ID] {
			positive = append(positive, r)
		} else {
			cancelled = append(cancelled, r)
		}
	}

	thanks := "*Readiness alert resolved*\nThank you for your availability, you can stand down."
	cancelText := fmt.Sprintf("*Readiness request cancelled*\nThe readiness request was cancelled by %s.", closedBy)

	sum := models.ClosureSummary{
		Positive:  len(positive),
		Cancelled: len(cancelled),
	}

	for _, r := range positive {
		if _, err := s.messenger.Send(ctx, *r.ChatID, thanks, nil); err != nil {
			s.logger.Errorf("Resolution notice to %s (chat %d) failed: %v", r.DisplayName, *r.ChatID, err)
			continue
		}
		sum.NotificationsSent++

		n := models.InboxNotification{
			ID:            uuid.New(),
			AlertID:       alert.ID,
			ResponderName: r.DisplayName,
			Message:       fmt.Sprintf("Alert resolved by %s; %s had confirmed availability", closedBy, r.DisplayName),
			CreatedAt:     s.now(),
		}
		if err := s.store.CreateInboxNotification(ctx, n); err != nil {
			s.logger.Errorf("Inbox notification for %s failed: %v", r.DisplayName, err)
			continue
		}
		s.push.Push(n)
	}

	for _, r := range cancelled {
		if _, err := s.messenger.Send(ctx, *r.ChatID, cancelText, nil); err != nil {
			s.logger.Errorf("Cancellation notice to %s (chat %d) failed: %v", r.DisplayName, *r.ChatID, err)
			continue
		}
		sum.NotificationsSent++
	}

	// Delete responses first, then the alert row. Zero rows affected means
	// a concurrent closer got there first; that is fine.
	sum.DeletedResponses, err = s.store.DeleteResponses(ctx, alertID)
	if err != nil {
		return sum, fmt.Errorf("failed to delete responses for alert %s: %w", alertID, err)
	}
	sum.DeletedAlerts, err = s.store.DeleteAlert(ctx, alertID)
	if err != nil {
		return sum, fmt.Errorf("failed to delete alert %s: %w", alertID, err)
	}

	s.logger.Infof("Alert %s closed by %s: %d positive, %d cancelled, %d notices sent",
		alertID, closedBy, sum.Positive, sum.Cancelled, sum.NotificationsSent)

	s.publishEvent(ctx, events.AlertEvent{
		Type:      events.TypeAlertResolved,
		AlertID:   alert.ID.String(),
		Category:  string(alert.Category),
		Actor:     closedBy,
		Positive:  sum.Positive,
		Cancelled: sum.Cancelled,
		Timestamp: s.now(),
	})

	return sum, nil
}
