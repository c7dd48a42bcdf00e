package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"dispatch-service/internal/db"
	"dispatch-service/internal/models"
	"dispatch-service/internal/telegram"
)

// ResponseEvent is one decoded button press delivered by the webhook.
type ResponseEvent struct {
	CallbackID string
	Choice     string // telegram.ChoiceAvailable / telegram.ChoiceUnavailable
	AlertID    uuid.UUID
	ChatID     int64
}

// HandleResponse records one recipient's yes/no answer. The upsert keyed on
// (alert_id, recipient_id) makes repeated presses replace, never duplicate.
func (s *Service) HandleResponse(ctx context.Context, ev ResponseEvent) error {
	recipient, err := s.directory.FindRecipientByChatID(ctx, ev.ChatID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// Unknown responder: ack so the provider stops retrying the
			// callback, then drop silently.
			s.logger.Warnf("Response from unknown chat_id %d for alert %s dropped", ev.ChatID, ev.AlertID)
			if aerr := s.messenger.AnswerCallback(ctx, ev.CallbackID, "Thanks!"); aerr != nil {
				s.logger.Errorf("Answer callback %s failed: %v", ev.CallbackID, aerr)
			}
			return nil
		}
		return fmt.Errorf("directory lookup failed: %w", err)
	}

	available := ev.Choice == telegram.ChoiceAvailable
	resp := models.AlertResponse{
		AlertID:     ev.AlertID,
		RecipientID: recipient.ID,
		Available:   available,
		RespondedAt: s.now(),
	}
	if err := s.store.UpsertResponse(ctx, resp); err != nil {
		// Still ack, otherwise the provider keeps redelivering the press.
		if aerr := s.messenger.AnswerCallback(ctx, ev.CallbackID, "Could not record your answer, please try again."); aerr != nil {
			s.logger.Errorf("Answer callback %s failed: %v", ev.CallbackID, aerr)
		}
		return fmt.Errorf("failed to record response: %w", err)
	}

	ack := "Noted, you are marked unavailable."
	if available {
		ack = "Availability recorded, thank you!"
	}
	if err := s.messenger.AnswerCallback(ctx, ev.CallbackID, ack); err != nil {
		s.logger.Errorf("Answer callback %s failed: %v", ev.CallbackID, err)
	}
	s.logger.Infof("Response recorded: alert=%s recipient=%d available=%t", ev.AlertID, recipient.ID, available)

	if !available {
		return nil
	}

	// Positive answers surface in the requester's inbox while the alert is
	// still open; if it was resolved in the meantime, skip quietly.
	alert, err := s.store.GetAlert(ctx, ev.AlertID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load alert %s: %w", ev.AlertID, err)
	}

	n := models.InboxNotification{
		ID:            uuid.New(),
		AlertID:       alert.ID,
		ResponderName: recipient.DisplayName,
		Message:       fmt.Sprintf("%s is available for the readiness alert (%s)", recipient.DisplayName, alert.Category.Label()),
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateInboxNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to create inbox notification: %w", err)
	}
	s.push.Push(n)
	return nil
}
