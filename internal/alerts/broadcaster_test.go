package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch-service/internal/events"
	"dispatch-service/internal/models"
	"dispatch-service/internal/telegram"
)

func TestCreateAlert_CapacityExceeded(t *testing.T) {
	created := false
	store := &mockStore{
		CountRecentAlertsFn: func(ctx context.Context, since time.Time) (int, error) {
			if want := fixedNow.Add(-30 * time.Minute); !since.Equal(want) {
				t.Errorf("ceiling cutoff = %v, want %v", since, want)
			}
			return 2, nil
		},
		CreateAlertFn: func(ctx context.Context, alert models.Alert) error {
			created = true
			return nil
		},
	}
	msg := &mockMessenger{}
	svc := newTestService(t, store, &mockDirectory{}, msg, &mockPublisher{})

	_, err := svc.CreateAlert(context.Background(), models.CategoryAll, "Duty Officer")
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded", err)
	}
	if created {
		t.Error("alert row was created despite the ceiling")
	}
	if len(msg.Sent) != 0 {
		t.Errorf("%d messages sent despite the ceiling", len(msg.Sent))
	}
}

func TestCreateAlert_EmptyAudience(t *testing.T) {
	created := false
	store := &mockStore{
		CreateAlertFn: func(ctx context.Context, alert models.Alert) error {
			created = true
			return nil
		},
	}
	svc := newTestService(t, store, &mockDirectory{}, &mockMessenger{}, &mockPublisher{})

	sum, err := svc.CreateAlert(context.Background(), models.CategoryDrivers, "Duty Officer")
	if err != nil {
		t.Fatalf("CreateAlert failed: %v", err)
	}
	if sum != (models.DeliverySummary{}) {
		t.Errorf("summary = %+v, want zero value", sum)
	}
	if created {
		t.Error("alert row created for an empty audience")
	}
}

func TestCreateAlert_PartitionsAndDelivers(t *testing.T) {
	// Scenario: 3 reachable, 1 unreachable.
	var stored models.Alert
	store := &mockStore{
		CreateAlertFn: func(ctx context.Context, alert models.Alert) error {
			stored = alert
			return nil
		},
	}
	dir := &mockDirectory{
		QueryActiveRecipientsFn: func(ctx context.Context, functionTag string) ([]models.Recipient, error) {
			if functionTag != "driver" {
				t.Errorf("functionTag = %q, want driver", functionTag)
			}
			return []models.Recipient{
				reachableRecipient(1, "Alba", 101),
				reachableRecipient(2, "Bram", 102),
				reachableRecipient(3, "Cleo", 103),
				unreachableRecipient(4, "Dara"),
			}, nil
		},
	}
	msg := &mockMessenger{}
	pub := &mockPublisher{}
	svc := newTestService(t, store, dir, msg, pub)

	sum, err := svc.CreateAlert(context.Background(), models.CategoryDrivers, "Duty Officer")
	if err != nil {
		t.Fatalf("CreateAlert failed: %v", err)
	}
	if sum.Reachable != 3 || sum.Unreachable != 1 || sum.Delivered != 3 {
		t.Errorf("summary = %+v, want reachable=3 unreachable=1 delivered=3", sum)
	}
	if stored.ID.String() != sum.AlertID {
		t.Errorf("summary alert id %s does not match stored %s", sum.AlertID, stored.ID)
	}
	if !stored.CreatedAt.Equal(fixedNow) {
		t.Errorf("CreatedAt = %v, want %v", stored.CreatedAt, fixedNow)
	}

	if len(msg.Sent) != 3 {
		t.Fatalf("sent %d pages, want 3", len(msg.Sent))
	}
	for i, sent := range msg.Sent {
		if sent.Actions == nil {
			t.Fatalf("page %d has no response actions", i)
		}
		choice, alertID, chatID, err := telegram.DecodeCallback(sent.Actions.ConfirmData)
		if err != nil {
			t.Fatalf("confirm token undecodable: %v", err)
		}
		if choice != telegram.ChoiceAvailable || alertID != stored.ID || chatID != sent.ChatID {
			t.Errorf("confirm token = (%s, %s, %d), want (%s, %s, %d)",
				choice, alertID, chatID, telegram.ChoiceAvailable, stored.ID, sent.ChatID)
		}
	}

	if len(pub.Published) != 1 || pub.Published[0].Type != events.TypeAlertCreated {
		t.Errorf("published events = %+v, want one alert.created", pub.Published)
	}
}

func TestCreateAlert_SendFailureIsNotFatal(t *testing.T) {
	dir := &mockDirectory{
		QueryActiveRecipientsFn: func(ctx context.Context, functionTag string) ([]models.Recipient, error) {
			return []models.Recipient{
				reachableRecipient(1, "Alba", 101),
				reachableRecipient(2, "Bram", 102),
				reachableRecipient(3, "Cleo", 103),
			}, nil
		},
	}
	msg := &mockMessenger{
		SendFn: func(ctx context.Context, chatID int64, text string, actions *models.PageActions) (string, error) {
			if chatID == 102 {
				return "", errors.New("blocked by user")
			}
			return "1", nil
		},
	}
	svc := newTestService(t, &mockStore{}, dir, msg, &mockPublisher{})

	sum, err := svc.CreateAlert(context.Background(), models.CategoryAll, "Duty Officer")
	if err != nil {
		t.Fatalf("CreateAlert failed: %v", err)
	}
	if sum.Delivered != 2 || sum.Reachable != 3 {
		t.Errorf("summary = %+v, want delivered=2 reachable=3", sum)
	}
}

func TestCreateAlert_DirectoryFailureAborts(t *testing.T) {
	created := false
	store := &mockStore{
		CreateAlertFn: func(ctx context.Context, alert models.Alert) error {
			created = true
			return nil
		},
	}
	dir := &mockDirectory{
		QueryActiveRecipientsFn: func(ctx context.Context, functionTag string) ([]models.Recipient, error) {
			return nil, errors.New("directory unavailable")
		},
	}
	svc := newTestService(t, store, dir, &mockMessenger{}, &mockPublisher{})

	if _, err := svc.CreateAlert(context.Background(), models.CategoryAll, "Duty Officer"); err == nil {
		t.Fatal("CreateAlert succeeded despite directory failure")
	}
	if created {
		t.Error("alert row created despite directory failure")
	}
}
