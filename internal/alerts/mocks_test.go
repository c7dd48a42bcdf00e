// Mocks for the service's collaborators (set the Fn fields to control
// behavior, leave nil for a benign default).
package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"dispatch-service/internal/config"
	"dispatch-service/internal/db"
	"dispatch-service/internal/events"
	"dispatch-service/internal/logging"
	"dispatch-service/internal/models"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type mockStore struct {
	CreateAlertFn             func(ctx context.Context, alert models.Alert) error
	GetAlertFn                func(ctx context.Context, id uuid.UUID) (models.Alert, error)
	CountRecentAlertsFn       func(ctx context.Context, since time.Time) (int, error)
	ListStaleAlertsFn         func(ctx context.Context, before time.Time) ([]models.Alert, error)
	DeleteAlertFn             func(ctx context.Context, id uuid.UUID) (int64, error)
	UpsertResponseFn          func(ctx context.Context, r models.AlertResponse) error
	ListResponsesFn           func(ctx context.Context, alertID uuid.UUID) ([]models.AlertResponse, error)
	DeleteResponsesFn         func(ctx context.Context, alertID uuid.UUID) (int64, error)
	CreateInboxNotificationFn func(ctx context.Context, n models.InboxNotification) error
}

func (m *mockStore) CreateAlert(ctx context.Context, alert models.Alert) error {
	if m.CreateAlertFn != nil {
		return m.CreateAlertFn(ctx, alert)
	}
	return nil
}

func (m *mockStore) GetAlert(ctx context.Context, id uuid.UUID) (models.Alert, error) {
	if m.GetAlertFn != nil {
		return m.GetAlertFn(ctx, id)
	}
	return models.Alert{ID: id, Category: models.CategoryAll, RequesterName: "Duty Officer", CreatedAt: fixedNow}, nil
}

func (m *mockStore) CountRecentAlerts(ctx context.Context, since time.Time) (int, error) {
	if m.CountRecentAlertsFn != nil {
		return m.CountRecentAlertsFn(ctx, since)
	}
	return 0, nil
}

func (m *mockStore) ListStaleAlerts(ctx context.Context, before time.Time) ([]models.Alert, error) {
	if m.ListStaleAlertsFn != nil {
		return m.ListStaleAlertsFn(ctx, before)
	}
	return nil, nil
}

func (m *mockStore) DeleteAlert(ctx context.Context, id uuid.UUID) (int64, error) {
	if m.DeleteAlertFn != nil {
		return m.DeleteAlertFn(ctx, id)
	}
	return 1, nil
}

func (m *mockStore) UpsertResponse(ctx context.Context, r models.AlertResponse) error {
	if m.UpsertResponseFn != nil {
		return m.UpsertResponseFn(ctx, r)
	}
	return nil
}

func (m *mockStore) ListResponses(ctx context.Context, alertID uuid.UUID) ([]models.AlertResponse, error) {
	if m.ListResponsesFn != nil {
		return m.ListResponsesFn(ctx, alertID)
	}
	return nil, nil
}

func (m *mockStore) DeleteResponses(ctx context.Context, alertID uuid.UUID) (int64, error) {
	if m.DeleteResponsesFn != nil {
		return m.DeleteResponsesFn(ctx, alertID)
	}
	return 0, nil
}

func (m *mockStore) CreateInboxNotification(ctx context.Context, n models.InboxNotification) error {
	if m.CreateInboxNotificationFn != nil {
		return m.CreateInboxNotificationFn(ctx, n)
	}
	return nil
}

type mockDirectory struct {
	QueryActiveRecipientsFn func(ctx context.Context, functionTag string) ([]models.Recipient, error)
	FindRecipientByChatIDFn func(ctx context.Context, chatID int64) (models.Recipient, error)
}

func (m *mockDirectory) QueryActiveRecipients(ctx context.Context, functionTag string) ([]models.Recipient, error) {
	if m.QueryActiveRecipientsFn != nil {
		return m.QueryActiveRecipientsFn(ctx, functionTag)
	}
	return nil, nil
}

func (m *mockDirectory) FindRecipientByChatID(ctx context.Context, chatID int64) (models.Recipient, error) {
	if m.FindRecipientByChatIDFn != nil {
		return m.FindRecipientByChatIDFn(ctx, chatID)
	}
	return models.Recipient{}, db.ErrNotFound
}

// sentMessage records one Messenger.Send call.
type sentMessage struct {
	ChatID  int64
	Text    string
	Actions *models.PageActions
}

type mockMessenger struct {
	SendFn           func(ctx context.Context, chatID int64, text string, actions *models.PageActions) (string, error)
	AnswerCallbackFn func(ctx context.Context, callbackID, text string) error

	Sent    []sentMessage
	Answers []string
}

func (m *mockMessenger) Send(ctx context.Context, chatID int64, text string, actions *models.PageActions) (string, error) {
	if m.SendFn != nil {
		id, err := m.SendFn(ctx, chatID, text, actions)
		if err != nil {
			return "", err
		}
		m.Sent = append(m.Sent, sentMessage{ChatID: chatID, Text: text, Actions: actions})
		return id, nil
	}
	m.Sent = append(m.Sent, sentMessage{ChatID: chatID, Text: text, Actions: actions})
	return "1", nil
}

func (m *mockMessenger) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if m.AnswerCallbackFn != nil {
		return m.AnswerCallbackFn(ctx, callbackID, text)
	}
	m.Answers = append(m.Answers, callbackID)
	return nil
}

type mockPublisher struct {
	PublishFn func(ctx context.Context, ev events.AlertEvent) error
	Published []events.AlertEvent
}

func (m *mockPublisher) Publish(ctx context.Context, ev events.AlertEvent) error {
	if m.PublishFn != nil {
		return m.PublishFn(ctx, ev)
	}
	m.Published = append(m.Published, ev)
	return nil
}

type recordPusher struct {
	Pushed []models.InboxNotification
}

func (p *recordPusher) Push(n models.InboxNotification) {
	p.Pushed = append(p.Pushed, n)
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.Alert.Ceiling = 2
	cfg.Alert.CeilingWindow = 30 * time.Minute
	cfg.Alert.StaleThreshold = 60 * time.Minute
	cfg.Location = time.UTC
	return cfg
}

func newTestService(t *testing.T, store *mockStore, dir *mockDirectory, msg *mockMessenger, pub *mockPublisher, opts ...Option) *Service {
	t.Helper()
	s := New(store, dir, msg, pub, logging.NewForTesting(), testConfig(), opts...)
	s.now = func() time.Time { return fixedNow }
	return s
}

func chatPtr(id int64) *int64 {
	return &id
}

func reachableRecipient(id int64, name string, chatID int64) models.Recipient {
	return models.Recipient{ID: id, DisplayName: name, ChatID: chatPtr(chatID), Active: true}
}

func unreachableRecipient(id int64, name string) models.Recipient {
	return models.Recipient{ID: id, DisplayName: name, Active: true}
}
