// Package alerts implements the readiness alert coordination core: the
// broadcaster, response ingestor, resolver, and expiry sweeper. Every
// operation is a stateless handler invocation; the only shared mutable
// state lives in the store.
package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dispatch-service/internal/config"
	"dispatch-service/internal/events"
	"dispatch-service/internal/logging"
	"dispatch-service/internal/models"
)

// Store is the persistence surface for alerts, responses, and the inbox.
// Lookups return db.ErrNotFound (wrapped or bare) when a record is absent.
type Store interface {
	CreateAlert(ctx context.Context, alert models.Alert) error
	GetAlert(ctx context.Context, id uuid.UUID) (models.Alert, error)
	CountRecentAlerts(ctx context.Context, since time.Time) (int, error)
	ListStaleAlerts(ctx context.Context, before time.Time) ([]models.Alert, error)
	DeleteAlert(ctx context.Context, id uuid.UUID) (int64, error)

	UpsertResponse(ctx context.Context, r models.AlertResponse) error
	ListResponses(ctx context.Context, alertID uuid.UUID) ([]models.AlertResponse, error)
	DeleteResponses(ctx context.Context, alertID uuid.UUID) (int64, error)

	CreateInboxNotification(ctx context.Context, n models.InboxNotification) error
}

// Directory is the read-only view onto the identity service.
type Directory interface {
	QueryActiveRecipients(ctx context.Context, functionTag string) ([]models.Recipient, error)
	FindRecipientByChatID(ctx context.Context, chatID int64) (models.Recipient, error)
}

// Messenger is the only write path to the chat provider.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, actions *models.PageActions) (string, error)
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// EventPublisher emits alert lifecycle events for downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.AlertEvent) error
}

// InboxPusher streams freshly written inbox notifications to connected
// dashboard clients.
type InboxPusher interface {
	Push(n models.InboxNotification)
}

type noopPusher struct{}

func (noopPusher) Push(models.InboxNotification) {}

// Service coordinates the alert lifecycle.
type Service struct {
	store     Store
	directory Directory
	messenger Messenger
	events    EventPublisher
	push      InboxPusher
	logger    *logging.Logger
	cfg       config.Config
	now       func() time.Time
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithInboxPusher wires a live push sink for inbox notifications.
func WithInboxPusher(p InboxPusher) Option {
	return func(s *Service) {
		if p != nil {
			s.push = p
		}
	}
}

// New constructs the coordination service. Timestamps are produced in the
// configured provider-local timezone.
func New(store Store, directory Directory, messenger Messenger, publisher EventPublisher, logger *logging.Logger, cfg config.Config, opts ...Option) *Service {
	s := &Service{
		store:     store,
		directory: directory,
		messenger: messenger,
		events:    publisher,
		push:      noopPusher{},
		logger:    logger,
		cfg:       cfg,
	}
	s.now = func() time.Time { return time.Now().In(cfg.Location) }
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// publishEvent emits a lifecycle event; failures are logged, never fatal.
func (s *Service) publishEvent(ctx context.Context, ev events.AlertEvent) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Errorf("Publish %s for alert %s failed: %v", ev.Type, ev.AlertID, err)
	}
}
