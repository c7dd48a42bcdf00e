package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"dispatch-service/internal/alerts"
	"dispatch-service/internal/logging"
	"dispatch-service/internal/models"
	"dispatch-service/internal/telegram"
)

// AlertService is the coordination surface the handlers call into.
type AlertService interface {
	CreateAlert(ctx context.Context, category models.Category, requesterName string) (models.DeliverySummary, error)
	CloseAlert(ctx context.Context, alertID uuid.UUID, category models.Category, closedBy string) (models.ClosureSummary, error)
	HandleResponse(ctx context.Context, ev alerts.ResponseEvent) error
	SweepExpired(ctx context.Context) (models.SweepSummary, error)
}

type Handler struct {
	svc    AlertService
	logger *logging.Logger
	inbox  *InboxManager
}

func NewHandler(svc AlertService, logger *logging.Logger, inbox *InboxManager) *Handler {
	return &Handler{svc: svc, logger: logger, inbox: inbox}
}

// CreateAlert handles POST /alerts.
func (h *Handler) CreateAlert(c *gin.Context) {
	var req struct {
		Category      string `json:"category" binding:"required"`
		RequesterName string `json:"requester_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid alert request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.svc.CreateAlert(c.Request.Context(), category, req.RequesterName)
	if err != nil {
		if errors.Is(err, alerts.ErrCapacityExceeded) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many active alerts, try again later"})
			return
		}
		h.logger.Errorf("Create alert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create alert"})
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// CloseAlert handles POST /alerts/:id/close.
func (h *Handler) CloseAlert(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert id"})
		return
	}

	var req struct {
		Category string `json:"category" binding:"required"`
		ClosedBy string `json:"closed_by" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid closure request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.svc.CloseAlert(c.Request.Context(), alertID, category, req.ClosedBy)
	if err != nil {
		h.logger.Errorf("Close alert %s failed: %v", alertID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close alert"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SweepExpired handles POST /alerts/sweep, the periodic external trigger.
func (h *Handler) SweepExpired(c *gin.Context) {
	summary, err := h.svc.SweepExpired(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Sweep failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sweep failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// TelegramWebhook handles the provider's callback for button presses.
// Non-callback updates and malformed tokens are acknowledged with 200 so
// the provider does not retry them.
func (h *Handler) TelegramWebhook(c *gin.Context) {
	var update tgmodels.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Errorf("Invalid webhook payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update"})
		return
	}
	if update.CallbackQuery == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	choice, alertID, chatID, err := telegram.DecodeCallback(update.CallbackQuery.Data)
	if err != nil {
		h.logger.Errorf("Undecodable callback data %q: %v", update.CallbackQuery.Data, err)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ev := alerts.ResponseEvent{
		CallbackID: update.CallbackQuery.ID,
		Choice:     choice,
		AlertID:    alertID,
		ChatID:     chatID,
	}
	if err := h.svc.HandleResponse(c.Request.Context(), ev); err != nil {
		h.logger.Errorf("Handle response for alert %s failed: %v", alertID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record response"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// InboxStream handles GET /ws/inbox, streaming inbox notifications live.
func (h *Handler) InboxStream(c *gin.Context) {
	h.inbox.Serve(c.Writer, c.Request)
}
