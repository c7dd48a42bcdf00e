package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dispatch-service/internal/config"
	"dispatch-service/internal/logging"
)

func NewRouter(h *Handler, logger *logging.Logger, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	api := r.Group(cfg.API.BasePath)
	{
		api.POST("/alerts", h.CreateAlert)
		api.POST("/alerts/:id/close", h.CloseAlert)
		api.POST("/alerts/sweep", h.SweepExpired)
		api.POST("/telegram/webhook", h.TelegramWebhook)
		api.GET("/ws/inbox", h.InboxStream)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
