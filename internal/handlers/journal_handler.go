package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.dailyscore/internal/journal"
	models "io.winapps.dailyscore/internal/models/journal"
)

// JournalSession is the journal state the handlers drive
type JournalSession interface {
	View() journal.View
	SelectScore(score int) error
	CommitToday(ctx context.Context) error
	Reload(ctx context.Context) error
}

type JournalHandler struct {
	session JournalSession
	logger  *zap.SugaredLogger
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(session JournalSession, logger *zap.SugaredLogger) *JournalHandler {
	return &JournalHandler{
		session: session,
		logger:  logger,
	}
}

// RegisterRoutes mounts the journal endpoints on group
func (h *JournalHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.GetJournal)
	group.POST("/select", h.SelectScore)
	group.POST("/commit", h.CommitToday)
	group.PUT("/today", h.SaveToday)
	group.POST("/reload", h.Reload)
}

// GetJournal returns today's key, the pending selection, the weekly average and the history, newest first
func (h *JournalHandler) GetJournal(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewJournalResponse(h.session.View()))
}

// Reload re-reads the journal from the store
func (h *JournalHandler) Reload(c *gin.Context) {
	if err := h.session.Reload(c.Request.Context()); err != nil {
		h.logError(c, err, "failed to reload journal")
		h.respondError(c, http.StatusInternalServerError, "Failed to load journal")
		return
	}
	c.JSON(http.StatusOK, models.NewJournalResponse(h.session.View()))
}

func (h *JournalHandler) respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, models.ErrorResponse{Error: msg, RequestID: c.GetString("request_id")})
}
