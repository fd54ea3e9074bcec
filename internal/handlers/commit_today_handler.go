package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.dailyscore/internal/journal"
	models "io.winapps.dailyscore/internal/models/journal"
)

// CommitToday saves the selected score as today's entry
func (h *JournalHandler) CommitToday(c *gin.Context) {
	if !h.commitToday(c) {
		return
	}
	c.JSON(http.StatusOK, models.NewJournalResponse(h.session.View()))
}

// SaveToday selects and saves today's score in one call
func (h *JournalHandler) SaveToday(c *gin.Context) {
	var req models.SelectScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if !h.selectScore(c, *req.Score) {
		return
	}
	if !h.commitToday(c) {
		return
	}

	c.JSON(http.StatusOK, models.NewJournalResponse(h.session.View()))
}

func (h *JournalHandler) commitToday(c *gin.Context) bool {
	err := h.session.CommitToday(c.Request.Context())
	switch {
	case err == nil:
		return true
	case errors.Is(err, journal.ErrNoSelection):
		h.respondError(c, http.StatusBadRequest, "Select a score before saving")
	default:
		h.logError(c, err, "failed to save today's score")
		h.respondError(c, http.StatusInternalServerError, "Failed to save score")
	}
	return false
}
