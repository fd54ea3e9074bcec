package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.dailyscore/internal/journal"
	models "io.winapps.dailyscore/internal/models/journal"
)

// SelectScore records the score tapped for today without saving it
func (h *JournalHandler) SelectScore(c *gin.Context) {
	var req models.SelectScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if !h.selectScore(c, *req.Score) {
		return
	}

	c.JSON(http.StatusOK, models.NewJournalResponse(h.session.View()))
}

func (h *JournalHandler) selectScore(c *gin.Context, score int) bool {
	if err := h.session.SelectScore(score); err != nil {
		if errors.Is(err, journal.ErrScoreOutOfRange) {
			h.respondError(c, http.StatusBadRequest, "Score must be between 1 and 5")
			return false
		}
		h.logError(c, err, "failed to select score", "score", score)
		h.respondError(c, http.StatusInternalServerError, "Failed to select score")
		return false
	}
	return true
}
