package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
	"github.com/playfinity/adaptive-backend/internal/services"
)

type AdaptiveHandler struct {
	log           *logger.Logger
	sequenceSvc   services.SequenceService
	difficultySvc services.DifficultyService
}

func NewAdaptiveHandler(log *logger.Logger, sequenceSvc services.SequenceService, difficultySvc services.DifficultyService) *AdaptiveHandler {
	return &AdaptiveHandler{
		log:           log.With("handler", "AdaptiveHandler"),
		sequenceSvc:   sequenceSvc,
		difficultySvc: difficultySvc,
	}
}

// GET /api/adaptive/sequence/:userId?trait=
func (h *AdaptiveHandler) GetSequence(c *gin.Context) {
	userID := c.Param("userId")
	trait := c.DefaultQuery("trait", "None")

	sequence, err := h.sequenceSvc.Plan(c.Request.Context(), userID, trait)
	if err != nil {
		h.log.Warn("Sequence planning failed", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "sequence_failed", err)
		return
	}
	RespondOK(c, gin.H{
		"user_id":  userID,
		"trait":    trait,
		"sequence": sequence,
	})
}

// GET /api/adaptive/difficulty/:userId/:activityId
func (h *AdaptiveHandler) GetBaselineDifficulty(c *gin.Context) {
	userID := c.Param("userId")
	activityID := c.Param("activityId")

	difficulty, err := h.difficultySvc.Baseline(c.Request.Context(), userID, activityID)
	if err != nil {
		h.log.Warn("Baseline difficulty failed", "user_id", userID, "activity_id", activityID, "error", err)
		RespondError(c, http.StatusInternalServerError, "difficulty_failed", err)
		return
	}
	RespondOK(c, gin.H{
		"user_id":        userID,
		"activity_id":    activityID,
		"difficulty":     difficulty,
		"question_count": h.difficultySvc.QuestionCount(activityID, difficulty),
	})
}

// GET /api/adaptive/realtime-difficulty/:userId/:activityId?current_performance=
func (h *AdaptiveHandler) GetRealtimeDifficulty(c *gin.Context) {
	userID := c.Param("userId")
	activityID := c.Param("activityId")

	raw := c.Query("current_performance")
	if raw == "" {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_performance",
			fmt.Errorf("current_performance is required"))
		return
	}
	performance, err := strconv.ParseFloat(raw, 64)
	if err != nil || performance < 0 || performance > 1 {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_performance",
			fmt.Errorf("current_performance must be a number in [0,1]"))
		return
	}

	adjustment, err := h.difficultySvc.Realtime(c.Request.Context(), userID, activityID, performance)
	if err != nil {
		h.log.Warn("Realtime difficulty failed", "user_id", userID, "activity_id", activityID, "error", err)
		RespondError(c, http.StatusInternalServerError, "difficulty_failed", err)
		return
	}
	RespondOK(c, gin.H{
		"user_id":     userID,
		"activity_id": activityID,
		"adjustment":  adjustment,
	})
}
