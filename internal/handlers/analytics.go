package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/playfinity/adaptive-backend/internal/domain"
	pkgerrors "github.com/playfinity/adaptive-backend/internal/pkg/errors"
	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
	"github.com/playfinity/adaptive-backend/internal/services"
)

type AnalyticsHandler struct {
	log          *logger.Logger
	banditSvc    services.BanditService
	analyticsSvc services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, banditSvc services.BanditService, analyticsSvc services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:          log.With("handler", "AnalyticsHandler"),
		banditSvc:    banditSvc,
		analyticsSvc: analyticsSvc,
	}
}

type gameSessionRequest struct {
	SessionID  string `json:"session_id" binding:"required"`
	UserID     string `json:"user_id" binding:"required"`
	ActivityID string `json:"activity_id" binding:"required"`
	Topic      string `json:"topic"`

	CorrectAnswers         int     `json:"correct_answers"`
	TotalQuestions         int     `json:"total_questions"`
	Completed              bool    `json:"completed"`
	TimeSpentSeconds       float64 `json:"time_spent_seconds"`
	AverageTimePerQuestion float64 `json:"average_time_per_question"`

	ConsecutiveErrors    int     `json:"consecutive_errors"`
	MaxConsecutiveErrors int     `json:"max_consecutive_errors"`
	QuestionsSkipped     int     `json:"questions_skipped"`
	HelpHintCount        int     `json:"help_hint_count"`
	ReplayCount          int     `json:"replay_count"`
	TabSwitches          int     `json:"tab_switches"`
	TotalIdleTimeSeconds float64 `json:"total_idle_time_seconds"`
	MaxIdleTimeSeconds   float64 `json:"max_idle_time_seconds"`
	RageQuit             bool    `json:"rage_quit"`

	UserTrait    string    `json:"user_trait"`
	SessionStart time.Time `json:"session_start"`
	SessionEnd   time.Time `json:"session_end"`
}

// POST /api/analytics/game-session
func (h *AnalyticsHandler) SubmitSession(c *gin.Context) {
	var req gameSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	sess := &types.GameSession{
		SessionID:              req.SessionID,
		UserID:                 req.UserID,
		ActivityID:             req.ActivityID,
		Topic:                  req.Topic,
		CorrectAnswers:         req.CorrectAnswers,
		TotalQuestions:         req.TotalQuestions,
		Completed:              req.Completed,
		TimeSpentSeconds:       req.TimeSpentSeconds,
		AverageTimePerQuestion: req.AverageTimePerQuestion,
		ConsecutiveErrors:      req.ConsecutiveErrors,
		MaxConsecutiveErrors:   req.MaxConsecutiveErrors,
		QuestionsSkipped:       req.QuestionsSkipped,
		HelpHintCount:          req.HelpHintCount,
		ReplayCount:            req.ReplayCount,
		TabSwitches:            req.TabSwitches,
		TotalIdleTimeSeconds:   req.TotalIdleTimeSeconds,
		MaxIdleTimeSeconds:     req.MaxIdleTimeSeconds,
		RageQuit:               req.RageQuit,
		UserTrait:              req.UserTrait,
		SessionStart:           req.SessionStart,
		SessionEnd:             req.SessionEnd,
	}

	result, err := h.banditSvc.SubmitSession(c.Request.Context(), sess)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrInvalidArgument):
			RespondError(c, http.StatusUnprocessableEntity, "invalid_session", err)
		case errors.Is(err, pkgerrors.ErrStoreUnavailable):
			// Recoverable: the producer may re-submit the same session id.
			RespondError(c, http.StatusServiceUnavailable, "store_unavailable", err)
		default:
			h.log.Error("Session submit failed", "session_id", req.SessionID, "error", err)
			RespondError(c, http.StatusInternalServerError, "submit_failed", err)
		}
		return
	}

	RespondOK(c, gin.H{
		"session_id":        req.SessionID,
		"duplicate":         result.Duplicate,
		"performance_score": result.PerformanceScore,
		"success":           result.Success,
	})
}

// GET /api/analytics/user-stats/:userId?activity=
func (h *AnalyticsHandler) GetUserStats(c *gin.Context) {
	userID := c.Param("userId")
	activityID := c.Query("activity")

	stats, err := h.analyticsSvc.GetUserStats(c.Request.Context(), userID, activityID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "stats_failed", err)
		return
	}
	RespondOK(c, gin.H{"user_id": userID, "stats": stats})
}

// GET /api/analytics/recent-sessions/:userId?activity=&limit=
func (h *AnalyticsHandler) GetRecentSessions(c *gin.Context) {
	userID := c.Param("userId")
	activityID := c.Query("activity")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}

	sessions, err := h.analyticsSvc.GetRecentSessions(c.Request.Context(), userID, activityID, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "sessions_failed", err)
		return
	}
	RespondOK(c, gin.H{"user_id": userID, "sessions": sessions, "count": len(sessions)})
}

// GET /api/analytics/performance-scores/:userId
func (h *AnalyticsHandler) GetPerformanceScores(c *gin.Context) {
	userID := c.Param("userId")

	scores, err := h.analyticsSvc.GetPerformanceScores(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "scores_failed", err)
		return
	}
	RespondOK(c, gin.H{"user_id": userID, "scores": scores})
}
