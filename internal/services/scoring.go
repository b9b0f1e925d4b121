package services

import (
	"fmt"

	types "github.com/playfinity/adaptive-backend/internal/domain"
	pkgerrors "github.com/playfinity/adaptive-backend/internal/pkg/errors"
)

// Performance score weights. Accuracy dominates; finishing the activity and
// not rage quitting cover engagement.
const (
	accuracyWeight   = 0.5
	completionWeight = 0.3
	engagementWeight = 0.2

	// SuccessThreshold splits a scored session into a bandit success or
	// failure.
	SuccessThreshold = 0.6
)

// PerformanceScore reduces a finalized session to a scalar in [0,1]. A
// session with zero questions scores on completion and engagement alone.
func PerformanceScore(s *types.GameSession) float64 {
	accuracy := 0.0
	if s.TotalQuestions > 0 {
		accuracy = float64(s.CorrectAnswers) / float64(s.TotalQuestions)
	}
	completion := 0.0
	if s.Completed {
		completion = 1.0
	}
	engagement := 1.0
	if s.RageQuit {
		engagement = 0.0
	}
	score := accuracyWeight*accuracy + completionWeight*completion + engagementWeight*engagement
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// ScoreSession returns the performance score together with the success flag
// used by the bandit update.
func ScoreSession(s *types.GameSession) (float64, bool) {
	score := PerformanceScore(s)
	return score, score >= SuccessThreshold
}

// ValidateSession rejects malformed records at the ingestion boundary so
// they never reach the scorer. The accuracy rate is recomputed server side.
func ValidateSession(s *types.GameSession) error {
	if s == nil {
		return fmt.Errorf("nil session: %w", pkgerrors.ErrInvalidArgument)
	}
	if s.SessionID == "" || s.UserID == "" || s.ActivityID == "" {
		return fmt.Errorf("session_id, user_id and activity_id are required: %w", pkgerrors.ErrInvalidArgument)
	}
	if s.CorrectAnswers < 0 || s.TotalQuestions < 0 {
		return fmt.Errorf("negative question counts: %w", pkgerrors.ErrInvalidArgument)
	}
	if s.CorrectAnswers > s.TotalQuestions {
		return fmt.Errorf("correct_answers exceeds total_questions: %w", pkgerrors.ErrInvalidArgument)
	}
	if s.ConsecutiveErrors < 0 || s.MaxConsecutiveErrors < 0 || s.QuestionsSkipped < 0 ||
		s.HelpHintCount < 0 || s.ReplayCount < 0 || s.TabSwitches < 0 {
		return fmt.Errorf("negative behavioral counters: %w", pkgerrors.ErrInvalidArgument)
	}
	if s.TimeSpentSeconds < 0 || s.TotalIdleTimeSeconds < 0 || s.MaxIdleTimeSeconds < 0 {
		return fmt.Errorf("negative durations: %w", pkgerrors.ErrInvalidArgument)
	}
	if !s.SessionStart.IsZero() && !s.SessionEnd.IsZero() && s.SessionEnd.Before(s.SessionStart) {
		return fmt.Errorf("session_end before session_start: %w", pkgerrors.ErrInvalidArgument)
	}
	if s.TotalQuestions > 0 {
		s.AccuracyRate = float64(s.CorrectAnswers) / float64(s.TotalQuestions)
	} else {
		s.AccuracyRate = 0
	}
	return nil
}
