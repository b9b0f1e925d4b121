package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/playfinity/adaptive-backend/internal/domain"
)

// SeedSession inserts a finalized session with accuracy derived from the
// correct/total counts. Remaining behavioral fields stay zeroed.
func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, activityID string, correct, total int, completed, rageQuit bool, end time.Time) *types.GameSession {
	tb.Helper()
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}
	s := &types.GameSession{
		ID:               uuid.New(),
		SessionID:        uuid.NewString(),
		UserID:           userID,
		ActivityID:       activityID,
		Topic:            "animals",
		CorrectAnswers:   correct,
		TotalQuestions:   total,
		AccuracyRate:     accuracy,
		Completed:        completed,
		RageQuit:         rageQuit,
		TimeSpentSeconds: 60,
		SessionStart:     end.Add(-time.Minute),
		SessionEnd:       end,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedArm(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, activityID string, alpha, beta float64) *types.BanditArm {
	tb.Helper()
	empty, _ := json.Marshal([]string{})
	now := time.Now().UTC()
	a := &types.BanditArm{
		UserID:          userID,
		ActivityID:      activityID,
		Alpha:           alpha,
		Beta:            beta,
		AppliedSessions: empty,
		LastUpdated:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed arm: %v", err)
	}
	return a
}
