package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/playfinity/adaptive-backend/internal/data/repos"
	types "github.com/playfinity/adaptive-backend/internal/domain"
	"github.com/playfinity/adaptive-backend/internal/pkg/dbctx"
	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
)

const (
	// Baseline buckets over the mean recent performance score.
	baselineHardThreshold   = 0.8
	baselineMediumThreshold = 0.5
	baselineWindow          = 5

	// Real-time step triggers over the in-progress accuracy.
	realtimeStepUpThreshold   = 0.9
	realtimeStepDownThreshold = 0.3
)

// How many questions the content provider should serve per difficulty.
// Spelling counts are word lengths rather than question counts.
var difficultyQuestionCounts = map[types.Difficulty]map[string]int{
	types.DifficultyEasy:   {"balloon_math": 3, "general_knowledge": 3, "spelling": 4},
	types.DifficultyMedium: {"balloon_math": 5, "general_knowledge": 5, "spelling": 6},
	types.DifficultyHard:   {"balloon_math": 8, "general_knowledge": 8, "spelling": 8},
}

const defaultQuestionCount = 5

// DifficultyService derives difficulty labels from session history. Both
// operations are read only; real-time adjustment never writes back.
type DifficultyService interface {
	Baseline(ctx context.Context, userID, activityID string) (types.Difficulty, error)
	Realtime(ctx context.Context, userID, activityID string, currentPerformance float64) (*types.RealtimeAdjustment, error)
	QuestionCount(activityID string, d types.Difficulty) int
}

type difficultyService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.GameSessionRepo
}

func NewDifficultyService(db *gorm.DB, log *logger.Logger, sessionRepo repos.GameSessionRepo) DifficultyService {
	return &difficultyService{
		db:          db,
		log:         log.With("service", "DifficultyService"),
		sessionRepo: sessionRepo,
	}
}

func (s *difficultyService) Baseline(ctx context.Context, userID, activityID string) (types.Difficulty, error) {
	recent, err := s.sessionRepo.ListRecent(dbctx.Context{Ctx: ctx}, userID, activityID, baselineWindow)
	if err != nil {
		return types.DifficultyMedium, fmt.Errorf("list recent sessions: %w", err)
	}
	if len(recent) == 0 {
		return types.DifficultyMedium, nil
	}

	var sum float64
	for _, sess := range recent {
		sum += PerformanceScore(sess)
	}
	avg := sum / float64(len(recent))

	switch {
	case avg >= baselineHardThreshold:
		return types.DifficultyHard, nil
	case avg >= baselineMediumThreshold:
		return types.DifficultyMedium, nil
	default:
		return types.DifficultyEasy, nil
	}
}

func (s *difficultyService) Realtime(ctx context.Context, userID, activityID string, currentPerformance float64) (*types.RealtimeAdjustment, error) {
	base, err := s.Baseline(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}

	adjustment := types.AdjustmentMaintain
	level := base
	switch {
	case currentPerformance >= realtimeStepUpThreshold:
		adjustment = types.AdjustmentIncrease
		level = base.StepUp()
	case currentPerformance <= realtimeStepDownThreshold:
		adjustment = types.AdjustmentDecrease
		level = base.StepDown()
	}

	return &types.RealtimeAdjustment{
		BaselineDifficulty: base,
		NewDifficulty:      level,
		CurrentPerformance: currentPerformance,
		Adjustment:         adjustment,
		QuestionCount:      s.QuestionCount(activityID, level),
		Reasoning:          adjustmentReasoning(currentPerformance, adjustment),
	}, nil
}

func (s *difficultyService) QuestionCount(activityID string, d types.Difficulty) int {
	byActivity, ok := difficultyQuestionCounts[d]
	if !ok {
		return defaultQuestionCount
	}
	n, ok := byActivity[activityID]
	if !ok {
		return defaultQuestionCount
	}
	return n
}

func adjustmentReasoning(performance float64, adjustment string) string {
	switch adjustment {
	case types.AdjustmentIncrease:
		return fmt.Sprintf("Student is excelling (%.0f%% accuracy) - increasing challenge", performance*100)
	case types.AdjustmentDecrease:
		return fmt.Sprintf("Student struggling (%.0f%% accuracy) - providing support", performance*100)
	default:
		return fmt.Sprintf("Student performing well (%.0f%% accuracy) - maintaining level", performance*100)
	}
}
