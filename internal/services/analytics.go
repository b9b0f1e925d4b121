package services

import (
	"context"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/playfinity/adaptive-backend/internal/data/repos"
	types "github.com/playfinity/adaptive-backend/internal/domain"
	"github.com/playfinity/adaptive-backend/internal/pkg/dbctx"
	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
)

// Composite per-activity score weights, used for reporting only. The
// bandit itself learns from per-session scores.
const (
	compositeAccuracyWeight   = 0.4
	compositeCompletionWeight = 0.3
	compositeEngagementWeight = 0.3
)

// AnalyticsService exposes the read side of the collected telemetry.
type AnalyticsService interface {
	GetUserStats(ctx context.Context, userID, activityID string) (map[string]*types.AggregateStat, error)
	GetRecentSessions(ctx context.Context, userID, activityID string, limit int) ([]*types.GameSession, error)
	GetPerformanceScores(ctx context.Context, userID string) (map[string]float64, error)
}

type analyticsService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.GameSessionRepo
	statRepo    repos.AggregateStatRepo
}

func NewAnalyticsService(db *gorm.DB, log *logger.Logger, sessionRepo repos.GameSessionRepo, statRepo repos.AggregateStatRepo) AnalyticsService {
	return &analyticsService{
		db:          db,
		log:         log.With("service", "AnalyticsService"),
		sessionRepo: sessionRepo,
		statRepo:    statRepo,
	}
}

func (s *analyticsService) GetUserStats(ctx context.Context, userID, activityID string) (map[string]*types.AggregateStat, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}
	dbc := dbctx.Context{Ctx: ctx}
	out := map[string]*types.AggregateStat{}
	if activityID != "" {
		stat, err := s.statRepo.Get(dbc, userID, activityID)
		if err != nil {
			return nil, err
		}
		if stat != nil {
			out[activityID] = stat
		}
		return out, nil
	}
	rows, err := s.statRepo.ListByUser(dbc, userID)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ActivityID] = row
	}
	return out, nil
}

func (s *analyticsService) GetRecentSessions(ctx context.Context, userID, activityID string, limit int) ([]*types.GameSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}
	return s.sessionRepo.ListRecentByUser(dbctx.Context{Ctx: ctx}, userID, activityID, limit)
}

func (s *analyticsService) GetPerformanceScores(ctx context.Context, userID string) (map[string]float64, error) {
	stats, err := s.GetUserStats(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	scores := make(map[string]float64, len(stats))
	for activityID, stat := range stats {
		if stat.TotalSessions == 0 {
			continue
		}
		completionRate := float64(stat.TotalCompletions) / float64(stat.TotalSessions)
		engagement := 1 - float64(stat.TotalRageQuits)/float64(stat.TotalSessions)
		score := compositeAccuracyWeight*stat.AverageAccuracy +
			compositeCompletionWeight*completionRate +
			compositeEngagementWeight*engagement
		scores[activityID] = math.Round(score*1000) / 1000
	}
	return scores, nil
}
