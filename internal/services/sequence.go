package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/playfinity/adaptive-backend/internal/clients/redis"
	"github.com/playfinity/adaptive-backend/internal/data/repos"
	types "github.com/playfinity/adaptive-backend/internal/domain"
	"github.com/playfinity/adaptive-backend/internal/pkg/betarand"
	"github.com/playfinity/adaptive-backend/internal/pkg/dbctx"
	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
)

// DefaultActivitySet is the fixed activity catalog planned over when
// ACTIVITY_SET is not configured.
var DefaultActivitySet = []string{"balloon_math", "general_knowledge", "spelling"}

// SequenceService ranks the activity set for a user with one Thompson
// Sampling draw per arm and attaches a baseline difficulty to each entry.
type SequenceService interface {
	Plan(ctx context.Context, userID, trait string) ([]*types.SequenceEntry, error)
}

type sequenceService struct {
	db            *gorm.DB
	log           *logger.Logger
	armRepo       repos.BanditArmRepo
	priorSvc      PriorService
	difficultySvc DifficultyService
	sampler       *betarand.Sampler
	bus           redis.EventBus
	activities    []string
	createGroup   singleflight.Group
}

func NewSequenceService(
	db *gorm.DB,
	log *logger.Logger,
	armRepo repos.BanditArmRepo,
	priorSvc PriorService,
	difficultySvc DifficultyService,
	sampler *betarand.Sampler,
	bus redis.EventBus,
	activities []string,
) SequenceService {
	if len(activities) == 0 {
		activities = DefaultActivitySet
	}
	return &sequenceService{
		db:            db,
		log:           log.With("service", "SequenceService"),
		armRepo:       armRepo,
		priorSvc:      priorSvc,
		difficultySvc: difficultySvc,
		sampler:       sampler,
		bus:           bus,
		activities:    activities,
	}
}

func (s *sequenceService) Plan(ctx context.Context, userID, trait string) ([]*types.SequenceEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	entries := make([]*types.SequenceEntry, 0, len(s.activities))
	thetas := make(map[string]float64, len(s.activities))

	for _, activityID := range s.activities {
		arm := s.armFor(ctx, userID, activityID, trait)
		theta := s.sampler.Beta(arm.Alpha, arm.Beta)
		thetas[activityID] = theta

		difficulty, err := s.difficultySvc.Baseline(ctx, userID, activityID)
		if err != nil {
			s.log.Warn("Baseline difficulty unavailable, using medium", "activity_id", activityID, "error", err)
			difficulty = types.DifficultyMedium
		}

		entries = append(entries, &types.SequenceEntry{
			ActivityID:    activityID,
			SampledReward: theta,
			Difficulty:    difficulty,
			QuestionCount: s.difficultySvc.QuestionCount(activityID, difficulty),
			Confidence:    posteriorConfidence(arm.Alpha, arm.Beta),
			SuccessRate:   arm.Mean(),
			TotalPlays:    arm.TotalPlays,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		ti, tj := thetas[entries[i].ActivityID], thetas[entries[j].ActivityID]
		if ti != tj {
			return ti > tj
		}
		return entries[i].ActivityID < entries[j].ActivityID
	})
	for i, e := range entries {
		e.Priority = i + 1
	}

	s.publishPlan(ctx, userID, entries)
	return entries, nil
}

// armFor loads the arm, lazily creating it on first access. A store failure
// degrades that arm to its prior instead of failing the whole plan.
func (s *sequenceService) armFor(ctx context.Context, userID, activityID, trait string) *types.BanditArm {
	dbc := dbctx.Context{Ctx: ctx}
	arm, err := s.armRepo.Get(dbc, userID, activityID)
	if err == nil && arm != nil {
		return arm
	}
	if err != nil {
		return s.priorArm(userID, activityID, trait, err)
	}

	key := userID + "/" + activityID
	created, err, _ := s.createGroup.Do(key, func() (interface{}, error) {
		alpha0, beta0 := s.priorSvc.PriorFor(trait, activityID)
		seed := &types.BanditArm{
			UserID:     userID,
			ActivityID: activityID,
			Alpha:      alpha0,
			Beta:       beta0,
		}
		if err := s.armRepo.CreateIfAbsent(dbc, seed); err != nil {
			return nil, err
		}
		return s.armRepo.Get(dbc, userID, activityID)
	})
	if err != nil {
		return s.priorArm(userID, activityID, trait, err)
	}
	if arm, ok := created.(*types.BanditArm); ok && arm != nil {
		return arm
	}
	return s.priorArm(userID, activityID, trait, nil)
}

func (s *sequenceService) priorArm(userID, activityID, trait string, cause error) *types.BanditArm {
	if cause != nil {
		s.log.Warn("Arm unavailable, planning from prior", "activity_id", activityID, "error", cause)
	}
	alpha0, beta0 := s.priorSvc.PriorFor(trait, activityID)
	return &types.BanditArm{
		UserID:      userID,
		ActivityID:  activityID,
		Alpha:       alpha0,
		Beta:        beta0,
		LastUpdated: time.Now().UTC(),
	}
}

func (s *sequenceService) publishPlan(ctx context.Context, userID string, entries []*types.SequenceEntry) {
	if s.bus == nil {
		return
	}
	order := make([]string, len(entries))
	for i, e := range entries {
		order[i] = e.ActivityID
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.bus.Publish(pubCtx, redis.Event{
		Type:    redis.EventSequencePlanned,
		UserID:  userID,
		Payload: map[string]any{"order": order},
	}); err != nil {
		s.log.Warn("Event publish failed", "type", redis.EventSequencePlanned, "error", err)
	}
}

// posteriorConfidence is the inverse coefficient of variation of the Beta
// posterior, squashed into [0,1]. Fresh arms report 0.
func posteriorConfidence(alpha, beta float64) float64 {
	total := alpha + beta
	if total <= 2 {
		return 0
	}
	mean := alpha / total
	if mean == 0 {
		return 0
	}
	variance := (alpha * beta) / (total * total * (total + 1))
	cv := math.Sqrt(variance) / mean
	confidence := 1.0 / (1.0 + cv)
	if confidence > 1 {
		return 1
	}
	return confidence
}
