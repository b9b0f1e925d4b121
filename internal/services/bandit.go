package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/playfinity/adaptive-backend/internal/clients/redis"
	"github.com/playfinity/adaptive-backend/internal/data/repos"
	types "github.com/playfinity/adaptive-backend/internal/domain"
	"github.com/playfinity/adaptive-backend/internal/pkg/dbctx"
	pkgerrors "github.com/playfinity/adaptive-backend/internal/pkg/errors"
	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
)

// SubmitResult reports what a submission did to the arm.
type SubmitResult struct {
	Duplicate        bool             `json:"duplicate"`
	PerformanceScore float64          `json:"performance_score"`
	Success          bool             `json:"success"`
	Arm              *types.BanditArm `json:"arm,omitempty"`
}

// BanditService folds finalized sessions into per-(user, activity) arms.
// Each submission runs as one transaction: duplicate check, arm update,
// session insert and aggregate-stat fold commit or roll back together.
type BanditService interface {
	SubmitSession(ctx context.Context, sess *types.GameSession) (*SubmitResult, error)
}

type banditService struct {
	db          *gorm.DB
	log         *logger.Logger
	armRepo     repos.BanditArmRepo
	sessionRepo repos.GameSessionRepo
	statRepo    repos.AggregateStatRepo
	priorSvc    PriorService
	bus         redis.EventBus

	maxAttempts int
	baseBackoff time.Duration
}

func NewBanditService(
	db *gorm.DB,
	log *logger.Logger,
	armRepo repos.BanditArmRepo,
	sessionRepo repos.GameSessionRepo,
	statRepo repos.AggregateStatRepo,
	priorSvc PriorService,
	bus redis.EventBus,
) BanditService {
	return &banditService{
		db:          db,
		log:         log.With("service", "BanditService"),
		armRepo:     armRepo,
		sessionRepo: sessionRepo,
		statRepo:    statRepo,
		priorSvc:    priorSvc,
		bus:         bus,
		maxAttempts: 4,
		baseBackoff: 50 * time.Millisecond,
	}
}

func (s *banditService) SubmitSession(ctx context.Context, sess *types.GameSession) (*SubmitResult, error) {
	if err := ValidateSession(sess); err != nil {
		return nil, err
	}

	score, success := ScoreSession(sess)
	result := &SubmitResult{PerformanceScore: score, Success: success}

	var lastErr error
	backoff := s.baseBackoff
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.applyOnce(dbctx.Context{Ctx: ctx, Tx: tx}, sess, score, success, result)
		})
		if lastErr == nil {
			s.publish(ctx, sess, result)
			return result, nil
		}

		if attempt == s.maxAttempts-1 {
			break
		}
		sleep := backoff + time.Duration(rand.Int63n(int64(backoff)))
		s.log.Warn("Session update retrying",
			"session_id", sess.SessionID,
			"attempt", attempt+1,
			"max_attempts", s.maxAttempts,
			"sleep", sleep.String(),
			"error", lastErr.Error(),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
		backoff *= 2
	}

	s.log.Error("Session update failed after retries", "session_id", sess.SessionID, "error", lastErr)
	return nil, fmt.Errorf("submit session %s: %v: %w", sess.SessionID, lastErr, pkgerrors.ErrStoreUnavailable)
}

// applyOnce is the body of the submission transaction. It either records
// the session exactly once or marks the result as a duplicate no-op.
func (s *banditService) applyOnce(dbc dbctx.Context, sess *types.GameSession, score float64, success bool, result *SubmitResult) error {
	arm, err := s.armRepo.GetForUpdate(dbc, sess.UserID, sess.ActivityID)
	if err != nil {
		return fmt.Errorf("lock arm: %w", err)
	}
	if arm == nil {
		alpha0, beta0 := s.priorSvc.PriorFor(sess.UserTrait, sess.ActivityID)
		seed := &types.BanditArm{
			UserID:     sess.UserID,
			ActivityID: sess.ActivityID,
			Alpha:      alpha0,
			Beta:       beta0,
		}
		if err := s.armRepo.CreateIfAbsent(dbc, seed); err != nil {
			return fmt.Errorf("create arm: %w", err)
		}
		if arm, err = s.armRepo.GetForUpdate(dbc, sess.UserID, sess.ActivityID); err != nil || arm == nil {
			return fmt.Errorf("reload arm after create: %w", err)
		}
	}

	applied, err := s.alreadyApplied(dbc, arm, sess.SessionID)
	if err != nil {
		return err
	}
	if applied {
		result.Duplicate = true
		result.Arm = arm
		return nil
	}

	if success {
		arm.Alpha += score
		arm.TotalSuccesses++
	} else {
		arm.Beta += 1 - score
		arm.TotalFailures++
	}
	arm.TotalPlays++
	arm.LastUpdated = time.Now().UTC()
	if err := s.appendApplied(arm, sess.SessionID); err != nil {
		return err
	}
	if err := s.armRepo.Save(dbc, arm); err != nil {
		return fmt.Errorf("save arm: %w", err)
	}

	if err := s.sessionRepo.Create(dbc, sess); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if err := s.foldAggregate(dbc, sess); err != nil {
		return fmt.Errorf("fold aggregate stats: %w", err)
	}

	result.Duplicate = false
	result.Arm = arm
	return nil
}

func (s *banditService) alreadyApplied(dbc dbctx.Context, arm *types.BanditArm, sessionID string) (bool, error) {
	var ring []string
	if len(arm.AppliedSessions) > 0 {
		if err := json.Unmarshal(arm.AppliedSessions, &ring); err != nil {
			return false, fmt.Errorf("decode applied sessions: %w", err)
		}
	}
	for _, id := range ring {
		if id == sessionID {
			return true, nil
		}
	}
	// Ring is bounded; older duplicates are caught by the stored rows.
	return s.sessionRepo.ExistsBySessionID(dbc, sessionID)
}

func (s *banditService) appendApplied(arm *types.BanditArm, sessionID string) error {
	var ring []string
	if len(arm.AppliedSessions) > 0 {
		if err := json.Unmarshal(arm.AppliedSessions, &ring); err != nil {
			return fmt.Errorf("decode applied sessions: %w", err)
		}
	}
	ring = append(ring, sessionID)
	if len(ring) > types.AppliedSessionsCap {
		ring = ring[len(ring)-types.AppliedSessionsCap:]
	}
	raw, err := json.Marshal(ring)
	if err != nil {
		return err
	}
	arm.AppliedSessions = raw
	return nil
}

func (s *banditService) foldAggregate(dbc dbctx.Context, sess *types.GameSession) error {
	stat, err := s.statRepo.Get(dbc, sess.UserID, sess.ActivityID)
	if err != nil {
		return err
	}
	if stat == nil {
		stat = &types.AggregateStat{UserID: sess.UserID, ActivityID: sess.ActivityID}
	}
	stat.TotalSessions++
	stat.TotalQuestions += sess.TotalQuestions
	stat.TotalCorrect += sess.CorrectAnswers
	stat.TotalTimeSeconds += sess.TimeSpentSeconds
	if sess.Completed {
		stat.TotalCompletions++
	}
	if sess.RageQuit {
		stat.TotalRageQuits++
	}
	stat.TotalHelpUsage += sess.HelpHintCount
	if stat.TotalQuestions > 0 {
		stat.AverageAccuracy = float64(stat.TotalCorrect) / float64(stat.TotalQuestions)
	}
	stat.AverageTimePerSession = stat.TotalTimeSeconds / float64(stat.TotalSessions)
	stat.LastPlayed = time.Now().UTC()
	return s.statRepo.Save(dbc, stat)
}

func (s *banditService) publish(ctx context.Context, sess *types.GameSession, result *SubmitResult) {
	if s.bus == nil {
		return
	}
	evType := redis.EventSessionRecorded
	if result.Duplicate {
		evType = redis.EventDuplicateSession
	}
	ev := redis.Event{
		Type:       evType,
		UserID:     sess.UserID,
		ActivityID: sess.ActivityID,
		Payload: map[string]any{
			"session_id":        sess.SessionID,
			"performance_score": result.PerformanceScore,
			"success":           result.Success,
		},
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.bus.Publish(pubCtx, ev); err != nil {
		s.log.Warn("Event publish failed", "type", evType, "error", err)
	}
}
