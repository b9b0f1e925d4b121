package adaptive

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/playfinity/adaptive-backend/internal/domain"
	"github.com/playfinity/adaptive-backend/internal/pkg/dbctx"
	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
)

type BanditArmRepo interface {
	// Get returns the arm for the pair, or nil when none exists yet.
	Get(dbc dbctx.Context, userID, activityID string) (*types.BanditArm, error)
	// GetForUpdate locks the arm row inside the supplied transaction.
	// Returns nil when the arm does not exist.
	GetForUpdate(dbc dbctx.Context, userID, activityID string) (*types.BanditArm, error)
	// CreateIfAbsent inserts the arm, silently keeping any existing row.
	CreateIfAbsent(dbc dbctx.Context, arm *types.BanditArm) error
	// Save writes back a mutated arm. Must run inside the transaction that
	// locked the row.
	Save(dbc dbctx.Context, arm *types.BanditArm) error
	// ListByUser returns all arms for a user.
	ListByUser(dbc dbctx.Context, userID string) ([]*types.BanditArm, error)
}

type banditArmRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBanditArmRepo(db *gorm.DB, baseLog *logger.Logger) BanditArmRepo {
	return &banditArmRepo{db: db, log: baseLog.With("repo", "BanditArmRepo")}
}

func (r *banditArmRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *banditArmRepo) Get(dbc dbctx.Context, userID, activityID string) (*types.BanditArm, error) {
	if userID == "" || activityID == "" {
		return nil, nil
	}
	var row types.BanditArm
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND activity_id = ?", userID, activityID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.UserID == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *banditArmRepo) GetForUpdate(dbc dbctx.Context, userID, activityID string) (*types.BanditArm, error) {
	if userID == "" || activityID == "" {
		return nil, nil
	}
	q := r.dbx(dbc).WithContext(dbc.Ctx)
	// SQLite serializes writers on its own and rejects FOR UPDATE.
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row types.BanditArm
	err := q.
		Where("user_id = ? AND activity_id = ?", userID, activityID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.UserID == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *banditArmRepo) CreateIfAbsent(dbc dbctx.Context, arm *types.BanditArm) error {
	if arm == nil || arm.UserID == "" || arm.ActivityID == "" {
		return nil
	}
	now := time.Now().UTC()
	if arm.CreatedAt.IsZero() {
		arm.CreatedAt = now
	}
	arm.UpdatedAt = now
	if arm.LastUpdated.IsZero() {
		arm.LastUpdated = now
	}
	if len(arm.AppliedSessions) == 0 {
		empty, _ := json.Marshal([]string{})
		arm.AppliedSessions = empty
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(arm).Error
}

func (r *banditArmRepo) Save(dbc dbctx.Context, arm *types.BanditArm) error {
	if arm == nil || arm.UserID == "" || arm.ActivityID == "" {
		return nil
	}
	arm.UpdatedAt = time.Now().UTC()
	return r.dbx(dbc).WithContext(dbc.Ctx).Save(arm).Error
}

func (r *banditArmRepo) ListByUser(dbc dbctx.Context, userID string) ([]*types.BanditArm, error) {
	out := []*types.BanditArm{}
	if userID == "" {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("activity_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
