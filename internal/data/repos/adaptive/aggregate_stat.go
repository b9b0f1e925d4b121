package adaptive

import (
	"time"

	"gorm.io/gorm"

	types "github.com/playfinity/adaptive-backend/internal/domain"
	"github.com/playfinity/adaptive-backend/internal/pkg/dbctx"
	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
)

type AggregateStatRepo interface {
	// Get returns the stats row for the pair, or nil when none exists.
	Get(dbc dbctx.Context, userID, activityID string) (*types.AggregateStat, error)
	ListByUser(dbc dbctx.Context, userID string) ([]*types.AggregateStat, error)
	// Save inserts or fully rewrites the row; callers fold the session in
	// first. Meant to run inside the bandit update transaction.
	Save(dbc dbctx.Context, row *types.AggregateStat) error
}

type aggregateStatRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAggregateStatRepo(db *gorm.DB, baseLog *logger.Logger) AggregateStatRepo {
	return &aggregateStatRepo{db: db, log: baseLog.With("repo", "AggregateStatRepo")}
}

func (r *aggregateStatRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *aggregateStatRepo) Get(dbc dbctx.Context, userID, activityID string) (*types.AggregateStat, error) {
	if userID == "" || activityID == "" {
		return nil, nil
	}
	var row types.AggregateStat
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

func (r *aggregateStatRepo) ListByUser(dbc dbctx.Context, userID string) ([]*types.AggregateStat, error) {
	out := []*types.AggregateStat{}
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

func (r *aggregateStatRepo) Save(dbc dbctx.Context, row *types.AggregateStat) error {
	if row == nil || row.UserID == "" || row.ActivityID == "" {
		return nil
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	return r.dbx(dbc).WithContext(dbc.Ctx).Save(row).Error
}
