package adaptive

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/playfinity/adaptive-backend/internal/domain"
	"github.com/playfinity/adaptive-backend/internal/pkg/dbctx"
	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
)

type GameSessionRepo interface {
	Create(dbc dbctx.Context, row *types.GameSession) error
	// ExistsBySessionID reports whether a session id was already stored.
	ExistsBySessionID(dbc dbctx.Context, sessionID string) (bool, error)
	// ListRecent returns up to limit sessions for the pair, newest first.
	ListRecent(dbc dbctx.Context, userID, activityID string, limit int) ([]*types.GameSession, error)
	// ListRecentByUser returns up to limit sessions across all activities,
	// newest first. Empty activityID matches everything.
	ListRecentByUser(dbc dbctx.Context, userID, activityID string, limit int) ([]*types.GameSession, error)
}

type gameSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGameSessionRepo(db *gorm.DB, baseLog *logger.Logger) GameSessionRepo {
	return &gameSessionRepo{db: db, log: baseLog.With("repo", "GameSessionRepo")}
}

func (r *gameSessionRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *gameSessionRepo) Create(dbc dbctx.Context, row *types.GameSession) error {
	if row == nil || row.SessionID == "" || row.UserID == "" || row.ActivityID == "" {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *gameSessionRepo) ExistsBySessionID(dbc dbctx.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	var count int64
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.GameSession{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gameSessionRepo) ListRecent(dbc dbctx.Context, userID, activityID string, limit int) ([]*types.GameSession, error) {
	out := []*types.GameSession{}
	if userID == "" || activityID == "" {
		return out, nil
	}
	if limit <= 0 {
		limit = 5
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND activity_id = ?", userID, activityID).
		Order("session_end DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gameSessionRepo) ListRecentByUser(dbc dbctx.Context, userID, activityID string, limit int) ([]*types.GameSession, error) {
	out := []*types.GameSession{}
	if userID == "" {
		return out, nil
	}
	if limit <= 0 {
		limit = 10
	}
	q := r.dbx(dbc).WithContext(dbc.Ctx).Where("user_id = ?", userID)
	if activityID != "" {
		q = q.Where("activity_id = ?", activityID)
	}
	if err := q.
		Order("session_end DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
