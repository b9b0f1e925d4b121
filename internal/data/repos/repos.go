package repos

import (
	"gorm.io/gorm"

	"github.com/playfinity/adaptive-backend/internal/data/repos/adaptive"
	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
)

type BanditArmRepo = adaptive.BanditArmRepo
type GameSessionRepo = adaptive.GameSessionRepo
type AggregateStatRepo = adaptive.AggregateStatRepo

func NewBanditArmRepo(db *gorm.DB, baseLog *logger.Logger) BanditArmRepo {
	return adaptive.NewBanditArmRepo(db, baseLog)
}

func NewGameSessionRepo(db *gorm.DB, baseLog *logger.Logger) GameSessionRepo {
	return adaptive.NewGameSessionRepo(db, baseLog)
}

func NewAggregateStatRepo(db *gorm.DB, baseLog *logger.Logger) AggregateStatRepo {
	return adaptive.NewAggregateStatRepo(db, baseLog)
}
