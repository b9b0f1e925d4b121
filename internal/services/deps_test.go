package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/playfinity/adaptive-backend/internal/data/repos"
	"github.com/playfinity/adaptive-backend/internal/data/repos/testutil"
	types "github.com/playfinity/adaptive-backend/internal/domain"
	"github.com/playfinity/adaptive-backend/internal/pkg/dbctx"
	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
)

// testDeps bundles the shared test database with the repos service tests
// need. Rows are isolated by unique user ids rather than per-test
// transactions because the services open their own.
type testDeps struct {
	db          *gorm.DB
	log         *logger.Logger
	armRepo     repos.BanditArmRepo
	sessionRepo repos.GameSessionRepo
	statRepo    repos.AggregateStatRepo
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &testDeps{
		db:          db,
		log:         log,
		armRepo:     repos.NewBanditArmRepo(db, log),
		sessionRepo: repos.NewGameSessionRepo(db, log),
		statRepo:    repos.NewAggregateStatRepo(db, log),
	}
}

var errArmStore = errors.New("arm store unavailable")

// failingArmRepo simulates an arm store outage: every operation errors.
type failingArmRepo struct{}

func (failingArmRepo) Get(dbctx.Context, string, string) (*types.BanditArm, error) {
	return nil, errArmStore
}

func (failingArmRepo) GetForUpdate(dbctx.Context, string, string) (*types.BanditArm, error) {
	return nil, errArmStore
}

func (failingArmRepo) CreateIfAbsent(dbctx.Context, *types.BanditArm) error {
	return errArmStore
}

func (failingArmRepo) Save(dbctx.Context, *types.BanditArm) error {
	return errArmStore
}

func (failingArmRepo) ListByUser(dbctx.Context, string) ([]*types.BanditArm, error) {
	return nil, errArmStore
}
