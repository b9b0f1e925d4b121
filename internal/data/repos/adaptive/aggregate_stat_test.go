package adaptive_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	adaptiverepo "github.com/playfinity/adaptive-backend/internal/data/repos/adaptive"
	"github.com/playfinity/adaptive-backend/internal/data/repos/testutil"
	types "github.com/playfinity/adaptive-backend/internal/domain"
	"github.com/playfinity/adaptive-backend/internal/pkg/dbctx"
)

func TestAggregateStatSaveAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := adaptiverepo.NewAggregateStatRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	userID := "user-" + uuid.NewString()
	row := &types.AggregateStat{
		UserID:          userID,
		ActivityID:      "balloon_math",
		TotalSessions:   1,
		TotalQuestions:  5,
		TotalCorrect:    4,
		AverageAccuracy: 0.8,
		LastPlayed:      time.Now().UTC(),
	}
	if err := repo.Save(dbc, row); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(dbc, userID, "balloon_math")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected stats row")
	}
	if got.TotalSessions != 1 || got.AverageAccuracy != 0.8 {
		t.Fatalf("row not persisted: %+v", got)
	}

	// Fold in a second session and rewrite.
	got.TotalSessions = 2
	got.TotalQuestions = 10
	got.TotalCorrect = 6
	got.AverageAccuracy = 0.6
	if err := repo.Save(dbc, got); err != nil {
		t.Fatalf("save: %v", err)
	}
	again, err := repo.Get(dbc, userID, "balloon_math")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.TotalSessions != 2 || again.AverageAccuracy != 0.6 {
		t.Fatalf("rewrite not persisted: %+v", again)
	}
}

func TestAggregateStatGetMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := adaptiverepo.NewAggregateStatRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	got, err := repo.Get(dbc, "user-"+uuid.NewString(), "spelling")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing stats, got %+v", got)
	}
}

func TestAggregateStatListByUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := adaptiverepo.NewAggregateStatRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	userID := "user-" + uuid.NewString()
	for _, activity := range []string{"spelling", "balloon_math"} {
		if err := repo.Save(dbc, &types.AggregateStat{
			UserID:        userID,
			ActivityID:    activity,
			TotalSessions: 1,
			LastPlayed:    time.Now().UTC(),
		}); err != nil {
			t.Fatalf("save %s: %v", activity, err)
		}
	}

	got, err := repo.ListByUser(dbc, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].ActivityID != "balloon_math" {
		t.Fatalf("expected activity_id ascending order, got %s first", got[0].ActivityID)
	}
}
