package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/playfinity/adaptive-backend/internal/data/repos/testutil"
	types "github.com/playfinity/adaptive-backend/internal/domain"
)

func newDifficultyService(t *testing.T) (DifficultyService, *testDeps) {
	t.Helper()
	deps := newTestDeps(t)
	return NewDifficultyService(deps.db, deps.log, deps.sessionRepo), deps
}

func TestBaselineNoHistory(t *testing.T) {
	svc, _ := newDifficultyService(t)

	got, err := svc.Baseline(context.Background(), "fresh-"+uuid.NewString(), "balloon_math")
	if err != nil {
		t.Fatalf("Baseline: %v", err)
	}
	if got != types.DifficultyMedium {
		t.Fatalf("Baseline with no history = %v, want medium", got)
	}
}

func TestBaselineBuckets(t *testing.T) {
	svc, deps := newDifficultyService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		// correct counts out of 10 per session
		corrects  []int
		completed bool
		rageQuit  bool
		want      types.Difficulty
	}{
		// completed calm sessions score 0.5*acc+0.5
		{"strong history", []int{10, 10, 9, 10, 9}, true, false, types.DifficultyHard},
		{"middling history", []int{5, 4, 5, 6, 5}, true, false, types.DifficultyMedium},
		// abandoned rage quits score 0.5*acc
		{"weak history", []int{0, 1, 0, 0, 1}, false, true, types.DifficultyEasy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			userID := "user-" + uuid.NewString()
			end := time.Now().UTC()
			for i, correct := range tc.corrects {
				testutil.SeedSession(t, ctx, deps.db, userID, "spelling", correct, 10, tc.completed, tc.rageQuit, end.Add(-time.Duration(i)*time.Hour))
			}
			got, err := svc.Baseline(ctx, userID, "spelling")
			if err != nil {
				t.Fatalf("Baseline: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Baseline = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBaselineUsesOnlyRecentWindow(t *testing.T) {
	svc, deps := newDifficultyService(t)
	ctx := context.Background()
	userID := "user-" + uuid.NewString()
	end := time.Now().UTC()

	// Five strong recent sessions, then a long tail of disasters that must
	// not count.
	for i := 0; i < 5; i++ {
		testutil.SeedSession(t, ctx, deps.db, userID, "balloon_math", 10, 10, true, false, end.Add(-time.Duration(i)*time.Hour))
	}
	for i := 5; i < 12; i++ {
		testutil.SeedSession(t, ctx, deps.db, userID, "balloon_math", 0, 10, false, true, end.Add(-time.Duration(i)*time.Hour))
	}

	got, err := svc.Baseline(ctx, userID, "balloon_math")
	if err != nil {
		t.Fatalf("Baseline: %v", err)
	}
	if got != types.DifficultyHard {
		t.Fatalf("Baseline = %v, want hard from recent window", got)
	}
}

func TestRealtimeAdjustment(t *testing.T) {
	svc, deps := newDifficultyService(t)
	ctx := context.Background()
	userID := "user-" + uuid.NewString()
	end := time.Now().UTC()

	// History averaging ~0.91 -> baseline hard.
	for i := 0; i < 5; i++ {
		testutil.SeedSession(t, ctx, deps.db, userID, "general_knowledge", 8, 10, true, false, end.Add(-time.Duration(i)*time.Hour))
	}

	adj, err := svc.Realtime(ctx, userID, "general_knowledge", 0.2)
	if err != nil {
		t.Fatalf("Realtime: %v", err)
	}
	if adj.BaselineDifficulty != types.DifficultyHard {
		t.Fatalf("baseline = %v, want hard", adj.BaselineDifficulty)
	}
	if adj.NewDifficulty != types.DifficultyMedium || adj.Adjustment != types.AdjustmentDecrease {
		t.Fatalf("adjustment = %v/%v, want medium/decrease", adj.NewDifficulty, adj.Adjustment)
	}

	adj, err = svc.Realtime(ctx, userID, "general_knowledge", 0.95)
	if err != nil {
		t.Fatalf("Realtime: %v", err)
	}
	if adj.NewDifficulty != types.DifficultyHard || adj.Adjustment != types.AdjustmentIncrease {
		t.Fatalf("high performance must clamp at hard, got %v/%v", adj.NewDifficulty, adj.Adjustment)
	}

	adj, err = svc.Realtime(ctx, userID, "general_knowledge", 0.5)
	if err != nil {
		t.Fatalf("Realtime: %v", err)
	}
	if adj.NewDifficulty != types.DifficultyHard || adj.Adjustment != types.AdjustmentMaintain {
		t.Fatalf("mid performance must maintain, got %v/%v", adj.NewDifficulty, adj.Adjustment)
	}
}

func TestRealtimeHighPerformanceNeverBelowBaseline(t *testing.T) {
	svc, deps := newDifficultyService(t)
	ctx := context.Background()
	end := time.Now().UTC()

	histories := map[string]struct {
		corrects  []int
		completed bool
		rageQuit  bool
	}{
		"easy-history":   {[]int{0, 1, 0, 0, 1}, false, true},
		"medium-history": {[]int{5, 5, 6, 5, 4}, true, false},
		"hard-history":   {[]int{10, 10, 9, 10, 9}, true, false},
	}
	for name, h := range histories {
		userID := name + "-" + uuid.NewString()
		for i, c := range h.corrects {
			testutil.SeedSession(t, ctx, deps.db, userID, "spelling", c, 10, h.completed, h.rageQuit, end.Add(-time.Duration(i)*time.Hour))
		}
		base, err := svc.Baseline(ctx, userID, "spelling")
		if err != nil {
			t.Fatalf("Baseline: %v", err)
		}
		adj, err := svc.Realtime(ctx, userID, "spelling", 0.95)
		if err != nil {
			t.Fatalf("Realtime: %v", err)
		}
		if !adj.NewDifficulty.AtLeast(base) {
			t.Fatalf("%s: realtime %v below baseline %v", name, adj.NewDifficulty, base)
		}
	}
}

func TestQuestionCounts(t *testing.T) {
	svc, _ := newDifficultyService(t)

	if n := svc.QuestionCount("balloon_math", types.DifficultyEasy); n != 3 {
		t.Fatalf("easy balloon_math = %d, want 3", n)
	}
	if n := svc.QuestionCount("spelling", types.DifficultyMedium); n != 6 {
		t.Fatalf("medium spelling = %d, want 6", n)
	}
	if n := svc.QuestionCount("general_knowledge", types.DifficultyHard); n != 8 {
		t.Fatalf("hard general_knowledge = %d, want 8", n)
	}
	if n := svc.QuestionCount("unknown_game", types.DifficultyMedium); n != defaultQuestionCount {
		t.Fatalf("unknown activity = %d, want default %d", n, defaultQuestionCount)
	}
}
