package services

import (
	"errors"
	"testing"
	"time"

	types "github.com/playfinity/adaptive-backend/internal/domain"
	pkgerrors "github.com/playfinity/adaptive-backend/internal/pkg/errors"
)

func TestPerformanceScore(t *testing.T) {
	cases := []struct {
		name        string
		correct     int
		total       int
		completed   bool
		rageQuit    bool
		wantScore   float64
		wantSuccess bool
	}{
		{"high accuracy completed", 9, 10, true, false, 0.95, true},
		{"low accuracy rage quit", 1, 10, false, true, 0.05, false},
		{"perfect", 10, 10, true, false, 1.0, true},
		{"zero questions abandoned", 0, 0, false, true, 0.0, false},
		{"zero questions completed", 0, 0, true, false, 0.5, false},
		{"threshold boundary", 4, 10, true, false, 0.7, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &types.GameSession{
				CorrectAnswers: tc.correct,
				TotalQuestions: tc.total,
				Completed:      tc.completed,
				RageQuit:       tc.rageQuit,
			}
			score, success := ScoreSession(s)
			if diff := score - tc.wantScore; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("score = %v, want %v", score, tc.wantScore)
			}
			if success != tc.wantSuccess {
				t.Fatalf("success = %v, want %v", success, tc.wantSuccess)
			}
		})
	}
}

func TestPerformanceScoreBounds(t *testing.T) {
	for correct := 0; correct <= 10; correct++ {
		for _, completed := range []bool{true, false} {
			for _, rageQuit := range []bool{true, false} {
				s := &types.GameSession{CorrectAnswers: correct, TotalQuestions: 10, Completed: completed, RageQuit: rageQuit}
				if score := PerformanceScore(s); score < 0 || score > 1 {
					t.Fatalf("score %v out of [0,1] for correct=%d completed=%v rageQuit=%v", score, correct, completed, rageQuit)
				}
			}
		}
	}
}

func TestValidateSession(t *testing.T) {
	now := time.Now().UTC()
	valid := func() *types.GameSession {
		return &types.GameSession{
			SessionID:      "s1",
			UserID:         "kid@example.com",
			ActivityID:     "balloon_math",
			CorrectAnswers: 3,
			TotalQuestions: 5,
			SessionStart:   now.Add(-time.Minute),
			SessionEnd:     now,
		}
	}

	if err := ValidateSession(valid()); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}

	s := valid()
	if err := ValidateSession(s); err != nil {
		t.Fatalf("ValidateSession: %v", err)
	}
	if s.AccuracyRate != 0.6 {
		t.Fatalf("accuracy not recomputed, got %v", s.AccuracyRate)
	}

	bad := []*types.GameSession{
		nil,
		func() *types.GameSession { s := valid(); s.SessionID = ""; return s }(),
		func() *types.GameSession { s := valid(); s.CorrectAnswers = -1; return s }(),
		func() *types.GameSession { s := valid(); s.CorrectAnswers = 6; return s }(),
		func() *types.GameSession { s := valid(); s.TimeSpentSeconds = -1; return s }(),
		func() *types.GameSession { s := valid(); s.HelpHintCount = -2; return s }(),
		func() *types.GameSession { s := valid(); s.SessionEnd = s.SessionStart.Add(-time.Hour); return s }(),
	}
	for i, s := range bad {
		if err := ValidateSession(s); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
			t.Fatalf("case %d: want ErrInvalidArgument, got %v", i, err)
		}
	}

	zero := valid()
	zero.CorrectAnswers = 0
	zero.TotalQuestions = 0
	if err := ValidateSession(zero); err != nil {
		t.Fatalf("zero-question session must score, got %v", err)
	}
	if zero.AccuracyRate != 0 {
		t.Fatalf("zero-question accuracy = %v, want 0", zero.AccuracyRate)
	}
}
