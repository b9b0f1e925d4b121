package services

import (
	"testing"

	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestPriorForNeutral(t *testing.T) {
	svc, err := NewPriorService(testLogger(t))
	if err != nil {
		t.Fatalf("NewPriorService: %v", err)
	}

	for _, trait := range []string{"", "None", "none", "unknown_trait"} {
		alpha, beta := svc.PriorFor(trait, "balloon_math")
		if alpha != 1.0 || beta != 1.0 {
			t.Fatalf("trait %q: got (%v,%v), want neutral (1,1)", trait, alpha, beta)
		}
	}
}

func TestPriorForTraitOverrides(t *testing.T) {
	svc, err := NewPriorService(testLogger(t))
	if err != nil {
		t.Fatalf("NewPriorService: %v", err)
	}

	// Visual/interactive activity gets a head start for dyslexia.
	alpha, beta := svc.PriorFor("dyslexia", "balloon_math")
	if alpha != 2.0 || beta != 1.0 {
		t.Fatalf("dyslexia/balloon_math: got (%v,%v), want (2,1)", alpha, beta)
	}

	// Text heavy activity starts with extra failure mass.
	alpha, beta = svc.PriorFor("dyslexia", "spelling")
	if alpha != 1.0 || beta != 1.5 {
		t.Fatalf("dyslexia/spelling: got (%v,%v), want (1,1.5)", alpha, beta)
	}

	// No entry means no bias.
	alpha, beta = svc.PriorFor("dyslexia", "general_knowledge")
	if alpha != 1.0 || beta != 1.0 {
		t.Fatalf("dyslexia/general_knowledge: got (%v,%v), want (1,1)", alpha, beta)
	}

	// Trait matching is case insensitive.
	alpha, _ = svc.PriorFor("Dyslexia", "balloon_math")
	if alpha != 2.0 {
		t.Fatalf("case-insensitive trait lookup failed, alpha=%v", alpha)
	}

	// Priors are always positive.
	for _, trait := range []string{"dyslexia", "dyscalculia", "adhd"} {
		for _, activity := range DefaultActivitySet {
			a, b := svc.PriorFor(trait, activity)
			if a <= 0 || b <= 0 {
				t.Fatalf("%s/%s: non-positive prior (%v,%v)", trait, activity, a, b)
			}
		}
	}
}
