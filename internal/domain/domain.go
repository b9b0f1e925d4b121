package domain

import (
	"github.com/playfinity/adaptive-backend/internal/domain/adaptive"
)

type BanditArm = adaptive.BanditArm
type GameSession = adaptive.GameSession
type AggregateStat = adaptive.AggregateStat
type SequenceEntry = adaptive.SequenceEntry
type RealtimeAdjustment = adaptive.RealtimeAdjustment
type Difficulty = adaptive.Difficulty

const (
	DifficultyEasy   = adaptive.DifficultyEasy
	DifficultyMedium = adaptive.DifficultyMedium
	DifficultyHard   = adaptive.DifficultyHard

	AdjustmentIncrease = adaptive.AdjustmentIncrease
	AdjustmentDecrease = adaptive.AdjustmentDecrease
	AdjustmentMaintain = adaptive.AdjustmentMaintain

	AppliedSessionsCap = adaptive.AppliedSessionsCap
)
