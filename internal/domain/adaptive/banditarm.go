package adaptive

import (
	"time"

	"gorm.io/datatypes"
)

// BanditArm is the Beta-Bernoulli posterior for one (user, activity) pair.
// Alpha and Beta only ever gain mass; the play counters are informational
// and never feed sampling.
type BanditArm struct {
	UserID     string  `gorm:"column:user_id;primaryKey" json:"user_id"`
	ActivityID string  `gorm:"column:activity_id;primaryKey" json:"activity_id"`
	Alpha      float64 `gorm:"column:alpha;not null" json:"alpha"`
	Beta       float64 `gorm:"column:beta;not null" json:"beta"`

	TotalPlays     int `gorm:"column:total_plays;not null;default:0" json:"total_plays"`
	TotalSuccesses int `gorm:"column:total_successes;not null;default:0" json:"total_successes"`
	TotalFailures  int `gorm:"column:total_failures;not null;default:0" json:"total_failures"`

	// AppliedSessions holds the most recently applied session ids, newest
	// last, capped at AppliedSessionsCap. Backed by the unique index on
	// game_session.session_id for sessions that have aged out.
	AppliedSessions datatypes.JSON `gorm:"type:jsonb;column:applied_sessions" json:"applied_sessions"`

	LastUpdated time.Time `gorm:"column:last_updated;not null" json:"last_updated"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (BanditArm) TableName() string { return "bandit_arm" }

// AppliedSessionsCap bounds the per-arm dedup ring.
const AppliedSessionsCap = 50

// Mean returns the posterior mean alpha/(alpha+beta).
func (a *BanditArm) Mean() float64 {
	total := a.Alpha + a.Beta
	if total <= 0 {
		return 0.5
	}
	return a.Alpha / total
}
