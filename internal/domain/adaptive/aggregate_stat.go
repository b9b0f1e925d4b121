package adaptive

import "time"

// AggregateStat accumulates per-(user, activity) telemetry totals. Updated
// in the same transaction as the bandit arm so the two views never drift.
type AggregateStat struct {
	UserID     string `gorm:"column:user_id;primaryKey" json:"user_id"`
	ActivityID string `gorm:"column:activity_id;primaryKey" json:"activity_id"`

	TotalSessions    int     `gorm:"column:total_sessions;not null;default:0" json:"total_sessions"`
	TotalQuestions   int     `gorm:"column:total_questions;not null;default:0" json:"total_questions"`
	TotalCorrect     int     `gorm:"column:total_correct;not null;default:0" json:"total_correct"`
	TotalTimeSeconds float64 `gorm:"column:total_time_seconds;not null;default:0" json:"total_time_seconds"`
	TotalCompletions int     `gorm:"column:total_completions;not null;default:0" json:"total_completions"`
	TotalRageQuits   int     `gorm:"column:total_rage_quits;not null;default:0" json:"total_rage_quits"`
	TotalHelpUsage   int     `gorm:"column:total_help_usage;not null;default:0" json:"total_help_usage"`

	AverageAccuracy       float64 `gorm:"column:average_accuracy;not null;default:0" json:"average_accuracy"`
	AverageTimePerSession float64 `gorm:"column:average_time_per_session;not null;default:0" json:"average_time_per_session"`

	LastPlayed time.Time `gorm:"column:last_played;not null" json:"last_played"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (AggregateStat) TableName() string { return "aggregate_stat" }
