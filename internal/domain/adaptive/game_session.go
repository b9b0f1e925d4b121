package adaptive

import (
	"time"

	"github.com/google/uuid"
)

// GameSession is one finalized activity attempt as reported by the game
// layer. Rows are immutable once stored.
type GameSession struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID  string    `gorm:"column:session_id;uniqueIndex;not null" json:"session_id"`
	UserID     string    `gorm:"column:user_id;not null;index:idx_session_user_activity" json:"user_id"`
	ActivityID string    `gorm:"column:activity_id;not null;index:idx_session_user_activity" json:"activity_id"`
	Topic      string    `gorm:"column:topic" json:"topic"`

	CorrectAnswers         int     `gorm:"column:correct_answers;not null" json:"correct_answers"`
	TotalQuestions         int     `gorm:"column:total_questions;not null" json:"total_questions"`
	AccuracyRate           float64 `gorm:"column:accuracy_rate;not null" json:"accuracy_rate"`
	Completed              bool    `gorm:"column:completed;not null" json:"completed"`
	TimeSpentSeconds       float64 `gorm:"column:time_spent_seconds;not null" json:"time_spent_seconds"`
	AverageTimePerQuestion float64 `gorm:"column:average_time_per_question" json:"average_time_per_question"`

	ConsecutiveErrors    int     `gorm:"column:consecutive_errors" json:"consecutive_errors"`
	MaxConsecutiveErrors int     `gorm:"column:max_consecutive_errors" json:"max_consecutive_errors"`
	QuestionsSkipped     int     `gorm:"column:questions_skipped" json:"questions_skipped"`
	HelpHintCount        int     `gorm:"column:help_hint_count" json:"help_hint_count"`
	ReplayCount          int     `gorm:"column:replay_count" json:"replay_count"`
	TabSwitches          int     `gorm:"column:tab_switches" json:"tab_switches"`
	TotalIdleTimeSeconds float64 `gorm:"column:total_idle_time_seconds" json:"total_idle_time_seconds"`
	MaxIdleTimeSeconds   float64 `gorm:"column:max_idle_time_seconds" json:"max_idle_time_seconds"`
	RageQuit             bool    `gorm:"column:rage_quit;not null" json:"rage_quit"`

	UserTrait    string    `gorm:"column:user_trait" json:"user_trait"`
	SessionStart time.Time `gorm:"column:session_start;not null" json:"session_start"`
	SessionEnd   time.Time `gorm:"column:session_end;not null" json:"session_end"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (GameSession) TableName() string { return "game_session" }
