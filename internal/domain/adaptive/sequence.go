package adaptive

// SequenceEntry is one ranked activity in a planned sequence. Entries are
// computed per request and never persisted.
type SequenceEntry struct {
	ActivityID    string     `json:"activity_id"`
	Priority      int        `json:"priority"`
	SampledReward float64    `json:"sampled_reward"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionCount int        `json:"question_count"`

	// Posterior summary, informational only.
	Confidence  float64 `json:"confidence"`
	SuccessRate float64 `json:"success_rate"`
	TotalPlays  int     `json:"total_plays"`
}

// RealtimeAdjustment is the outcome of a mid-session difficulty check.
type RealtimeAdjustment struct {
	BaselineDifficulty Difficulty `json:"baseline_difficulty"`
	NewDifficulty      Difficulty `json:"new_difficulty"`
	CurrentPerformance float64    `json:"current_performance"`
	Adjustment         string     `json:"adjustment"`
	QuestionCount      int        `json:"question_count"`
	Reasoning          string     `json:"reasoning"`
}

const (
	AdjustmentIncrease = "increase"
	AdjustmentDecrease = "decrease"
	AdjustmentMaintain = "maintain"
)
