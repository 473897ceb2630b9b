package models

// UsageStats reports an anonymous principal's trial consumption. It is
// surfaced verbatim in the chat response for anonymous sessions.
type UsageStats struct {
	TotalInteractions int `json:"total_interactions"`
	TrialLimit        int `json:"trial_limit"`
}

// Exceeded reports whether the trial quota has been used up.
func (u UsageStats) Exceeded() bool {
	return u.TotalInteractions >= u.TrialLimit
}
