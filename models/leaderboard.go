package models

// LeaderboardRow is one ranked line of an event leaderboard. It is derived on
// every request, never persisted. AveragePace is minutes per kilometer and is
// omitted entirely when the user has no distance logged.
type LeaderboardRow struct {
	Rank          int      `json:"rank"`
	UserID        string   `json:"user_id"`
	DisplayName   string   `json:"display_name"`
	TotalDistance float64  `json:"total_distance"`
	TotalTime     float64  `json:"total_time"`
	Entries       int      `json:"entries"`
	AveragePace   *float64 `json:"average_pace,omitempty"`
}

// ProgressSummary is one user's totals against an event, with the
// target-completion percentage.
type ProgressSummary struct {
	EventID       string  `json:"event_id"`
	UserID        string  `json:"user_id"`
	TotalDistance float64 `json:"total_distance"`
	TotalTime     float64 `json:"total_time"`
	Entries       int     `json:"entries"`
	Percentage    int     `json:"percentage"`
}
