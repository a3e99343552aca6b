package analytics

import "time"

type EventType string

const (
	EventSearch     EventType = "search"
	EventQuizAnswer EventType = "quiz_answer"
)

// SearchEvent describes one executed search.
type SearchEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	Status    string    `json:"status"`
	Strategy  string    `json:"strategy"`
	TotalHits int       `json:"total_hits"`
	LatencyUs int64     `json:"latency_us"`
	Timestamp time.Time `json:"timestamp"`
}

// QuizEvent describes one answered quiz question.
type QuizEvent struct {
	Type      EventType `json:"type"`
	Key       string    `json:"key"`
	Correct   bool      `json:"correct"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}
