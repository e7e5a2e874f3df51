package storage

import "time"

// Event is one question/answer exchange. Events are appended in
// chronological order; Language and Confidence come straight from the
// chat engine's response.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	SessionID         string    `json:"session_id"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
	Language          string    `json:"language"`
	Confidence        string    `json:"confidence"`
}

// Recorder abstracts persistence of interaction events.
// LoadInteractions returns events in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
