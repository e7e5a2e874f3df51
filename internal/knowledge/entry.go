// Package knowledge owns the Q/A store: entry types, the storage
// collaborator interface, the full-text index and its lifecycle, and the
// search façade with relevance tiers.
package knowledge

import (
	"errors"
	"time"
)

// Entry is one taught question/answer pair. Question and Answer are always
// stored normalized to English. Entries are never deleted.
type Entry struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Relevance is the coarse bucket derived from a search score.
type Relevance string

const (
	RelevanceHigh   Relevance = "high"
	RelevanceMedium Relevance = "medium"
	RelevanceLow    Relevance = "low"
)

// Score breakpoints shared by the index path and the keyword fallback, so
// both classify identically.
const (
	HighThreshold   = 0.65
	MediumThreshold = 0.35
)

func classify(score float64) Relevance {
	switch {
	case score >= HighThreshold:
		return RelevanceHigh
	case score >= MediumThreshold:
		return RelevanceMedium
	default:
		return RelevanceLow
	}
}

// SearchResult is derived, never persisted.
type SearchResult struct {
	Entry     Entry     `json:"entry"`
	Score     float64   `json:"score"`
	Relevance Relevance `json:"relevance"`
}

// ErrNotFound reports an unknown entry id on update or lookup.
var ErrNotFound = errors.New("knowledge entry not found")

// Store is the persistence collaborator. Implementations must be safe for
// concurrent use.
type Store interface {
	All() ([]Entry, error)
	Get(id string) (Entry, error)
	Append(e Entry) error
	Update(id, answer string) (Entry, error)
	Count() (int, error)
}

// BootstrapEntry seeds an empty store so a fresh install can answer at
// least one question about itself.
func BootstrapEntry() Entry {
	now := time.Now().UTC()
	return Entry{
		ID:       "bootstrap",
		Question: "What can you do?",
		Answer: "I answer questions from a knowledge base you teach me, " +
			"run text analytics commands like word counts and sums, and " +
			"reply in English, Romanized Hindi or Hinglish.",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
