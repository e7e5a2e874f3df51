// Package analytics aggregates interaction logs into daily usage stats.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/ccraze049/ai/internal/storage"
)

type DailyStats struct {
	Date           string                  `json:"date"`
	TotalMessages  int                     `json:"total_messages"`
	UniqueSessions int                     `json:"unique_sessions"`
	ByLanguage     map[string]int          `json:"by_language"`
	ByConfidence   map[string]int          `json:"by_confidence"`
	SessionStats   map[string]SessionStats `json:"session_stats"`
}

type SessionStats struct {
	SessionID string         `json:"session_id"`
	Messages  int            `json:"messages"`
	Languages map[string]int `json:"languages"`
}

// AnalyzeDailyLogs buckets events into the calendar day of targetDate,
// in targetDate's location. Events without a UserMessage are skipped.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:         startOfDay.Format("2006-01-02"),
		ByLanguage:   make(map[string]int),
		ByConfidence: make(map[string]int),
		SessionStats: make(map[string]SessionStats),
	}

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		if event.UserMessage == "" {
			continue
		}

		stats.TotalMessages++
		if event.Language != "" {
			stats.ByLanguage[event.Language]++
		}
		if event.Confidence != "" {
			stats.ByConfidence[event.Confidence]++
		}

		ss, ok := stats.SessionStats[event.SessionID]
		if !ok {
			ss = SessionStats{SessionID: event.SessionID, Languages: make(map[string]int)}
		}
		ss.Messages++
		if event.Language != "" {
			ss.Languages[event.Language]++
		}
		stats.SessionStats[event.SessionID] = ss
	}

	stats.UniqueSessions = len(stats.SessionStats)
	return stats
}

// Summary renders a short human-readable report.
func (ds *DailyStats) Summary() string {
	out := fmt.Sprintf("Usage for %s:\n- Messages: %d\n- Unique sessions: %d\n",
		ds.Date, ds.TotalMessages, ds.UniqueSessions)
	if len(ds.ByLanguage) > 0 {
		out += "- Languages:\n"
		for _, lang := range sortedKeys(ds.ByLanguage) {
			out += fmt.Sprintf("  - %s: %d\n", lang, ds.ByLanguage[lang])
		}
	}
	if len(ds.ByConfidence) > 0 {
		out += "- Confidence:\n"
		for _, c := range sortedKeys(ds.ByConfidence) {
			out += fmt.Sprintf("  - %s: %d\n", c, ds.ByConfidence[c])
		}
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
