// Package learning detects teach/improve intent, parses teaching input,
// and executes learn/improve operations with a duplicate guard.
package learning

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ccraze049/ai/internal/knowledge"
)

type Intent string

const (
	IntentTeachNew        Intent = "teach_new"
	IntentImproveExisting Intent = "improve_existing"
	IntentConfirm         Intent = "confirm_learning"
	IntentNone            Intent = "none"
)

type IntentResult struct {
	Intent     Intent
	Confidence float64
}

// Keyword sets cover English, Romanized Hindi and native script. Priority
// on overlap: teach > improve > confirm.
var teachPhrases = []string{
	"teach you", "let me teach", "i want to teach", "want to teach",
	"learn this", "add knowledge", "new question", "remember that",
	"sikhao", "sikha do", "naya sawal", "yaad rakh lo",
	"सिखाओ", "नया सवाल",
}

var improvePhrases = []string{
	"improve", "update the answer", "update answer", "correct the answer",
	"change the answer", "wrong answer", "that is wrong", "that's wrong",
	"better answer", "galat jawab", "galat hai", "sudhar", "jawab badlo",
	"गलत जवाब", "सुधार",
}

var confirmWords = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "yup": true, "sure": true,
	"ok": true, "okay": true, "haan": true, "ha": true, "bilkul": true,
	"theek": true, "thik": true, "हाँ": true, "ठीक": true,
}

var denyWords = map[string]bool{
	"no": true, "nope": true, "nah": true, "cancel": true, "nahi": true,
	"nahin": true, "mat": true, "rehne": true, "नहीं": true,
}

// DetectIntent tests keyword-set membership by fixed priority.
func DetectIntent(text string) IntentResult {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return IntentResult{Intent: IntentNone}
	}
	for _, p := range teachPhrases {
		if strings.Contains(lower, p) {
			return IntentResult{Intent: IntentTeachNew, Confidence: 0.9}
		}
	}
	for _, p := range improvePhrases {
		if strings.Contains(lower, p) {
			return IntentResult{Intent: IntentImproveExisting, Confidence: 0.85}
		}
	}
	if IsConfirmation(lower) {
		return IntentResult{Intent: IntentConfirm, Confidence: 0.9}
	}
	return IntentResult{Intent: IntentNone}
}

// IsConfirmation reports a short affirmative reply ("yes", "haan",
// "theek hai"). Long sentences never count.
func IsConfirmation(text string) bool {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(strings.Trim(text, ".!?"))))
	if len(tokens) == 0 || len(tokens) > 3 {
		return false
	}
	return confirmWords[tokens[0]]
}

// IsDenial reports a short negative reply.
func IsDenial(text string) bool {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(strings.Trim(text, ".!?"))))
	if len(tokens) == 0 || len(tokens) > 3 {
		return false
	}
	return denyWords[tokens[0]]
}

// Teaching-input formats, tried in order; the first structural match wins.
var teachingFormats = []*regexp.Regexp{
	regexp.MustCompile(`(?is)question\s*[:\-]\s*(.+?)\s*[,\n]\s*answer\s*[:\-]\s*(.+)`),
	regexp.MustCompile(`(?is)question\s*[:\-]\s*(.+?)\s+answer\s*[:\-]\s*(.+)`),
	regexp.MustCompile(`(?is)\bq\s*[:\-]\s*(.+?)\s*[,\n]?\s*\ba\s*[:\-]\s*(.+)`),
	regexp.MustCompile(`(?is)sawal\s*[:\-]\s*(.+?)\s*[,\n]?\s*jawab\s*[:\-]\s*(.+)`),
	regexp.MustCompile(`(?is)सवाल\s*[:\-]\s*(.+?)\s*[,\n]?\s*जवाब\s*[:\-]\s*(.+)`),
	regexp.MustCompile(`(?is)प्रश्न\s*[:\-]\s*(.+?)\s*[,\n]?\s*उत्तर\s*[:\-]\s*(.+)`),
}

// ParseTeachingInput extracts a question/answer pair from a formatted
// message. ok=false signals the caller to prompt for the expected format.
func ParseTeachingInput(text string) (question, answer string, ok bool) {
	for _, re := range teachingFormats {
		if m := re.FindStringSubmatch(text); m != nil {
			q := strings.TrimSpace(m[1])
			a := strings.TrimSpace(m[2])
			if q != "" && a != "" {
				return q, a, true
			}
		}
	}
	return "", "", false
}

// Outcome of a learn or improve operation. Failures a user can recover
// from conversationally are reported here, not as errors.
type Outcome struct {
	Success    bool
	Entry      knowledge.Entry
	HasSimilar bool
	Similar    []knowledge.SearchResult
	NotFound   bool
}

type Manager struct {
	base *knowledge.Base
	log  *zap.Logger
}

func NewManager(base *knowledge.Base, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{base: base, log: logger}
}

// LearnNew inserts unless a high-relevance near-duplicate exists; then it
// returns the duplicates so the caller can offer the improve path instead.
func (m *Manager) LearnNew(question, answer string) (Outcome, error) {
	entry, similar, err := m.base.AddIfNotSimilar(question, answer)
	if err != nil {
		return Outcome{}, err
	}
	if len(similar) > 0 {
		return Outcome{HasSimilar: true, Similar: similar}, nil
	}
	m.log.Info("learned new entry", zap.String("id", entry.ID))
	return Outcome{Success: true, Entry: entry}, nil
}

// Improve replaces an entry's answer. An unknown id is a recoverable
// outcome, not an error.
func (m *Manager) Improve(id, answer string) (Outcome, error) {
	entry, err := m.base.Update(id, answer)
	if errors.Is(err, knowledge.ErrNotFound) {
		return Outcome{NotFound: true}, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	m.log.Info("improved entry", zap.String("id", entry.ID))
	return Outcome{Success: true, Entry: entry}, nil
}
