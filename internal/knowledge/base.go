package knowledge

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ccraze049/ai/internal/translit"
)

// DefaultMinScore is the floor below which BestMatch reports no result.
const DefaultMinScore = 0.3

// Base ties the store and the index together. All mutations go through its
// lock, which also makes the similar-check-then-insert path atomic.
type Base struct {
	store Store
	index *Index
	log   *zap.Logger

	mu sync.Mutex // serializes mutations
}

func NewBase(store Store, index *Index, logger *zap.Logger) *Base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Base{store: store, index: index, log: logger}
}

// Search normalizes the query to English, asks the index, and falls back
// to keyword overlap when the index finds nothing.
func (b *Base) Search(query string, limit int, minScore float64) ([]SearchResult, error) {
	normalized := translit.NormalizeToEnglish(query)
	results, err := b.index.Search(normalized, limit, minScore)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}
	if len(results) > 0 {
		return results, nil
	}
	return b.keywordFallback(normalized, limit, minScore)
}

// BestMatch returns the top hit at or above DefaultMinScore, or nil.
func (b *Base) BestMatch(query string) (*SearchResult, error) {
	results, err := b.Search(query, 1, DefaultMinScore)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// FindSimilar reuses search with the high-relevance floor; it backs the
// duplicate guard before teaching.
func (b *Base) FindSimilar(question string) ([]SearchResult, error) {
	return b.Search(question, 5, HighThreshold)
}

// Add inserts a new entry, normalized to English, and rebuilds the index
// before returning so a following read always sees the mutation.
func (b *Base) Add(question, answer string) (Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addLocked(question, answer)
}

// AddIfNotSimilar runs the duplicate check and the insert under one lock.
// When a high-relevance near-duplicate exists the insert is refused and
// the duplicates are returned instead.
func (b *Base) AddIfNotSimilar(question, answer string) (Entry, []SearchResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	similar, err := b.FindSimilar(question)
	if err != nil {
		return Entry{}, nil, err
	}
	if len(similar) > 0 {
		b.log.Debug("refusing near-duplicate teach",
			zap.String("question", question),
			zap.Int("similar", len(similar)))
		return Entry{}, similar, nil
	}
	e, err := b.addLocked(question, answer)
	return e, nil, err
}

func (b *Base) addLocked(question, answer string) (Entry, error) {
	now := time.Now().UTC()
	e := Entry{
		ID:        uuid.NewString(),
		Question:  strings.TrimSpace(translit.NormalizeToEnglish(question)),
		Answer:    strings.TrimSpace(translit.NormalizeToEnglish(answer)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := b.store.Append(e); err != nil {
		return Entry{}, fmt.Errorf("append entry: %w", err)
	}
	if err := b.index.Rebuild(); err != nil {
		return Entry{}, fmt.Errorf("rebuild after add: %w", err)
	}
	b.log.Info("knowledge entry added", zap.String("id", e.ID))
	return e, nil
}

// Update replaces an entry's answer. Unknown ids surface ErrNotFound.
func (b *Base) Update(id, answer string) (Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, err := b.store.Update(id, strings.TrimSpace(translit.NormalizeToEnglish(answer)))
	if err != nil {
		return Entry{}, err
	}
	if err := b.index.Rebuild(); err != nil {
		return Entry{}, fmt.Errorf("rebuild after update: %w", err)
	}
	b.log.Info("knowledge entry updated", zap.String("id", e.ID))
	return e, nil
}

func (b *Base) Count() (int, error) {
	return b.store.Count()
}

// keywordFallback scores every entry by token overlap: exact question
// matches weigh 2, partial question matches 1, exact answer matches 0.5.
// It guarantees attempted retrieval when the index tokenizer comes up
// empty, e.g. for very short queries. Relevance uses the same breakpoints
// as the index path.
func (b *Base) keywordFallback(query string, limit int, minScore float64) ([]SearchResult, error) {
	tokens := dedupe(indexTokens(query))
	if len(tokens) == 0 {
		return nil, nil
	}
	entries, err := b.store.All()
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	type scored struct {
		result SearchResult
		exact  int
	}
	var hits []scored
	for _, e := range entries {
		qTokens := indexTokens(e.Question)
		aTokens := indexTokens(e.Answer)
		var raw float64
		exact := 0
		for _, tok := range tokens {
			switch {
			case contains(qTokens, tok):
				raw += 2
				exact++
			case partialMatch(qTokens, tok):
				raw += 1
			case contains(aTokens, tok):
				raw += 0.5
			}
		}
		if raw <= 0 {
			continue
		}
		score := raw / (2 * float64(len(tokens)))
		if score < minScore {
			continue
		}
		hits = append(hits, scored{
			result: SearchResult{Entry: e, Score: score, Relevance: classify(score)},
			exact:  exact,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].exact != hits[j].exact {
			return hits[i].exact > hits[j].exact
		}
		return hits[i].result.Score > hits[j].result.Score
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]SearchResult, len(hits))
	for i, h := range hits {
		out[i] = h.result
	}
	return out, nil
}

// partialMatch reports a substring overlap in either direction for tokens
// of useful length.
func partialMatch(tokens []string, tok string) bool {
	if len(tok) < 3 {
		return false
	}
	for _, t := range tokens {
		if len(t) < 3 {
			continue
		}
		if strings.Contains(t, tok) || strings.Contains(tok, t) {
			return true
		}
	}
	return false
}
