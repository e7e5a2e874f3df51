package knowledge

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Field weights: a query token found in a question counts three times as
// much as one found in an answer. Scores are normalized by query length so
// an exact question match lands at 1.0.
const (
	questionWeight = 3.0
	answerWeight   = 1.0
)

var indexTokenRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

func indexTokens(text string) []string {
	return indexTokenRe.FindAllString(strings.ToLower(text), -1)
}

type postings struct {
	question map[string][]string // token -> entry ids
	answer   map[string][]string
	entries  map[string]Entry
	order    []string // insertion order, for stable results
}

// Index is a rebuilt-from-scratch inverted index over all entries. It is
// never updated incrementally: mutations force a rebuild, reads rebuild
// lazily once the freshness window has passed. Concurrent rebuilds collapse
// into one via singleflight.
type Index struct {
	store     Store
	freshness time.Duration
	now       func() time.Time

	mu    sync.RWMutex
	data  *postings
	built time.Time

	group singleflight.Group
}

func NewIndex(store Store, freshness time.Duration, clock func() time.Time) *Index {
	if clock == nil {
		clock = time.Now
	}
	if freshness <= 0 {
		freshness = 5 * time.Second
	}
	return &Index{store: store, freshness: freshness, now: clock}
}

// LastBuilt returns the zero time before the first build.
func (ix *Index) LastBuilt() time.Time {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.built
}

// Rebuild loads every entry and replaces the whole index.
func (ix *Index) Rebuild() error {
	_, err, _ := ix.group.Do("rebuild", func() (interface{}, error) {
		entries, err := ix.store.All()
		if err != nil {
			return nil, err
		}
		data := &postings{
			question: make(map[string][]string),
			answer:   make(map[string][]string),
			entries:  make(map[string]Entry, len(entries)),
		}
		for _, e := range entries {
			data.entries[e.ID] = e
			data.order = append(data.order, e.ID)
			for _, tok := range dedupe(indexTokens(e.Question)) {
				data.question[tok] = append(data.question[tok], e.ID)
			}
			for _, tok := range dedupe(indexTokens(e.Answer)) {
				data.answer[tok] = append(data.answer[tok], e.ID)
			}
		}
		ix.mu.Lock()
		ix.data = data
		ix.built = ix.now()
		ix.mu.Unlock()
		return nil, nil
	})
	return err
}

func (ix *Index) ensureFresh() error {
	ix.mu.RLock()
	stale := ix.data == nil || ix.now().Sub(ix.built) > ix.freshness
	ix.mu.RUnlock()
	if !stale {
		return nil
	}
	return ix.Rebuild()
}

// Search scores entries against the already-normalized English query and
// returns hits sorted by score, classified by the shared breakpoints.
func (ix *Index) Search(query string, limit int, minScore float64) ([]SearchResult, error) {
	if err := ix.ensureFresh(); err != nil {
		return nil, err
	}
	tokens := dedupe(indexTokens(query))
	if len(tokens) == 0 {
		return nil, nil
	}

	ix.mu.RLock()
	data := ix.data
	ix.mu.RUnlock()

	raw := make(map[string]float64)
	for _, tok := range tokens {
		for _, id := range data.question[tok] {
			raw[id] += questionWeight
		}
		for _, id := range data.answer[tok] {
			// An answer hit never outranks a question hit for the
			// same token.
			if !contains(data.question[tok], id) {
				raw[id] += answerWeight
			}
		}
	}

	norm := questionWeight * float64(len(tokens))
	var results []SearchResult
	for _, id := range data.order {
		score, hit := raw[id]
		if !hit {
			continue
		}
		score /= norm
		if score < minScore {
			continue
		}
		results = append(results, SearchResult{
			Entry:     data.entries[id],
			Score:     score,
			Relevance: classify(score),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func dedupe(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var out []string
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
