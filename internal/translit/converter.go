// Package translit converts answer text between English and Romanized
// Hindi/Hinglish using ordered substitution tables. Conversion is lossy by
// design: untranslatable tokens pass through unchanged.
package translit

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ccraze049/ai/internal/language"
)

// Options controls conversion behavior.
type Options struct {
	// PreserveTechnicalTerms keeps loanwords ("computer", "api") in English.
	PreserveTechnicalTerms bool
}

// hinglishKeys is the subset of word entries applied in Hinglish mode.
// Hinglish swaps function words and keeps content words English.
var hinglishKeys = map[string]bool{
	"what": true, "how": true, "why": true, "when": true, "where": true,
	"who": true, "yes": true, "no": true, "not": true, "and": true,
	"but": true, "you": true, "my": true, "your": true, "is": true,
	"very": true, "good": true, "bad": true, "please": true, "thanks": true,
	"friend": true, "help": true, "know": true, "understand": true,
	"question": true, "answer": true, "correct": true, "wrong": true,
}

type rule struct {
	re   *regexp.Regexp
	from string
	to   string
}

var (
	enToHiAll      []rule
	enToHiHinglish []rule
	hiToEn         []rule
)

func init() {
	enToHiAll = buildRules(allPairs(), false)
	enToHiHinglish = buildRules(hinglishPairs(), false)
	hiToEn = buildRules(allPairs(), true)
}

func allPairs() []pair {
	out := make([]pair, 0, len(phrases)+len(words))
	out = append(out, phrases...)
	out = append(out, words...)
	return out
}

func hinglishPairs() []pair {
	out := make([]pair, 0, len(phrases)+len(hinglishKeys))
	out = append(out, phrases...)
	for _, w := range words {
		if hinglishKeys[w.En] {
			out = append(out, w)
		}
	}
	return out
}

// buildRules compiles whole-word case-insensitive matchers ordered by
// decreasing key length so longer keys always win over shorter overlaps.
// With reverse set the Hindi side is the key; duplicate keys keep their
// first (preferred) English rendering.
func buildRules(pairs []pair, reverse bool) []rule {
	seen := make(map[string]bool, len(pairs))
	rules := make([]rule, 0, len(pairs))
	for _, p := range pairs {
		from, to := p.En, p.Hi
		if reverse {
			from, to = p.Hi, p.En
		}
		if seen[from] {
			continue
		}
		seen[from] = true
		rules = append(rules, rule{
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(from) + `\b`),
			from: from,
			to:   to,
		})
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].from) > len(rules[j].from)
	})
	return rules
}

// apply runs one substitution pass over text. Matches are located against
// the original text only, so a produced token is never re-translated by a
// later rule; overlapping matches go to the longer (earlier) rule.
func apply(text string, rules []rule, preserve bool) string {
	type span struct {
		start, end int
		repl       string
	}
	claimed := make([]bool, len(text))
	var spans []span
	for _, r := range rules {
		for _, loc := range r.re.FindAllStringIndex(text, -1) {
			if taken(claimed, loc[0], loc[1]) {
				continue
			}
			if preserve && technicalTerms[strings.ToLower(text[loc[0]:loc[1]])] {
				continue
			}
			for i := loc[0]; i < loc[1]; i++ {
				claimed[i] = true
			}
			spans = append(spans, span{loc[0], loc[1], r.to})
		}
	}
	if len(spans) == 0 {
		return text
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(text[prev:s.start])
		b.WriteString(s.repl)
		prev = s.end
	}
	b.WriteString(text[prev:])
	return b.String()
}

func taken(claimed []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

// ToHinglish converts common function words and phrases to Romanized Hindi
// while leaving content words in English. Technical terms are preserved.
func ToHinglish(text string) string {
	return toHinglish(text, Options{PreserveTechnicalTerms: true})
}

func toHinglish(text string, opts Options) string {
	return apply(text, enToHiHinglish, opts.PreserveTechnicalTerms)
}

// ToRomanizedHindi converts every dictionary entry, producing the fullest
// Romanized-Hindi rendering the tables allow.
func ToRomanizedHindi(text string) string {
	return toRomanizedHindi(text, Options{PreserveTechnicalTerms: true})
}

func toRomanizedHindi(text string, opts Options) string {
	return apply(text, enToHiAll, opts.PreserveTechnicalTerms)
}

// ToEnglish runs the Hindi-to-English tables with the same
// longest-match-first discipline.
func ToEnglish(text string) string {
	return apply(text, hiToEn, false)
}

// NormalizeToEnglish is applied before storage and search. English input
// passes through untouched.
func NormalizeToEnglish(text string) string {
	res := language.Detect(text)
	if res.Language == language.English {
		return text
	}
	return ToEnglish(text)
}

// AutoConvert picks the output style from the user's query, never from the
// answer. Native-script queries get Romanized-Hindi output since the
// dictionary does not produce Devanagari.
func AutoConvert(englishAnswer, userQuery string, opts Options) string {
	res := language.Detect(userQuery)
	switch {
	case res.Language == language.English:
		return englishAnswer
	case res.IsNativeScript:
		return toRomanizedHindi(englishAnswer, opts)
	default:
		return toHinglish(englishAnswer, opts)
	}
}
