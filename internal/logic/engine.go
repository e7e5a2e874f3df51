// Package logic recognizes deterministic text-analytics commands inside a
// user utterance and executes them without touching the knowledge store.
// Dispatch walks a fixed, ordered rule table; the first category whose
// trigger matches wins, so the ordering is part of the contract.
package logic

import (
	"fmt"
	"regexp"
	"strings"
)

// Result of one dispatch attempt. Matched=false means no command was
// recognized and the caller should fall through to other handlers.
// OK=false with Matched=true is a guidance message, still a normal reply.
type Result struct {
	Matched  bool
	Category string
	Message  string
	OK       bool
}

// Request carries the utterance plus optional operands.
type Request struct {
	Query      string
	InlineText string
	SessionID  string
}

type match struct {
	start, end int
	groups     []string
}

type rule struct {
	category string
	triggers []*regexp.Regexp
	handle   func(e *Engine, req Request, m *match) Result
}

// Engine executes logic commands. The dataset cache is the only state it
// touches.
type Engine struct {
	datasets *DatasetCache
	rules    []rule
}

func New(datasets *DatasetCache) *Engine {
	e := &Engine{datasets: datasets}
	e.rules = buildRules()
	return e
}

// Process tries every rule in order and executes the first match.
func (e *Engine) Process(req Request) Result {
	for _, r := range e.rules {
		for _, trig := range r.triggers {
			loc := trig.FindStringSubmatchIndex(req.Query)
			if loc == nil {
				continue
			}
			m := &match{start: loc[0], end: loc[1]}
			for g := 1; g*2 < len(loc); g++ {
				if loc[g*2] >= 0 {
					m.groups = append(m.groups, req.Query[loc[g*2]:loc[g*2+1]])
				} else {
					m.groups = append(m.groups, "")
				}
			}
			return r.handle(e, req, m)
		}
	}
	return Result{Matched: false}
}

// Categories returns the dispatch order; tests pin it.
func (e *Engine) Categories() []string {
	out := make([]string, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.category
	}
	return out
}

func re(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

const wordChars = `[\p{L}\p{N}_]+`

func buildRules() []rule {
	return []rule{
		{
			category: "word_count",
			triggers: re(
				`\bhow many words\b`, `\bcount (?:the )?words\b`, `\bword count\b`,
				`\bkitne shabd\b`, `\bshabd (?:ginti|gino)\b`, `कितने शब्द`, `शब्द गिनो`,
			),
			handle: handleWordCount,
		},
		{
			category: "line_count",
			triggers: re(
				`\bhow many lines\b`, `\bcount (?:the )?lines\b`, `\bline count\b`,
				`\bkitni line\b`, `कितनी (?:पंक्ति|लाइन)`,
			),
			handle: handleLineCount,
		},
		{
			category: "char_count",
			triggers: re(
				`\bhow many characters\b`, `\bcount (?:the )?characters\b`,
				`\bcharacter count\b`, `\bkitne akshar\b`, `कितने अक्षर`,
			),
			handle: handleCharCount,
		},
		{
			category: "specific_word_count",
			triggers: re(
				`\bhow many times (?:does |is )?(?:the word )?['"]?(`+wordChars+`)['"]? (?:appear|occur|come)`,
				`\bcount (?:the )?word ['"]?(`+wordChars+`)['"]?`,
				`['"](`+wordChars+`)['"] kitni baar`,
			),
			handle: handleSpecificWord,
		},
		{
			category: "extract_numbers",
			triggers: re(
				`\bhow many numbers\b`, `\bcount (?:the )?numbers\b`,
				`\b(?:extract|find) (?:the )?numbers\b`,
				`\bkitne number\b`, `\bkitni sankhya\b`, `कितनी संख्या`,
			),
			handle: handleNumbers,
		},
		{
			category: "sum",
			triggers: re(
				`\bsum\b`, `\badd (?:up )?(?:the )?numbers\b`, `\btotal of\b`,
				`\bjod\b`, `जोड़`,
			),
			handle: handleSum,
		},
		{
			category: "max",
			triggers: re(
				`\b(?:largest|biggest|maximum|max) number\b`, `\b(?:largest|biggest|maximum)\b`,
				`\bsabse bada\b`, `सबसे बड़ा`,
			),
			handle: handleMax,
		},
		{
			category: "min",
			triggers: re(
				`\b(?:smallest|minimum|min) number\b`, `\b(?:smallest|minimum)\b`,
				`\bsabse chota\b`, `सबसे छोटा`,
			),
			handle: handleMin,
		},
		{
			category: "average",
			triggers: re(
				`\baverage\b`, `\bmean of\b`, `\bausat\b`, `औसत`,
			),
			handle: handleAverage,
		},
		{
			category: "repeated_words",
			triggers: re(
				`\brepeated words\b`, `\bduplicate words\b`, `\bdohraye (?:gaye )?shabd\b`,
			),
			handle: handleRepeated,
		},
		{
			category: "unique_words",
			triggers: re(
				`\bunique words\b`, `\bdistinct words\b`, `\balag shabd\b`,
			),
			handle: handleUnique,
		},
		{
			category: "word_frequency",
			triggers: re(
				`\bword frequency\b`, `\bfrequency of (?:each )?word\b`,
				`\bhar shabd kitni baar\b`,
			),
			handle: handleFrequency,
		},
		{
			category: "vowel_count",
			triggers: re(
				`\bhow many vowels\b`, `\bcount (?:the )?vowels\b`, `\bvowel count\b`,
				`\bkitne swar\b`, `स्वर`,
			),
			handle: handleVowels,
		},
		{
			category: "consonant_count",
			triggers: re(
				`\bhow many consonants\b`, `\bcount (?:the )?consonants\b`,
				`\bconsonant count\b`, `\bkitne vyanjan\b`, `व्यंजन`,
			),
			handle: handleConsonants,
		},
		{
			category: "dataset_store",
			triggers: re(
				`\b(?:remember|store|save) (?:this|the) (?:data|text|dataset)\b`,
				`\byaad rakho\b`, `याद रखो`,
			),
			handle: handleDatasetStore,
		},
		{
			category: "dataset_query",
			triggers: re(
				`\bshow (?:my|the) (?:data|dataset)\b`,
				`\bwhat(?:'s| is) in (?:my|the) (?:data|dataset)\b`,
				`\bmera data dikhao\b`, `\bkya yaad hai\b`,
			),
			handle: handleDatasetSummary,
		},
		{
			category: "math_expression",
			triggers: []*regexp.Regexp{mathRe},
			handle:   handleMath,
		},
	}
}

// datasetRefRe flags utterances that ask about the stored dataset instead
// of supplying text inline ("how many words in my dataset").
var datasetRefRe = regexp.MustCompile(`(?i)\b(?:my|the|mera|mere|us) (?:data|dataset)\b|\bstored (?:data|text)\b|\bsaved data\b|\byaad (?:wala|kiya)\b`)

var examples = map[string]string{
	"word_count":          "count words: hello world program",
	"line_count":          "count lines: first line\\nsecond line",
	"char_count":          "count characters: hello",
	"specific_word_count": `how many times does "apple" appear in apple banana apple`,
	"extract_numbers":     "find numbers: 4 cats and 12 dogs",
	"sum":                 "sum 3 4 5",
	"max":                 "largest number in 3 9 2",
	"min":                 "smallest number in 3 9 2",
	"average":             "average of 2 4 6",
	"repeated_words":      "repeated words: go go stop",
	"unique_words":        "unique words: a b a",
	"word_frequency":      "word frequency: tea tea chai",
	"vowel_count":         "count vowels: banana",
	"consonant_count":     "count consonants: banana",
	"dataset_store":       "remember this data: apples 4, oranges 7",
	"dataset_query":       "show my dataset",
}

func guidance(category string) Result {
	msg := fmt.Sprintf("I need some text for that. Try: %s", examples[category])
	return Result{Matched: true, Category: category, Message: msg, OK: false}
}

func noDataset(category string) Result {
	return Result{
		Matched:  true,
		Category: category,
		Message:  "No dataset stored for this session. Say 'remember this data: <your text>' first.",
		OK:       false,
	}
}

// operand resolves what text a command runs on, in priority order: the
// session dataset when the utterance refers to it, then explicit inline
// text, then the utterance with the command phrase stripped.
func (e *Engine) operand(req Request, m *match, category string) (string, *Result) {
	if datasetRefRe.MatchString(req.Query) {
		if d, ok := e.datasets.Get(req.SessionID); ok {
			return d.Content, nil
		}
		r := noDataset(category)
		return "", &r
	}
	if strings.TrimSpace(req.InlineText) != "" {
		return req.InlineText, nil
	}
	rest := req.Query[:m.start] + req.Query[m.end:]
	rest = trimFillers(rest)
	if rest == "" {
		r := guidance(category)
		return "", &r
	}
	return rest, nil
}

var leadFillerRe = regexp.MustCompile(`(?i)^(?:how many|number of|tell me|count|what|in|of|this|text|sentence|there|from|for|the|is|are|hai|mein|me|kitne)\b\s*|^[\s:,.;-]+`)

func trimFillers(s string) string {
	s = strings.TrimSpace(s)
	for {
		trimmed := leadFillerRe.ReplaceAllString(s, "")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

func ok(category, msg string) Result {
	return Result{Matched: true, Category: category, Message: msg, OK: true}
}

func handleWordCount(e *Engine, req Request, m *match) Result {
	text, fail := e.operand(req, m, "word_count")
	if fail != nil {
		return *fail
	}
	return ok("word_count", fmt.Sprintf("Word count: %d", len(tokenize(text))))
}

func handleLineCount(e *Engine, req Request, m *match) Result {
	text, fail := e.operand(req, m, "line_count")
	if fail != nil {
		return *fail
	}
	return ok("line_count", fmt.Sprintf("Line count: %d", countLines(text)))
}

func handleCharCount(e *Engine, req Request, m *match) Result {
	text, fail := e.operand(req, m, "char_count")
	if fail != nil {
		return *fail
	}
	return ok("char_count", fmt.Sprintf("Character count: %d", len([]rune(text))))
}

func handleSpecificWord(e *Engine, req Request, m *match) Result {
	word := ""
	if len(m.groups) > 0 {
		word = m.groups[0]
	}
	if word == "" {
		return guidance("specific_word_count")
	}
	text, fail := e.operand(req, m, "specific_word_count")
	if fail != nil {
		return *fail
	}
	n := countSpecificWord(text, word)
	return ok("specific_word_count", fmt.Sprintf("The word %q appears %d time(s).", word, n))
}

func handleNumbers(e *Engine, req Request, m *match) Result {
	text, fail := e.operand(req, m, "extract_numbers")
	if fail != nil {
		return *fail
	}
	nums := extractNumbers(text)
	if len(nums) == 0 {
		return ok("extract_numbers", noNumbers)
	}
	return ok("extract_numbers", fmt.Sprintf("Found %d number(s): %s", len(nums), formatNumbers(nums)))
}

func handleSum(e *Engine, req Request, m *match) Result {
	return aggregate(e, req, m, "sum", "Sum: %s", sumNumbers)
}

func handleMax(e *Engine, req Request, m *match) Result {
	return aggregate(e, req, m, "max", "Largest number: %s", maxNumber)
}

func handleMin(e *Engine, req Request, m *match) Result {
	return aggregate(e, req, m, "min", "Smallest number: %s", minNumber)
}

func handleAverage(e *Engine, req Request, m *match) Result {
	return aggregate(e, req, m, "average", "Average: %s", averageNumbers)
}

func aggregate(e *Engine, req Request, m *match, category, format string, fn func([]float64) (float64, bool)) Result {
	text, fail := e.operand(req, m, category)
	if fail != nil {
		return *fail
	}
	v, found := fn(extractNumbers(text))
	if !found {
		return ok(category, noNumbers)
	}
	return ok(category, fmt.Sprintf(format, formatNumber(v)))
}

func handleRepeated(e *Engine, req Request, m *match) Result {
	text, fail := e.operand(req, m, "repeated_words")
	if fail != nil {
		return *fail
	}
	rep := repeatedWords(text)
	if len(rep) == 0 {
		return ok("repeated_words", "No repeated words.")
	}
	return ok("repeated_words", "Repeated words: "+strings.Join(rep, ", "))
}

// countAskRe detects the count-asking sub-phrase that turns a unique-words
// listing into a unique-word count.
var countAskRe = regexp.MustCompile(`(?i)\bhow many\b|\bcount\b|\bnumber of\b|\bkitne\b`)

func handleUnique(e *Engine, req Request, m *match) Result {
	text, fail := e.operand(req, m, "unique_words")
	if fail != nil {
		return *fail
	}
	uniq := uniqueWords(text)
	if countAskRe.MatchString(req.Query) {
		return ok("unique_words", fmt.Sprintf("Unique word count: %d", len(uniq)))
	}
	if len(uniq) == 0 {
		return ok("unique_words", "No words found.")
	}
	return ok("unique_words", "Unique words: "+strings.Join(uniq, ", "))
}

func handleFrequency(e *Engine, req Request, m *match) Result {
	text, fail := e.operand(req, m, "word_frequency")
	if fail != nil {
		return *fail
	}
	freq := wordFrequency(text)
	if len(freq) == 0 {
		return ok("word_frequency", "No words found.")
	}
	return ok("word_frequency", "Word frequency: "+strings.Join(freq, ", "))
}

func handleVowels(e *Engine, req Request, m *match) Result {
	text, fail := e.operand(req, m, "vowel_count")
	if fail != nil {
		return *fail
	}
	return ok("vowel_count", fmt.Sprintf("Vowel count: %d", countVowels(text)))
}

func handleConsonants(e *Engine, req Request, m *match) Result {
	text, fail := e.operand(req, m, "consonant_count")
	if fail != nil {
		return *fail
	}
	return ok("consonant_count", fmt.Sprintf("Consonant count: %d", countConsonants(text)))
}

func handleDatasetStore(e *Engine, req Request, m *match) Result {
	content := strings.TrimSpace(req.InlineText)
	if content == "" {
		content = trimFillers(req.Query[:m.start] + req.Query[m.end:])
	}
	if content == "" {
		return guidance("dataset_store")
	}
	d := e.datasets.Put(req.SessionID, content)
	msg := fmt.Sprintf("Got it. Stored %d line(s) and %d word(s) for this session.", d.Lines, d.Words)
	return ok("dataset_store", msg)
}

func handleDatasetSummary(e *Engine, req Request, m *match) Result {
	d, found := e.datasets.Get(req.SessionID)
	if !found {
		return noDataset("dataset_query")
	}
	msg := fmt.Sprintf("Your stored dataset has %d line(s) and %d word(s):\n%s", d.Lines, d.Words, d.Content)
	return ok("dataset_query", msg)
}

var mathRe = regexp.MustCompile(`(?i)(-?\d+(?:\.\d+)?)\s*(plus|minus|times|multiplied by|divided by|into|jod|ghata|guna|bhag|जोड़|घटा|गुणा|भाग|[+*/x×÷-])\s*(-?\d+(?:\.\d+)?)`)

func handleMath(e *Engine, req Request, m *match) Result {
	if len(m.groups) < 3 {
		return Result{Matched: false}
	}
	a, op, b := m.groups[0], normalizeOperator(m.groups[1]), m.groups[2]
	x, y := mustParse(a), mustParse(b)
	var v float64
	switch op {
	case "+":
		v = x + y
	case "-":
		v = x - y
	case "*":
		v = x * y
	case "/":
		if y == 0 {
			return Result{
				Matched:  true,
				Category: "math_expression",
				Message:  "Cannot compute: division by zero.",
				OK:       false,
			}
		}
		v = x / y
	default:
		return Result{Matched: false}
	}
	msg := fmt.Sprintf("%s %s %s = %s", formatNumber(x), op, formatNumber(y), formatNumber(v))
	return ok("math_expression", msg)
}

func normalizeOperator(op string) string {
	switch strings.ToLower(strings.TrimSpace(op)) {
	case "+", "plus", "jod", "जोड़":
		return "+"
	case "-", "minus", "ghata", "घटा":
		return "-"
	case "*", "x", "×", "times", "multiplied by", "into", "guna", "गुणा":
		return "*"
	case "/", "÷", "divided by", "bhag", "भाग":
		return "/"
	}
	return op
}

func mustParse(s string) float64 {
	var v float64
	_, _ = fmt.Sscanf(s, "%g", &v)
	return v
}

// EvaluateMathExpression evaluates a standalone expression string,
// reporting whether it was recognized at all.
func EvaluateMathExpression(expr string) (string, bool) {
	loc := mathRe.FindStringSubmatchIndex(expr)
	if loc == nil {
		return "", false
	}
	m := &match{start: loc[0], end: loc[1]}
	for g := 1; g*2 < len(loc); g++ {
		m.groups = append(m.groups, expr[loc[g*2]:loc[g*2+1]])
	}
	res := handleMath(nil, Request{Query: expr}, m)
	if !res.Matched {
		return "", false
	}
	return res.Message, true
}
