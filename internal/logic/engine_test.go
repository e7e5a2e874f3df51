package logic

import (
	"strings"
	"testing"
	"time"
)

func newTestEngine() *Engine {
	return New(NewDatasetCache(time.Hour, 16, nil))
}

func process(t *testing.T, e *Engine, query string) Result {
	t.Helper()
	res := e.Process(Request{Query: query, SessionID: "s1"})
	if !res.Matched {
		t.Fatalf("expected a match for %q", query)
	}
	return res
}

func TestDispatchOrderPinned(t *testing.T) {
	want := []string{
		"word_count", "line_count", "char_count", "specific_word_count",
		"extract_numbers", "sum", "max", "min", "average", "repeated_words",
		"unique_words", "word_frequency", "vowel_count", "consonant_count",
		"dataset_store", "dataset_query", "math_expression",
	}
	got := newTestEngine().Categories()
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("category %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestWordCount(t *testing.T) {
	res := process(t, newTestEngine(), "count words: hello world program")
	if res.Category != "word_count" || res.Message != "Word count: 3" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLineCount(t *testing.T) {
	res := process(t, newTestEngine(), "count lines: first\nsecond\n\nthird")
	if res.Message != "Line count: 3" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCharCount(t *testing.T) {
	res := process(t, newTestEngine(), "count characters: hello")
	if res.Message != "Character count: 5" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSpecificWordCount(t *testing.T) {
	res := process(t, newTestEngine(), "how many times does apple appear in apple banana apple")
	if res.Category != "specific_word_count" {
		t.Fatalf("wrong category: %+v", res)
	}
	if !strings.Contains(res.Message, `"apple"`) || !strings.Contains(res.Message, "2") {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestUniqueWordsNotShadowedByWordCount(t *testing.T) {
	// "how many unique words" must reach unique_words even though a
	// bare "how many words" would hit word_count.
	res := process(t, newTestEngine(), "how many unique words in a b a")
	if res.Category != "unique_words" {
		t.Fatalf("shadowed by %s", res.Category)
	}
	if res.Message != "Unique word count: 2" {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestUniqueWordsListing(t *testing.T) {
	res := process(t, newTestEngine(), "unique words: go stop go")
	if res.Message != "Unique words: go, stop" {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestRepeatedWords(t *testing.T) {
	res := process(t, newTestEngine(), "repeated words: go go stop stop once")
	if res.Message != "Repeated words: go, stop" {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestWordFrequency(t *testing.T) {
	res := process(t, newTestEngine(), "word frequency: tea tea chai")
	if res.Message != "Word frequency: tea: 2, chai: 1" {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestExtractNumbers(t *testing.T) {
	res := process(t, newTestEngine(), "find numbers: 4 cats and 12 dogs and -2.5 fish")
	if !strings.Contains(res.Message, "3 number(s)") || !strings.Contains(res.Message, "-2.5") {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestAggregates(t *testing.T) {
	e := newTestEngine()
	cases := []struct {
		query, want string
	}{
		{"sum 3 4 5", "Sum: 12"},
		{"jod 3 4 5", "Sum: 12"},
		{"largest number in 3 9 2", "Largest number: 9"},
		{"smallest number in 3 9 2", "Smallest number: 2"},
		{"average of 2 4 6", "Average: 4"},
		{"average of 1 2", "Average: 1.5"},
	}
	for _, c := range cases {
		res := process(t, e, c.query)
		if res.Message != c.want {
			t.Errorf("%q: expected %q, got %q", c.query, c.want, res.Message)
		}
	}
}

func TestAggregatesNoNumbersSentinel(t *testing.T) {
	e := newTestEngine()
	for _, q := range []string{
		"sum of nothing here",
		"largest number in nothing",
		"smallest number in nothing",
		"average of nothing",
	} {
		res := process(t, e, q)
		if !res.OK || res.Message != noNumbers {
			t.Errorf("%q: expected sentinel, got %+v", q, res)
		}
	}
}

func TestVowelsAndConsonants(t *testing.T) {
	e := newTestEngine()
	res := process(t, e, "count vowels: banana")
	if res.Message != "Vowel count: 3" {
		t.Fatalf("unexpected vowels: %q", res.Message)
	}
	res = process(t, e, "count consonants: banana")
	if res.Message != "Consonant count: 3" {
		t.Fatalf("unexpected consonants: %q", res.Message)
	}
}

func TestDatasetRoundTrip(t *testing.T) {
	e := newTestEngine()
	res := process(t, e, "remember this data: a b a c")
	if res.Category != "dataset_store" || !res.OK {
		t.Fatalf("store failed: %+v", res)
	}
	res = process(t, e, "how many words in my dataset")
	if res.Message != "Word count: 4" {
		t.Fatalf("dataset word count: %q", res.Message)
	}
	res = process(t, e, "how many unique words in my dataset")
	if res.Message != "Unique word count: 3" {
		t.Fatalf("dataset unique count: %q", res.Message)
	}
}

func TestDatasetMissing(t *testing.T) {
	res := process(t, newTestEngine(), "how many words in my dataset")
	if res.OK {
		t.Fatalf("expected guidance for missing dataset, got %+v", res)
	}
	if !strings.Contains(res.Message, "No dataset") {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestDatasetIsolatedPerSession(t *testing.T) {
	e := newTestEngine()
	e.Process(Request{Query: "remember this data: x y z", SessionID: "a"})
	res := e.Process(Request{Query: "how many words in my dataset", SessionID: "b"})
	if res.OK {
		t.Fatalf("session b must not see session a's dataset: %+v", res)
	}
}

func TestGuidanceOnEmptyOperand(t *testing.T) {
	res := process(t, newTestEngine(), "count words")
	if res.OK {
		t.Fatalf("expected guidance, got %+v", res)
	}
	if !strings.Contains(res.Message, "count words:") {
		t.Fatalf("guidance must carry an example: %q", res.Message)
	}
}

func TestMathExpression(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"2 + 2", "= 4"},
		{"2 plus 2", "= 4"},
		{"10 minus 4", "= 6"},
		{"3 times 5", "= 15"},
		{"7 x 8", "= 56"},
		{"10 divided by 4", "= 2.5"},
		{"5 jod 3", "= 8"},
		{"9 bhag 3", "= 3"},
	}
	for _, c := range cases {
		msg, recognized := EvaluateMathExpression(c.expr)
		if !recognized {
			t.Errorf("%q not recognized", c.expr)
			continue
		}
		if !strings.HasSuffix(msg, c.want) {
			t.Errorf("%q: expected suffix %q, got %q", c.expr, c.want, msg)
		}
	}
}

func TestMathDivisionByZero(t *testing.T) {
	msg, recognized := EvaluateMathExpression("2 / 0")
	if !recognized {
		t.Fatalf("expected recognition")
	}
	if !strings.Contains(msg, "division by zero") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestNoCommandRecognized(t *testing.T) {
	res := newTestEngine().Process(Request{Query: "what is the capital of france", SessionID: "s"})
	if res.Matched {
		t.Fatalf("plain question must fall through, got %+v", res)
	}
}

func TestHindiTriggers(t *testing.T) {
	e := newTestEngine()
	res := process(t, e, "kitne shabd: ek do teen")
	if res.Category != "word_count" || res.Message != "Word count: 3" {
		t.Fatalf("unexpected: %+v", res)
	}
	res = process(t, e, "कितने शब्द: एक दो तीन")
	if res.Category != "word_count" || res.Message != "Word count: 3" {
		t.Fatalf("devanagari trigger: %+v", res)
	}
}
