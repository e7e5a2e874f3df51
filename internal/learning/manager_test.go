package learning

import (
	"sync"
	"testing"
	"time"

	"github.com/ccraze049/ai/internal/knowledge"
)

type memStore struct {
	mu      sync.Mutex
	entries []knowledge.Entry
}

func (s *memStore) All() ([]knowledge.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]knowledge.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *memStore) Get(id string) (knowledge.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return knowledge.Entry{}, knowledge.ErrNotFound
}

func (s *memStore) Append(e knowledge.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *memStore) Update(id, answer string) (knowledge.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == id {
			s.entries[i].Answer = answer
			return s.entries[i], nil
		}
	}
	return knowledge.Entry{}, knowledge.ErrNotFound
}

func (s *memStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

func newTestManager() (*Manager, *memStore) {
	store := &memStore{}
	base := knowledge.NewBase(store, knowledge.NewIndex(store, time.Second, nil), nil)
	return NewManager(base, nil), store
}

func TestDetectIntentPriority(t *testing.T) {
	if got := DetectIntent("I want to teach you something").Intent; got != IntentTeachNew {
		t.Fatalf("teach: got %s", got)
	}
	if got := DetectIntent("that answer is wrong answer, please improve").Intent; got != IntentImproveExisting {
		t.Fatalf("improve: got %s", got)
	}
	if got := DetectIntent("yes").Intent; got != IntentConfirm {
		t.Fatalf("confirm: got %s", got)
	}
	if got := DetectIntent("what is the weather").Intent; got != IntentNone {
		t.Fatalf("none: got %s", got)
	}
	// teach outranks improve when both appear
	if got := DetectIntent("let me teach you the correct the answer").Intent; got != IntentTeachNew {
		t.Fatalf("priority: got %s", got)
	}
}

func TestConfirmationAndDenial(t *testing.T) {
	for _, s := range []string{"yes", "Haan", "theek hai", "okay!"} {
		if !IsConfirmation(s) {
			t.Errorf("%q should confirm", s)
		}
	}
	for _, s := range []string{"no", "nahi", "cancel", "नहीं"} {
		if !IsDenial(s) {
			t.Errorf("%q should deny", s)
		}
	}
	if IsConfirmation("yes i think the weather is quite nice today") {
		t.Errorf("long sentence must not count as confirmation")
	}
}

func TestParseTeachingInput(t *testing.T) {
	cases := []struct {
		text   string
		q, a   string
		wantOK bool
	}{
		{"Question: What is Go? Answer: A programming language.", "What is Go?", "A programming language.", true},
		{"question: What is Go?\nanswer: A programming language.", "What is Go?", "A programming language.", true},
		{"Q: What is Go? A: A language.", "What is Go?", "A language.", true},
		{"sawal: paani kya hai? jawab: ek liquid", "paani kya hai?", "ek liquid", true},
		{"सवाल: पानी क्या है? जवाब: एक तरल", "पानी क्या है?", "एक तरल", true},
		{"just some random text", "", "", false},
	}
	for _, c := range cases {
		q, a, ok := ParseTeachingInput(c.text)
		if ok != c.wantOK {
			t.Errorf("%q: ok=%v want %v", c.text, ok, c.wantOK)
			continue
		}
		if ok && (q != c.q || a != c.a) {
			t.Errorf("%q: got (%q,%q) want (%q,%q)", c.text, q, a, c.q, c.a)
		}
	}
}

func TestLearnNewAndDuplicateGuard(t *testing.T) {
	m, store := newTestManager()
	out, err := m.LearnNew("What is gravity?", "A force of attraction.")
	if err != nil {
		t.Fatalf("learn: %v", err)
	}
	if !out.Success {
		t.Fatalf("expected success: %+v", out)
	}

	dup, err := m.LearnNew("What is gravity?", "Some other answer.")
	if err != nil {
		t.Fatalf("learn dup: %v", err)
	}
	if !dup.HasSimilar {
		t.Fatalf("expected duplicate refusal: %+v", dup)
	}
	if n, _ := store.Count(); n != 1 {
		t.Fatalf("store grew on refused teach: %d", n)
	}
}

func TestImproveUnknownIDIsRecoverable(t *testing.T) {
	m, _ := newTestManager()
	out, err := m.Improve("missing-id", "new answer")
	if err != nil {
		t.Fatalf("improve must not error on unknown id: %v", err)
	}
	if !out.NotFound || out.Success {
		t.Fatalf("expected NotFound outcome: %+v", out)
	}
}

func TestImproveUpdatesAnswer(t *testing.T) {
	m, _ := newTestManager()
	created, err := m.LearnNew("What is tea?", "A drink.")
	if err != nil {
		t.Fatalf("learn: %v", err)
	}
	out, err := m.Improve(created.Entry.ID, "A hot beverage made from leaves.")
	if err != nil {
		t.Fatalf("improve: %v", err)
	}
	if !out.Success || out.Entry.Answer != "A hot beverage made from leaves." {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}
