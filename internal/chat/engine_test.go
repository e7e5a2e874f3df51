package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ccraze049/ai/internal/knowledge"
	"github.com/ccraze049/ai/internal/learning"
	"github.com/ccraze049/ai/internal/logic"
)

func newTestChatEngine(t *testing.T) (*Engine, *knowledge.Base) {
	t.Helper()
	store, err := knowledge.NewFileStore(filepath.Join(t.TempDir(), "kb.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	index := knowledge.NewIndex(store, time.Minute, time.Now)
	base := knowledge.NewBase(store, index, zap.NewNop())
	learner := learning.NewManager(base, zap.NewNop())
	datasets := logic.NewDatasetCache(30*time.Minute, 16, nil)
	return NewEngine(logic.New(datasets), base, learner, zap.NewNop()), base
}

func ask(t *testing.T, e *Engine, query string, cctx Context) Response {
	t.Helper()
	resp, err := e.ProcessQuery(context.Background(), query, cctx)
	if err != nil {
		t.Fatalf("ProcessQuery(%q): %v", query, err)
	}
	return resp
}

func TestGreeting(t *testing.T) {
	e, _ := newTestChatEngine(t)
	resp := ask(t, e, "Hello!", Context{SessionID: "s1"})
	if resp.Confidence != ConfidenceHigh {
		t.Fatalf("expected high confidence, got %s", resp.Confidence)
	}
	if resp.Answer != greetingReply {
		t.Fatalf("unexpected greeting: %q", resp.Answer)
	}
}

func TestGreetingNotFiredMidSentence(t *testing.T) {
	e, _ := newTestChatEngine(t)
	resp := ask(t, e, "hello there can you say what is water", Context{})
	if resp.Answer == greetingReply {
		t.Fatal("greeting shadowed a real question")
	}
}

func TestMultiplicationTable(t *testing.T) {
	e, _ := newTestChatEngine(t)
	for _, query := range []string{"table of 7", "7 ka table", "pahada of 7"} {
		resp := ask(t, e, query, Context{})
		lines := strings.Split(resp.Answer, "\n")
		if len(lines) != 10 {
			t.Fatalf("%q: expected 10 lines, got %d", query, len(lines))
		}
		for i, line := range lines {
			want := fmt.Sprintf("7 x %d = %d", i+1, 7*(i+1))
			if line != want {
				t.Fatalf("%q line %d: expected %q, got %q", query, i, want, line)
			}
		}
		if resp.Confidence != ConfidenceHigh {
			t.Fatalf("%q: expected high confidence", query)
		}
	}
}

func TestWordsJustSentNeedsPriorTurn(t *testing.T) {
	e, _ := newTestChatEngine(t)
	resp := ask(t, e, "how many words did I just send", Context{})
	if resp.Confidence != ConfidenceLow {
		t.Fatalf("expected low confidence, got %s", resp.Confidence)
	}
	if !strings.Contains(resp.Answer, "previous message") {
		t.Fatalf("unexpected clarification: %q", resp.Answer)
	}
}

func TestWordsJustSentCountsPreviousMessage(t *testing.T) {
	e, _ := newTestChatEngine(t)
	first := ask(t, e, "the quick brown fox jumps", Context{})
	resp := ask(t, e, "how many words did I just send", first.Context)
	if resp.Answer != "Your previous message had 5 word(s)." {
		t.Fatalf("unexpected count: %q", resp.Answer)
	}
	if resp.Confidence != ConfidenceHigh {
		t.Fatalf("expected high confidence, got %s", resp.Confidence)
	}
}

func TestLogicCommandsRouted(t *testing.T) {
	e, _ := newTestChatEngine(t)
	resp := ask(t, e, "sum 3 4 5", Context{})
	if resp.Answer != "Sum: 12" {
		t.Fatalf("unexpected logic answer: %q", resp.Answer)
	}
	if resp.Confidence != ConfidenceHigh {
		t.Fatalf("expected high confidence, got %s", resp.Confidence)
	}
}

func TestDivisionByZeroIsLowConfidence(t *testing.T) {
	e, _ := newTestChatEngine(t)
	resp := ask(t, e, "10 divided by 0", Context{})
	if resp.Confidence != ConfidenceLow {
		t.Fatalf("expected low confidence, got %s", resp.Confidence)
	}
}

func TestTeachInlineAndRecall(t *testing.T) {
	e, _ := newTestChatEngine(t)
	resp := ask(t, e, "I want to teach you. Question: What is tea? Answer: A hot drink.", Context{})
	if resp.Confidence != ConfidenceHigh || resp.EntryID == "" {
		t.Fatalf("teach failed: %+v", resp)
	}
	if resp.Context.Learning != nil {
		t.Fatal("inline teach should leave no pending state")
	}

	answer := ask(t, e, "what is tea", Context{})
	if answer.Answer != "A hot drink." {
		t.Fatalf("recall failed: %q", answer.Answer)
	}
	if answer.Confidence != ConfidenceHigh {
		t.Fatalf("expected high confidence, got %s", answer.Confidence)
	}
	if answer.EntryID != resp.EntryID {
		t.Fatalf("entry id mismatch: %q vs %q", answer.EntryID, resp.EntryID)
	}
}

func TestTeachPromptThenCancel(t *testing.T) {
	e, _ := newTestChatEngine(t)
	resp := ask(t, e, "let me teach you something new", Context{})
	if resp.Context.Learning == nil || resp.Context.Learning.Stage != StageQuestionAnswer {
		t.Fatalf("expected question-answer stage, got %+v", resp.Context.Learning)
	}
	if !strings.Contains(resp.Answer, "Question:") {
		t.Fatalf("prompt should show the format: %q", resp.Answer)
	}

	cancelled := ask(t, e, "no", resp.Context)
	if cancelled.Context.Learning != nil {
		t.Fatal("denial should clear the learning state")
	}
}

func TestTeachPromptReasksOnBadFormat(t *testing.T) {
	e, _ := newTestChatEngine(t)
	resp := ask(t, e, "let me teach you something new", Context{})
	retry := ask(t, e, "tea is a drink made from leaves", resp.Context)
	if retry.Context.Learning == nil || retry.Context.Learning.Stage != StageQuestionAnswer {
		t.Fatal("unparseable input should keep the state")
	}
	if retry.Confidence != ConfidenceLow {
		t.Fatalf("expected low confidence, got %s", retry.Confidence)
	}
}

func TestDuplicateTeachOffersImproveWithoutEarlyMutation(t *testing.T) {
	e, base := newTestChatEngine(t)
	first := ask(t, e, "teach you. Question: What is tea? Answer: A hot drink.", Context{})
	if first.EntryID == "" {
		t.Fatalf("first teach failed: %+v", first)
	}

	dup := ask(t, e, "teach you. Question: What is tea? Answer: Leaf water.", Context{})
	state := dup.Context.Learning
	if state == nil || state.Stage != StageConfirmation || state.WaitingForAnswer {
		t.Fatalf("expected confirmation stage, got %+v", state)
	}
	if state.RelatedEntryID != first.EntryID {
		t.Fatalf("confirmation should target the existing entry")
	}

	confirmed := ask(t, e, "yes", dup.Context)
	state = confirmed.Context.Learning
	if state == nil || !state.WaitingForAnswer {
		t.Fatalf("yes should arm waitingForAnswer, got %+v", state)
	}
	n, err := base.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 { // bootstrap + tea; confirming must not mutate yet
		t.Fatalf("expected 2 entries after confirmation, got %d", n)
	}
	if hit, _ := base.BestMatch("what is tea"); hit == nil || hit.Entry.Answer != "A hot drink." {
		t.Fatal("answer must be unchanged until the replacement arrives")
	}

	updated := ask(t, e, "Chai is a brewed drink.", confirmed.Context)
	if updated.Context.Learning != nil {
		t.Fatal("improve should clear the learning state")
	}
	if hit, _ := base.BestMatch("what is tea"); hit == nil || hit.Entry.Answer != "Chai is a brewed drink." {
		t.Fatal("improved answer not stored")
	}
}

func TestConfirmationDenialKeepsOldAnswer(t *testing.T) {
	e, base := newTestChatEngine(t)
	ask(t, e, "teach you. Question: What is tea? Answer: A hot drink.", Context{})
	dup := ask(t, e, "teach you. Question: What is tea? Answer: Leaf water.", Context{})

	denied := ask(t, e, "no", dup.Context)
	if denied.Context.Learning != nil {
		t.Fatal("denial should clear the state")
	}
	if hit, _ := base.BestMatch("what is tea"); hit == nil || hit.Entry.Answer != "A hot drink." {
		t.Fatal("denial must not touch the stored answer")
	}
}

func TestBareTeachingFormatIsLearned(t *testing.T) {
	e, base := newTestChatEngine(t)
	prompt := ask(t, e, "what is quantum foam", Context{})
	if prompt.Confidence != ConfidenceNone {
		t.Fatalf("expected don't-know prompt, got %+v", prompt)
	}

	// The prompt tells the user to send the bare format; it must be
	// accepted without any teach phrase around it.
	taught := ask(t, e, "Question: What is quantum foam? Answer: Vacuum fluctuations.", prompt.Context)
	if taught.Confidence != ConfidenceHigh || taught.EntryID == "" {
		t.Fatalf("bare format not learned: %+v", taught)
	}
	if n, err := base.Count(); err != nil || n != 2 {
		t.Fatalf("expected 2 entries, got %d (err %v)", n, err)
	}

	recall := ask(t, e, "what is quantum foam", taught.Context)
	if recall.Answer != "Vacuum fluctuations." || recall.Confidence != ConfidenceHigh {
		t.Fatalf("recall failed: %+v", recall)
	}
}

func TestInlineDatasetTextAsOperand(t *testing.T) {
	e, _ := newTestChatEngine(t)
	cctx := Context{SessionID: "s1", DatasetText: "alpha beta gamma"}
	resp := ask(t, e, "how many words", cctx)
	if resp.Answer != "Word count: 3" {
		t.Fatalf("inline text not used as operand: %q", resp.Answer)
	}
	if resp.Context.DatasetText != "alpha beta gamma" {
		t.Fatal("dataset text must survive the round trip")
	}
}

func TestUnknownQueryAsksToBeTaught(t *testing.T) {
	e, _ := newTestChatEngine(t)
	resp := ask(t, e, "what is quantum foam", Context{})
	if resp.Confidence != ConfidenceNone {
		t.Fatalf("expected no confidence, got %s", resp.Confidence)
	}
	if !strings.Contains(resp.Answer, "Teach me") {
		t.Fatalf("expected teach prompt, got %q", resp.Answer)
	}
}

func TestHistoryWindowTruncation(t *testing.T) {
	e, _ := newTestChatEngine(t)
	cctx := Context{SessionID: "s1"}
	for i := 0; i < 10; i++ {
		resp := ask(t, e, fmt.Sprintf("sum %d %d", i, i+1), cctx)
		cctx = resp.Context
	}
	if len(cctx.History) != 20 {
		t.Fatalf("expected history capped at 20, got %d", len(cctx.History))
	}

	small := NewEngine(e.logicEngine, e.base, e.learner, nil, WithHistoryWindow(4))
	cctx = Context{}
	for i := 0; i < 5; i++ {
		resp := ask(t, small, "sum 1 2", cctx)
		cctx = resp.Context
	}
	if len(cctx.History) != 4 {
		t.Fatalf("expected history capped at 4, got %d", len(cctx.History))
	}
	if cctx.History[len(cctx.History)-1].Role != RoleAssistant {
		t.Fatal("history should end with the assistant reply")
	}
}

func TestContextNotSharedAcrossCalls(t *testing.T) {
	e, _ := newTestChatEngine(t)
	original := Context{SessionID: "s1"}
	resp := ask(t, e, "hello", original)
	if len(original.History) != 0 {
		t.Fatal("caller's context must not be mutated")
	}
	if len(resp.Context.History) != 2 {
		t.Fatalf("expected 2 history messages, got %d", len(resp.Context.History))
	}
}
