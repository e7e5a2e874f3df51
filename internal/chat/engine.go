// Package chat orchestrates one utterance through a priority-ordered
// dispatcher: greeting, multiplication table, previous-message word count,
// logic commands, the teach/improve state machine, then knowledge search.
// The first handler that matches produces the terminal response.
package chat

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ccraze049/ai/internal/knowledge"
	"github.com/ccraze049/ai/internal/language"
	"github.com/ccraze049/ai/internal/learning"
	"github.com/ccraze049/ai/internal/logic"
	"github.com/ccraze049/ai/internal/translit"
)

const teachFormatHint = "Question: <your question> Answer: <the answer>"

// Engine is stateless between calls; all conversation state lives in the
// caller's Context.
type Engine struct {
	logicEngine   *logic.Engine
	base          *knowledge.Base
	learner       *learning.Manager
	log           *zap.Logger
	historyWindow int
	now           func() time.Time
}

type Option func(*Engine)

func WithHistoryWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historyWindow = n
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

func NewEngine(logicEngine *logic.Engine, base *knowledge.Base, learner *learning.Manager, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logicEngine:   logicEngine,
		base:          base,
		learner:       learner,
		log:           logger,
		historyWindow: 20,
		now:           time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ProcessQuery runs the dispatch chain for one utterance and returns the
// reply plus the updated conversation context.
func (e *Engine) ProcessQuery(_ context.Context, query string, cctx Context) (Response, error) {
	lang := language.Detect(query)
	cctx = cctx.Clone()
	cctx.History = append(cctx.History, Message{
		Role:      RoleUser,
		Content:   query,
		Timestamp: e.now(),
		Language:  string(lang.Language),
	})

	resp := e.dispatch(query, lang, &cctx)
	resp.Language = lang

	cctx.History = append(cctx.History, Message{
		Role:      RoleAssistant,
		Content:   resp.Answer,
		Timestamp: e.now(),
	})
	if len(cctx.History) > e.historyWindow {
		cctx.History = cctx.History[len(cctx.History)-e.historyWindow:]
	}
	resp.Context = cctx
	return resp, nil
}

func (e *Engine) dispatch(query string, lang language.Result, cctx *Context) Response {
	if greetingRe.MatchString(query) {
		return e.styled(greetingReply, query, ConfidenceHigh, "")
	}

	if n, asked := parseTableRequest(query); asked {
		return Response{Answer: multiplicationTable(n, 10), Confidence: ConfidenceHigh}
	}

	if wordsJustSentRe.MatchString(query) {
		return e.wordsJustSent(query, cctx)
	}

	if res := e.logicEngine.Process(logic.Request{Query: query, InlineText: cctx.DatasetText, SessionID: cctx.SessionID}); res.Matched {
		conf := ConfidenceHigh
		if !res.OK {
			conf = ConfidenceLow
		}
		return e.styled(res.Message, query, conf, "")
	}

	if resp, handled := e.handleLearning(query, cctx); handled {
		return resp
	}

	return e.knowledgeFallback(query, cctx)
}

// styled converts the English answer into the style of the user's query.
func (e *Engine) styled(answer, query string, conf Confidence, entryID string) Response {
	converted := translit.AutoConvert(answer, query, translit.Options{PreserveTechnicalTerms: true})
	return Response{Answer: converted, Confidence: conf, EntryID: entryID}
}

// --- greeting ---

var greetingRe = regexp.MustCompile(`(?i)^\s*(?:hi|hello|hey|namaste|namaskar|salaam|hola|yo)(?:\s+(?:there|bhai|ji|dost))?\s*[!.?]*\s*$|^\s*good\s+(?:morning|afternoon|evening)\s*[!.?]*\s*$`)

const greetingReply = "Hello! Ask me anything, or teach me something new with " +
	"'Question: ... Answer: ...'."

// --- multiplication table ---

var tableRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:multiplication\s+)?table\s+(?:of\s+)?(\d+)\b`),
	regexp.MustCompile(`(?i)\b(\d+)\s*(?:ka|ki)\s+(?:table|pahada)\b`),
	regexp.MustCompile(`(?i)\bpahada\s+(?:of\s+)?(\d+)\b`),
	regexp.MustCompile(`(\d+)\s*का\s*(?:पहाड़ा|टेबल)`),
}

func parseTableRequest(query string) (int, bool) {
	for _, re := range tableRes {
		if m := re.FindStringSubmatch(query); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

func multiplicationTable(n, upTo int) string {
	lines := make([]string, 0, upTo)
	for i := 1; i <= upTo; i++ {
		lines = append(lines, fmt.Sprintf("%d x %d = %d", n, i, n*i))
	}
	return strings.Join(lines, "\n")
}

// --- previous-message word count ---

var wordsJustSentRe = regexp.MustCompile(`(?i)\bhow many words (?:did|have) i (?:just )?(?:send|sent|type|typed|write|written)\b|\bmaine kitne shabd bheje\b|मैंने कितने शब्द भेजे`)

var chatWordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// wordsJustSent counts the second-to-last user message: the last one is
// the current utterance, appended before dispatch.
func (e *Engine) wordsJustSent(query string, cctx *Context) Response {
	var userMsgs []Message
	for _, m := range cctx.History {
		if m.Role == RoleUser {
			userMsgs = append(userMsgs, m)
		}
	}
	if len(userMsgs) < 2 {
		return e.styled(
			"I don't see a previous message from you in this conversation yet.",
			query, ConfidenceLow, "")
	}
	prev := userMsgs[len(userMsgs)-2]
	n := len(chatWordRe.FindAllString(prev.Content, -1))
	return e.styled(fmt.Sprintf("Your previous message had %d word(s).", n), query, ConfidenceHigh, "")
}

// --- learning state machine ---

func (e *Engine) handleLearning(query string, cctx *Context) (Response, bool) {
	if cctx.Learning != nil {
		return e.continueLearning(query, cctx), true
	}

	intent := learning.DetectIntent(query)
	switch intent.Intent {
	case learning.IntentTeachNew:
		return e.startTeaching(query, cctx), true
	case learning.IntentImproveExisting:
		return e.startImproving(query, cctx), true
	}

	// A bare "Question: ... Answer: ..." message is a teach even without
	// a teach phrase; the don't-know prompt tells users to send exactly
	// that.
	if q, a, ok := learning.ParseTeachingInput(query); ok {
		return e.executeLearn(q, a, query, cctx), true
	}
	return Response{}, false
}

func (e *Engine) startTeaching(query string, cctx *Context) Response {
	if q, a, ok := learning.ParseTeachingInput(query); ok {
		return e.executeLearn(q, a, query, cctx)
	}
	cctx.Learning = &LearningState{Stage: StageQuestionAnswer}
	return e.styled(
		"Great, teach me! Send it as: "+teachFormatHint,
		query, ConfidenceHigh, "")
}

func (e *Engine) startImproving(query string, cctx *Context) Response {
	similar, err := e.base.FindSimilar(query)
	if err != nil {
		return e.internalError(err, query)
	}
	if len(similar) == 0 {
		return e.styled(
			"Which answer should I improve? Ask the question first, then tell me what's wrong.",
			query, ConfidenceLow, "")
	}
	top := similar[0]
	cctx.Learning = &LearningState{Stage: StageConfirmation, RelatedEntryID: top.Entry.ID}
	return e.styled(
		fmt.Sprintf("Do you mean this one: %q? Reply yes to improve it.", top.Entry.Question),
		query, ConfidenceHigh, top.Entry.ID)
}

func (e *Engine) continueLearning(query string, cctx *Context) Response {
	state := cctx.Learning
	switch state.Stage {
	case StageQuestionAnswer:
		if learning.IsDenial(query) {
			cctx.Learning = nil
			return e.styled("Okay, cancelled.", query, ConfidenceHigh, "")
		}
		q, a, ok := learning.ParseTeachingInput(query)
		if !ok {
			return e.styled(
				"I couldn't read that. Please use the format: "+teachFormatHint,
				query, ConfidenceLow, "")
		}
		cctx.Learning = nil
		return e.executeLearn(q, a, query, cctx)

	case StageConfirmation:
		if !state.WaitingForAnswer {
			switch {
			case learning.IsConfirmation(query):
				cctx.Learning = &LearningState{
					Stage:            StageConfirmation,
					RelatedEntryID:   state.RelatedEntryID,
					WaitingForAnswer: true,
				}
				return e.styled("Great. Send me the improved answer.", query, ConfidenceHigh, state.RelatedEntryID)
			case learning.IsDenial(query):
				cctx.Learning = nil
				return e.styled("Okay, keeping the existing answer.", query, ConfidenceHigh, "")
			default:
				return e.styled("Please reply yes or no.", query, ConfidenceLow, "")
			}
		}
		// The whole message is the replacement answer.
		id := state.RelatedEntryID
		cctx.Learning = nil
		out, err := e.learner.Improve(id, query)
		if err != nil {
			return e.internalError(err, query)
		}
		if out.NotFound {
			return e.styled("I couldn't find that entry anymore, sorry.", query, ConfidenceLow, "")
		}
		return e.styled("Updated! I'll use the new answer from now on.", query, ConfidenceHigh, out.Entry.ID)
	}

	// Unknown stage: drop the state rather than loop forever.
	cctx.Learning = nil
	return e.styled("Let's start over. "+teachFormatHint, query, ConfidenceLow, "")
}

func (e *Engine) executeLearn(q, a, query string, cctx *Context) Response {
	out, err := e.learner.LearnNew(q, a)
	if err != nil {
		return e.internalError(err, query)
	}
	if out.HasSimilar {
		top := out.Similar[0]
		cctx.Learning = &LearningState{Stage: StageConfirmation, RelatedEntryID: top.Entry.ID}
		return e.styled(
			fmt.Sprintf("I already know something similar: %q. Should I improve that answer instead? Reply yes or no.", top.Entry.Question),
			query, ConfidenceHigh, top.Entry.ID)
	}
	return e.styled(
		fmt.Sprintf("Got it! I've learned the answer to %q.", out.Entry.Question),
		query, ConfidenceHigh, out.Entry.ID)
}

// --- knowledge fallback ---

const dontKnowReply = "I don't know the answer to that yet. Teach me? Send: " + teachFormatHint

func (e *Engine) knowledgeFallback(query string, cctx *Context) Response {
	hit, err := e.base.BestMatch(query)
	if err != nil {
		return e.internalError(err, query)
	}
	if hit == nil {
		return e.styled(dontKnowReply, query, ConfidenceNone, "")
	}
	conf := ConfidenceLow
	if hit.Relevance == knowledge.RelevanceHigh {
		conf = ConfidenceHigh
	}
	return e.styled(hit.Entry.Answer, query, conf, hit.Entry.ID)
}

func (e *Engine) internalError(err error, query string) Response {
	e.log.Error("query processing failed", zap.Error(err), zap.String("query", query))
	return Response{
		Answer:     "Something went wrong on my side. Please try again.",
		Confidence: ConfidenceNone,
	}
}
