package chat

import (
	"time"

	"github.com/ccraze049/ai/internal/language"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the conversation log.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Language  string    `json:"language,omitempty"`
}

// LearningStage tags the multi-turn teach/improve sub-conversation.
type LearningStage string

const (
	// StageQuestionAnswer awaits a "Question: ... Answer: ..." message.
	StageQuestionAnswer LearningStage = "question_answer"
	// StageConfirmation awaits yes/no about improving an existing entry;
	// once confirmed, WaitingForAnswer flips and the next message is the
	// replacement answer.
	StageConfirmation LearningStage = "confirmation"
)

// LearningState is a closed variant: Stage selects which fields apply.
// RelatedEntryID and WaitingForAnswer are meaningful only for
// StageConfirmation.
type LearningState struct {
	Stage            LearningStage `json:"stage"`
	RelatedEntryID   string        `json:"relatedEntryId,omitempty"`
	WaitingForAnswer bool          `json:"waitingForAnswer,omitempty"`
}

// Context is owned by the caller across turns. The engine treats it as
// input and returns an updated copy; it never retains one.
type Context struct {
	History   []Message      `json:"conversationHistory,omitempty"`
	Learning  *LearningState `json:"awaitingLearningInput,omitempty"`
	SessionID string         `json:"sessionId,omitempty"`
	// DatasetText is inline text supplied by the caller for analytics
	// commands; it outranks the command-phrase remainder as the operand.
	DatasetText string `json:"datasetText,omitempty"`
}

// Confidence of a reply.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
	ConfidenceNone Confidence = "none"
)

// Response is the engine's terminal result for one utterance. Language is
// informational for the caller/UI and never affects dispatch.
type Response struct {
	Answer     string          `json:"answer"`
	Confidence Confidence      `json:"confidence"`
	EntryID    string          `json:"entryId,omitempty"`
	Language   language.Result `json:"language"`
	Context    Context         `json:"context"`
}

// Clone returns a deep-enough copy so the engine never mutates the
// caller's Context.
func (c Context) Clone() Context {
	out := c
	out.History = make([]Message, len(c.History))
	copy(out.History, c.History)
	if c.Learning != nil {
		st := *c.Learning
		out.Learning = &st
	}
	return out
}
