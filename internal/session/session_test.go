package session

import (
	"testing"

	"github.com/ccraze049/ai/internal/chat"
)

func TestGetPutReset(t *testing.T) {
	m := NewManager()

	a := m.Get("a")
	if a.SessionID != "a" || len(a.History) != 0 {
		t.Fatalf("fresh context wrong: %+v", a)
	}

	a.History = append(a.History, chat.Message{Role: chat.RoleUser, Content: "hello"})
	m.Put(a)

	b := m.Get("b")
	if len(b.History) != 0 {
		t.Fatal("sessions leaked across ids")
	}

	got := m.Get("a")
	if len(got.History) != 1 || got.History[0].Content != "hello" {
		t.Fatalf("round trip lost history: %+v", got.History)
	}

	m.Reset("a")
	if len(m.Get("a").History) != 0 {
		t.Fatal("reset did not clear the session")
	}
}

func TestCopiesOnTheWayOut(t *testing.T) {
	m := NewManager()
	cctx := chat.Context{SessionID: "a"}
	cctx.History = append(cctx.History, chat.Message{Role: chat.RoleUser, Content: "one"})
	m.Put(cctx)

	got := m.Get("a")
	got.History[0].Content = "mutated"

	again := m.Get("a")
	if again.History[0].Content != "one" {
		t.Fatal("caller mutation reached the store")
	}
}

func TestPutIgnoresEmptyID(t *testing.T) {
	m := NewManager()
	m.Put(chat.Context{})
	if m.Len() != 0 {
		t.Fatal("empty session id should not be stored")
	}
}
