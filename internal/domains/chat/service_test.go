package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Kapitar/aiatl-micdrop/internal/types"
	"github.com/Kapitar/aiatl-micdrop/pkg/Logger"
)

type fakeReplier struct {
	reply string
	err   error
	turns []types.Turn
}

func (f *fakeReplier) Reply(_ context.Context, turns []types.Turn) (string, error) {
	f.turns = turns
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

var testFeedback = json.RawMessage(`{"overall_feedback": {"effectiveness_score": 71}}`)

func newChatService(gen ReplyGenerator) (Service, Store) {
	store := NewMemoryStore()
	return New(store, gen, Logger.New(true)), store
}

func TestStartConversationDistinctIDs(t *testing.T) {
	svc, _ := newChatService(&fakeReplier{reply: "ok"})

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := svc.StartConversation(context.Background(), testFeedback)
		if err != nil {
			t.Fatalf("start conversation: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate conversation id %s", id)
		}
		seen[id] = true
	}
}

func TestStartConversationRejectsInvalidJSON(t *testing.T) {
	svc, _ := newChatService(&fakeReplier{reply: "ok"})

	if _, err := svc.StartConversation(context.Background(), json.RawMessage(`{broken`)); err == nil {
		t.Fatal("expected error for invalid feedback JSON")
	}
	if _, err := svc.StartConversation(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty feedback")
	}
}

func TestSendMessageUnknownSession(t *testing.T) {
	gen := &fakeReplier{reply: "ok"}
	svc, _ := newChatService(gen)

	_, err := svc.SendMessage(context.Background(), "no-such-id", "how did I do?")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if gen.turns != nil {
		t.Error("generator must not be called for an unknown session")
	}
}

func TestSendMessageUnknownSessionLeavesNoLockBehind(t *testing.T) {
	svc, _ := newChatService(&fakeReplier{reply: "ok"})
	s := svc.(*service)

	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("bogus-%d", i)
		if _, err := svc.SendMessage(context.Background(), id, "hi"); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("send %d: expected ErrSessionNotFound, got %v", i, err)
		}
	}

	s.mu.Lock()
	n := len(s.locks)
	s.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected no retained locks for unknown sessions, got %d", n)
	}
}

func TestSendMessageAppendsExactlyTwoTurns(t *testing.T) {
	gen := &fakeReplier{reply: "Your effectiveness score is 71."}
	svc, store := newChatService(gen)

	id, err := svc.StartConversation(context.Background(), testFeedback)
	if err != nil {
		t.Fatalf("start conversation: %v", err)
	}

	reply, err := svc.SendMessage(context.Background(), id, "What was my score?")
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if reply != gen.reply {
		t.Errorf("unexpected reply %q", reply)
	}

	sess, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(sess.History) != 2 {
		t.Fatalf("expected history of 2 turns, got %d", len(sess.History))
	}
	if sess.History[0].Role != types.RoleUser || sess.History[1].Role != types.RoleModel {
		t.Errorf("unexpected roles %s/%s", sess.History[0].Role, sess.History[1].Role)
	}
	if !strings.Contains(sess.History[0].Text, "What was my score?") {
		t.Error("user turn must embed the question")
	}
	if !strings.Contains(sess.History[0].Text, string(testFeedback)) {
		t.Error("user turn must embed the grounding feedback verbatim")
	}
}

func TestSendMessageFailureLeavesHistoryUntouched(t *testing.T) {
	gen := &fakeReplier{err: errors.New("vendor unavailable")}
	svc, store := newChatService(gen)

	id, _ := svc.StartConversation(context.Background(), testFeedback)
	if _, err := svc.SendMessage(context.Background(), id, "Q1"); err == nil {
		t.Fatal("expected generation error to propagate")
	}

	sess, _ := store.Get(context.Background(), id)
	if len(sess.History) != 0 {
		t.Fatalf("history must be unchanged on failure, got %d turns", len(sess.History))
	}
}

func TestSendMessagePreambleOnlyOnFreshSession(t *testing.T) {
	gen := &fakeReplier{reply: "answer"}
	svc, _ := newChatService(gen)

	id, _ := svc.StartConversation(context.Background(), testFeedback)

	if _, err := svc.SendMessage(context.Background(), id, "Q1"); err != nil {
		t.Fatalf("first send: %v", err)
	}
	// preamble + ack + new user turn
	if len(gen.turns) != 3 {
		t.Fatalf("expected 3 turns on first send, got %d", len(gen.turns))
	}

	if _, err := svc.SendMessage(context.Background(), id, "Q2"); err != nil {
		t.Fatalf("second send: %v", err)
	}
	// prior two history turns + new user turn, no repeated preamble
	if len(gen.turns) != 3 {
		t.Fatalf("expected 3 turns on second send, got %d", len(gen.turns))
	}
	if strings.Contains(gen.turns[0].Text, "feedback_json follows the schema") {
		t.Error("preamble must not be resent once history exists")
	}
}

func TestSendMessageHistoryGrowsAcrossTurns(t *testing.T) {
	gen := &fakeReplier{reply: "answer"}
	svc, store := newChatService(gen)

	id, _ := svc.StartConversation(context.Background(), testFeedback)
	for i := 0; i < 3; i++ {
		if _, err := svc.SendMessage(context.Background(), id, "question"); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	sess, _ := store.Get(context.Background(), id)
	if len(sess.History) != 6 {
		t.Fatalf("expected 6 turns after 3 sends, got %d", len(sess.History))
	}
}
