package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Kapitar/aiatl-micdrop/internal/constants/prompts"
	"github.com/Kapitar/aiatl-micdrop/internal/types"
	"github.com/Kapitar/aiatl-micdrop/pkg/Logger"
)

var ErrSessionNotFound = errors.New("conversation not found")

// ReplyGenerator replays a transcript and produces the next model turn.
type ReplyGenerator interface {
	Reply(ctx context.Context, turns []types.Turn) (string, error)
}

type Service interface {
	// StartConversation stores the feedback a new session is grounded
	// in and returns its id.
	StartConversation(ctx context.Context, feedback json.RawMessage) (string, error)
	// SendMessage answers a follow-up question from the stored
	// feedback, replaying the full prior history. On success the user
	// turn and the reply are appended to the history; on failure the
	// history is left untouched.
	SendMessage(ctx context.Context, sessionID, message string) (string, error)
}

type service struct {
	store  Store
	gen    ReplyGenerator
	logger *Logger.Logger

	// sends on the same session are serialized so two concurrent
	// questions can't interleave their history appends
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(store Store, gen ReplyGenerator, logger *Logger.Logger) Service {
	return &service{
		store:  store,
		gen:    gen,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// StartConversation implements Service.
func (s *service) StartConversation(ctx context.Context, feedback json.RawMessage) (string, error) {
	if len(feedback) == 0 || !json.Valid(feedback) {
		return "", fmt.Errorf("feedback must be a valid JSON document")
	}

	id := uuid.NewString()
	if err := s.store.Put(ctx, &Session{ID: id, Feedback: feedback}); err != nil {
		return "", err
	}
	s.logger.Infof("started conversation %s", id)
	return id, nil
}

// SendMessage implements Service.
func (s *service) SendMessage(ctx context.Context, sessionID, message string) (string, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		// unknown ids must not leave a lock entry behind, or probing
		// random ids would grow the map forever
		if errors.Is(err, ErrSessionNotFound) {
			s.dropSessionLock(sessionID)
		}
		return "", err
	}

	turns := make([]types.Turn, 0, len(sess.History)+3)
	// the grounding preamble goes out once, at the start of a fresh
	// session; afterwards only the history is replayed
	if len(sess.History) == 0 {
		turns = append(turns,
			types.Turn{Role: types.RoleUser, Text: prompts.ChatSystemInstruction},
			types.Turn{Role: types.RoleModel, Text: prompts.ChatAcknowledgement},
		)
	}
	turns = append(turns, sess.History...)

	userTurn := types.Turn{
		Role: types.RoleUser,
		Text: prompts.BuildChatTurn(string(sess.Feedback), message),
	}
	turns = append(turns, userTurn)

	reply, err := s.gen.Reply(ctx, turns)
	if err != nil {
		s.logger.Errorf("chat error for session %s: %v", sessionID, err)
		return "", err
	}

	modelTurn := types.Turn{Role: types.RoleModel, Text: reply}
	if err := s.store.Append(ctx, sessionID, userTurn, modelTurn); err != nil {
		return "", err
	}
	return reply, nil
}

func (s *service) sessionLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *service) dropSessionLock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, id)
}
