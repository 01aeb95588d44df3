package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Kapitar/aiatl-micdrop/internal/types"
	"github.com/Kapitar/aiatl-micdrop/pkg/Logger"
)

// scriptedStore replays a fixed sequence of file states; the last
// state is sticky.
type scriptedStore struct {
	states      []types.FileState
	statusCalls int
	uploads     int
	deleted     []string
	uploadErr   error
}

func (s *scriptedStore) Upload(_ context.Context, _ io.Reader, mimeType string) (*types.RemoteFile, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.uploads++
	name := fmt.Sprintf("files/test-upload-%d", s.uploads)
	return &types.RemoteFile{
		Name:     name,
		URI:      "https://files.example/" + name,
		MIMEType: mimeType,
		State:    types.FileProcessing,
	}, nil
}

func (s *scriptedStore) Status(_ context.Context, name string) (*types.RemoteFile, error) {
	idx := s.statusCalls
	if idx >= len(s.states) {
		idx = len(s.states) - 1
	}
	s.statusCalls++
	return &types.RemoteFile{Name: name, State: s.states[idx]}, nil
}

func (s *scriptedStore) Delete(_ context.Context, name string) error {
	s.deleted = append(s.deleted, name)
	return nil
}

func newTestService(store MediaStore, gen FeedbackGenerator, timeout time.Duration) *service {
	return &service{
		store:        store,
		gen:          gen,
		logger:       Logger.New(true),
		fileTimeout:  timeout,
		pollInterval: time.Millisecond,
	}
}

func TestAwaitActiveEventuallyReady(t *testing.T) {
	store := &scriptedStore{states: []types.FileState{
		types.FileProcessing,
		types.FileProcessing,
		types.FileActive,
	}}
	s := newTestService(store, nil, time.Second)

	if err := s.awaitActive(context.Background(), "files/x"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if store.statusCalls != 3 {
		t.Errorf("expected 3 status queries, got %d", store.statusCalls)
	}
}

func TestAwaitActiveFailedState(t *testing.T) {
	store := &scriptedStore{states: []types.FileState{types.FileFailed}}
	s := newTestService(store, nil, time.Second)

	err := s.awaitActive(context.Background(), "files/x")
	if !errors.Is(err, ErrFileProcessing) {
		t.Fatalf("expected ErrFileProcessing, got %v", err)
	}
	if store.statusCalls != 1 {
		t.Errorf("expected failure on first query, got %d queries", store.statusCalls)
	}
}

func TestAwaitActiveTimeout(t *testing.T) {
	store := &scriptedStore{states: []types.FileState{types.FileProcessing}}
	s := newTestService(store, nil, 10*time.Millisecond)

	err := s.awaitActive(context.Background(), "files/x")
	if !errors.Is(err, ErrProcessingTimeout) {
		t.Fatalf("expected ErrProcessingTimeout, got %v", err)
	}
	if errors.Is(err, ErrFileProcessing) {
		t.Error("timeout must be distinct from a processing failure")
	}
}

func TestAwaitActiveContextCancelled(t *testing.T) {
	store := &scriptedStore{states: []types.FileState{types.FileProcessing}}
	s := newTestService(store, nil, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.awaitActive(ctx, "files/x"); err == nil {
		t.Fatal("expected error after context cancellation")
	}
}
