package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kapitar/aiatl-micdrop/internal/types"
)

var (
	// ErrProcessingTimeout: the remote file never became ready within
	// the deadline. Distinct from an explicit processing failure so
	// callers can judge retry-worthiness.
	ErrProcessingTimeout = errors.New("media processing timed out")
	// ErrFileProcessing: the vendor reported a FAILED state.
	ErrFileProcessing = errors.New("vendor failed to process media")
)

// awaitActive polls a just-uploaded remote file until it becomes
// usable. The vendor's media pipeline is asynchronous and offers no
// push notification, so a fixed-interval poll is the only way to
// observe completion. The wait suspends on a timer, it never spins.
func (s *service) awaitActive(ctx context.Context, name string) error {
	deadline := time.Now().Add(s.fileTimeout)
	for {
		f, err := s.store.Status(ctx, name)
		if err != nil {
			return fmt.Errorf("querying file state: %w", err)
		}

		switch f.State {
		case types.FileActive:
			s.logger.Infof("file %s is now ACTIVE", name)
			return nil
		case types.FileFailed:
			return fmt.Errorf("%w: file %s", ErrFileProcessing, name)
		}

		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: file %s not ACTIVE within %s", ErrProcessingTimeout, name, s.fileTimeout)
		}

		s.logger.Infof("file %s state: %s, waiting...", name, f.State)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}
