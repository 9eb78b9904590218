package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RefreshError reports that a mutation succeeded but the views built on it
// could not be reloaded
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("saved, but refreshing failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// Refresher reloads one view after a mutation
type Refresher func(ctx context.Context) error

// Submitter runs a mutation and then reloads every dependent view together.
// The submitting state lasts until all reloads settle, and a second Submit
// in the meantime is refused.
type Submitter struct {
	mu         sync.Mutex
	submitting bool
	refreshers []Refresher
}

// NewSubmitter creates a submitter that refreshes with refreshers
func NewSubmitter(refreshers ...Refresher) *Submitter {
	return &Submitter{refreshers: refreshers}
}

// Submitting reports whether a submission is in progress
func (s *Submitter) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Submit runs mutate, then awaits every refresher concurrently
func (s *Submitter) Submit(ctx context.Context, mutate func(ctx context.Context) error) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmissionInProgress
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if err := mutate(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, refresh := range s.refreshers {
		g.Go(func() error {
			return refresh(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return &RefreshError{Err: err}
	}
	return nil
}

// RefreshList adapts a list controller to a Refresher. A refetch that was
// itself superseded by a newer one still counts as refreshed.
func RefreshList[T any](list *ListController[T]) Refresher {
	return func(ctx context.Context) error {
		_, err := list.Fetch(ctx)
		if errors.Is(err, ErrSuperseded) {
			return nil
		}
		return err
	}
}
