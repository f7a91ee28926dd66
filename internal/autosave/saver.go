package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matheus3301/localchat/internal/conversation"
	"go.uber.org/zap"
)

// Persister writes the signed-in profile. *conversation.Store implements it.
type Persister interface {
	PersistActive() error
}

// Saver periodically re-persists the signed-in profile. Saves are best
// effort; failures are only logged.
type Saver struct {
	store    Persister
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSaver creates a saver ticking every interval.
func NewSaver(store Persister, interval time.Duration, logger *zap.Logger) *Saver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saver{
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the save loop. Calling Start twice is a no-op.
func (s *Saver) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)
}

// Stop stops the loop and waits for a save in progress to finish.
func (s *Saver) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *Saver) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SaveNow()
		case <-ctx.Done():
			return
		}
	}
}

// SaveNow persists once. Being signed out is not an error.
func (s *Saver) SaveNow() {
	err := s.store.PersistActive()
	switch {
	case err == nil:
		s.logger.Debug("autosave complete")
	case errors.Is(err, conversation.ErrNotLoaded):
	default:
		s.logger.Error("autosave failed", zap.Error(err))
	}
}
