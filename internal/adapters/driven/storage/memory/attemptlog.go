package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
)

// Ensure AttemptLog implements the interface.
var _ driven.AttemptLog = (*AttemptLog)(nil)

// AttemptLog is an in-memory implementation of driven.AttemptLog.
type AttemptLog struct {
	mu       sync.RWMutex
	attempts []domain.ResolutionAttempt
}

// NewAttemptLog creates a new in-memory attempt log.
func NewAttemptLog() *AttemptLog {
	return &AttemptLog{}
}

// Record appends one attempt.
func (l *AttemptLog) Record(_ context.Context, attempt domain.ResolutionAttempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = append(l.attempts, attempt)
	return nil
}

// ListFailures returns failed attempts, newest first.
func (l *AttemptLog) ListFailures(_ context.Context, limit int) ([]domain.ResolutionAttempt, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var failures []domain.ResolutionAttempt
	for i := len(l.attempts) - 1; i >= 0; i-- {
		if l.attempts[i].Outcome != domain.AttemptFailed {
			continue
		}
		failures = append(failures, l.attempts[i])
		if limit > 0 && len(failures) == limit {
			break
		}
	}
	return failures, nil
}

// All returns every recorded attempt in insertion order.
func (l *AttemptLog) All() []domain.ResolutionAttempt {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.ResolutionAttempt(nil), l.attempts...)
}
