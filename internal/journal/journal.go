// Package journal persists assistant interactions off the request path.
// Entries go through a bounded channel to a small worker pool; enqueueing
// never blocks and write failures never reach the caller.
package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/internal/domain"
)

const writeTimeout = 5 * time.Second

// Entry is one interaction to persist.
type Entry struct {
	UserID    *uuid.UUID
	Utterance string
	Intent    domain.Intent
	Response  string
	Success   bool
	CreatedAt time.Time
}

// Writer persists entries. Satisfied by the interaction repository.
type Writer interface {
	Create(ctx context.Context, in *domain.Interaction) (*domain.Interaction, error)
}

// Journal is the asynchronous interaction logger.
type Journal struct {
	writer  Writer
	entries chan Entry
	wg      sync.WaitGroup
	log     *slog.Logger

	// mu guards closed and keeps Enqueue's channel send from racing the
	// close in Stop. Detached audio commands can outlive the server loop,
	// so late enqueues must degrade to a drop, not a panic.
	mu     sync.RWMutex
	closed bool
}

// New creates a Journal and starts its workers.
func New(writer Writer, buffer, workers int, logger *slog.Logger) *Journal {
	j := &Journal{
		writer:  writer,
		entries: make(chan Entry, buffer),
		log:     logger.With("component", "journal"),
	}

	for i := 0; i < workers; i++ {
		j.wg.Add(1)
		go j.worker()
	}

	return j
}

// Enqueue hands an entry to the workers. When the buffer is full the entry
// is dropped with a warning; the request is never delayed by history writes.
func (j *Journal) Enqueue(e Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		j.log.Warn("journal stopped, dropping entry",
			slog.String("intent", e.Intent.String()))
		return
	}

	select {
	case j.entries <- e:
	default:
		j.log.Warn("journal buffer full, dropping entry",
			slog.String("intent", e.Intent.String()))
	}
}

// Stop closes the intake and waits for the workers to drain the buffer.
// Entries enqueued after Stop are dropped.
func (j *Journal) Stop() {
	j.mu.Lock()
	if !j.closed {
		j.closed = true
		close(j.entries)
	}
	j.mu.Unlock()

	j.wg.Wait()
}

func (j *Journal) worker() {
	defer j.wg.Done()

	for e := range j.entries {
		j.write(e)
	}
}

// write persists one entry. Failures are logged and dropped, never retried.
func (j *Journal) write(e Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	rec := domain.Interaction{
		ID:        uuid.New(),
		UserID:    e.UserID,
		Utterance: e.Utterance,
		Intent:    e.Intent,
		Response:  e.Response,
		Success:   e.Success,
		CreatedAt: e.CreatedAt,
	}

	if _, err := j.writer.Create(ctx, &rec); err != nil {
		j.log.Error("journal write failed",
			slog.String("intent", e.Intent.String()),
			slog.String("error", err.Error()))
	}
}
