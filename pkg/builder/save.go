package builder

import (
	"context"
	"log/slog"
	"time"

	"github.com/formlane/formlane/pkg/models"
)

// DefaultAutosaveInterval matches the authoring surface's fixed timer.
const DefaultAutosaveInterval = 30 * time.Second

// Saver persists a form document and hands back the stored copy with its
// assigned ids. Each save cycle creates a new document; the session records
// the returned ids.
type Saver interface {
	CreateForm(ctx context.Context, form *models.Form) (*models.Form, error)
}

// Save serializes the current document and persists it through the Saver,
// then records the returned form and share ids. Saves are serialized behind
// a per-session guard, so an auto-save response can never override the ids
// recorded by a later explicit save.
func (s *Session) Save(ctx context.Context) (*models.Form, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	return s.save(ctx)
}

// trySave runs a save unless another one is already in flight, in which
// case it is skipped entirely. Used by the auto-save timer.
func (s *Session) trySave(ctx context.Context) (*models.Form, error) {
	if !s.saveMu.TryLock() {
		return nil, nil
	}
	defer s.saveMu.Unlock()

	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) (*models.Form, error) {
	snapshot := s.Snapshot()

	created, err := s.saver.CreateForm(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.formID = created.ID
	s.shareID = created.ShareID
	s.mu.Unlock()

	return created, nil
}

// StartAutosave persists the document every interval while any step is
// non-empty, until StopAutosave is called or the context is cancelled.
// A save failure is logged and the timer keeps running; the in-memory
// document is never touched by a failed save.
func (s *Session) StartAutosave(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}

	s.mu.Lock()
	if s.autosaveStop != nil {
		s.mu.Unlock()

		return
	}

	stop := make(chan struct{})
	s.autosaveStop = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				dirty := s.hasContent()
				s.mu.Unlock()

				if !dirty {
					continue
				}

				if _, err := s.trySave(ctx); err != nil {
					logger.ErrorContext(ctx, "Auto-save failed",
						"session_id", s.id, "error", err)
				}
			}
		}
	}()
}

// StopAutosave cancels the auto-save timer; it never fires again.
func (s *Session) StopAutosave() {
	s.autosaveOnce.Do(func() {
		s.mu.Lock()
		stop := s.autosaveStop
		s.mu.Unlock()

		if stop != nil {
			close(stop)
		}
	})
}
