// Package activity records the audit trail of user and system actions.
//
// Record never blocks and never fails from the caller's point of view:
// entries go through a bounded buffer to a background writer, and storage
// problems are only logged locally.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"geoMaster/internal/logging"
	"geoMaster/internal/metrics"
	"geoMaster/models"
	"geoMaster/repository"
)

// DefaultBufferSize is used when NewWriter is given a non-positive size.
const DefaultBufferSize = 1024

// DefaultRecentLimit bounds Recent when no limit is given.
const DefaultRecentLimit = 100

// Recorder is the write side used by services.
type Recorder interface {
	Record(action models.Action, username string, details map[string]any)
}

// Writer is a suture.Service that persists recorded entries.
type Writer struct {
	store   repository.ActivityRepositoryI
	entries chan models.ActivityEntry
	log     zerolog.Logger
	now     func() time.Time
}

// NewWriter creates a writer over store. Run Serve to start persisting.
func NewWriter(store repository.ActivityRepositoryI, bufferSize int) *Writer {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Writer{
		store:   store,
		entries: make(chan models.ActivityEntry, bufferSize),
		log:     logging.With("activity"),
		now:     time.Now,
	}
}

// Record queues an entry stamped with the current time. When the buffer is
// full the entry is dropped and a warning logged.
func (w *Writer) Record(action models.Action, username string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	e := models.ActivityEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Username:  username,
		Timestamp: w.now().UTC(),
		Details:   details,
	}
	select {
	case w.entries <- e:
	default:
		metrics.ActivityEntries.WithLabelValues("dropped").Inc()
		w.log.Warn().Str("action", string(action)).Str("user", username).Msg("activity buffer full, dropping entry")
	}
}

// Recent returns up to limit entries, newest first.
func (w *Writer) Recent(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return w.store.Recent(ctx, limit)
}

// Serve drains the buffer until ctx is cancelled, then flushes what is left.
func (w *Writer) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case e := <-w.entries:
					w.write(e)
				default:
					return ctx.Err()
				}
			}
		case e := <-w.entries:
			w.write(e)
		}
	}
}

func (w *Writer) String() string { return "activity-writer" }

func (w *Writer) write(e models.ActivityEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.store.Append(ctx, e); err != nil {
		metrics.ActivityEntries.WithLabelValues("failed").Inc()
		w.log.Error().Err(err).Str("action", string(e.Action)).Str("user", e.Username).Msg("save activity entry")
		return
	}
	metrics.ActivityEntries.WithLabelValues("written").Inc()
}
