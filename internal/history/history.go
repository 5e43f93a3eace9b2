// Package history keeps the capped, newest-first action log shared by every
// timer and by agenda edits.
package history

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/idilsaglam/agenda/internal/model"
	"github.com/idilsaglam/agenda/internal/store"
)

// MaxEntries is the capacity of the log.
const MaxEntries = 25

// Log is not safe for concurrent use; it lives on the UI event loop.
type Log struct {
	store   store.Store
	now     func() time.Time
	logger  *slog.Logger
	entries []model.HistoryEntry
}

type Option func(*Log)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) { l.logger = logger }
}

// Open loads the persisted log. A missing document yields an empty log; a
// malformed one is discarded with a warning.
func Open(s store.Store, opts ...Option) (*Log, error) {
	l := &Log{store: s, now: time.Now, logger: slog.Default()}
	for _, o := range opts {
		o(l)
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload replaces the in-memory entries with the persisted list.
func (l *Log) Reload() error {
	var entries []model.HistoryEntry
	err := l.store.Load(store.HistoryKey, &entries)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		entries = nil
	case errors.Is(err, store.ErrCorrupt):
		l.logger.Warn("discarding malformed history", "err", err)
		entries = nil
	default:
		return fmt.Errorf("load history: %w", err)
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	l.entries = entries
	return nil
}

// Append prepends a timestamped entry, drops whatever falls beyond
// MaxEntries and persists the resulting list. The persisted list is re-read
// first so entries written by another process survive.
func (l *Log) Append(action string) error {
	if err := l.Reload(); err != nil {
		l.logger.Warn("history refresh failed", "err", err)
	}
	e := model.HistoryEntry{
		Timestamp: l.now().Format(model.TimestampLayout),
		Action:    action,
	}
	next := make([]model.HistoryEntry, 0, min(len(l.entries)+1, MaxEntries))
	next = append(next, e)
	next = append(next, l.entries...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	l.entries = next

	if err := l.store.Save(store.HistoryKey, l.entries); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Clear empties the log and removes its persisted copy.
func (l *Log) Clear() error {
	l.entries = nil
	if err := l.store.Clear(store.HistoryKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Entries returns a copy, newest first.
func (l *Log) Entries() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int { return len(l.entries) }
