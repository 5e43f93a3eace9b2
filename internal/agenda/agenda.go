// Package agenda is the ordered list of topics timers are generated from.
package agenda

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/idilsaglam/agenda/internal/model"
	"github.com/idilsaglam/agenda/internal/store"
)

var (
	ErrIndexOutOfRange = errors.New("agenda: index out of range")
	ErrEmptyTopic      = errors.New("agenda: empty topic")
)

// Recorder receives a line for every agenda edit; history.Log satisfies it.
type Recorder interface {
	Append(action string) error
}

// Book holds the agenda in memory and overwrites the persisted document on
// every mutation.
type Book struct {
	store  store.Store
	rec    Recorder
	logger *slog.Logger
	items  []model.AgendaItem
}

// Open loads the persisted agenda. Missing or malformed documents start empty.
func Open(s store.Store, rec Recorder, logger *slog.Logger) (*Book, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Book{store: s, rec: rec, logger: logger}
	if err := b.Reload(); err != nil {
		return nil, err
	}
	return b, nil
}

// Reload replaces the in-memory list with the persisted one.
func (b *Book) Reload() error {
	var items []model.AgendaItem
	err := b.store.Load(store.AgendaKey, &items)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		items = nil
	case errors.Is(err, store.ErrCorrupt):
		b.logger.Warn("discarding malformed agenda", "err", err)
		items = nil
	default:
		return fmt.Errorf("load agenda: %w", err)
	}
	for i := range items {
		items[i].Normalize()
	}
	b.items = items
	return nil
}

func (b *Book) Items() []model.AgendaItem {
	out := make([]model.AgendaItem, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Book) Len() int { return len(b.items) }

// TotalSeconds is the planned length of the whole meeting.
func (b *Book) TotalSeconds() int {
	total := 0
	for _, it := range b.items {
		total += it.TotalSeconds()
	}
	return total
}

// Entries is the (topic, seconds) snapshot timers are generated from.
func (b *Book) Entries() []model.Entry {
	out := make([]model.Entry, 0, len(b.items))
	for _, it := range b.items {
		out = append(out, it.Entry())
	}
	return out
}

func (b *Book) Add(topic string, minutes, seconds int) (model.AgendaItem, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return model.AgendaItem{}, ErrEmptyTopic
	}
	b.refresh()
	it := model.NewAgendaItem(topic, minutes, seconds)
	return it, b.insert(len(b.items), it)
}

// Insert places it at index i (0..Len).
func (b *Book) Insert(i int, it model.AgendaItem) error {
	b.refresh()
	return b.insert(i, it)
}

func (b *Book) insert(i int, it model.AgendaItem) error {
	if i < 0 || i > len(b.items) {
		return b.rangeErr(i)
	}
	it.Normalize()
	next := make([]model.AgendaItem, 0, len(b.items)+1)
	next = append(next, b.items[:i]...)
	next = append(next, it)
	next = append(next, b.items[i:]...)
	if err := b.commit(next); err != nil {
		return err
	}
	b.record(fmt.Sprintf("Added topic %q (%s)", it.Topic, model.Clock(it.TotalSeconds())))
	return nil
}

// Update replaces the item at i; duration fields are clamped.
func (b *Book) Update(i int, it model.AgendaItem) error {
	b.refresh()
	if i < 0 || i >= len(b.items) {
		return b.rangeErr(i)
	}
	it.Topic = strings.TrimSpace(it.Topic)
	if it.Topic == "" {
		return ErrEmptyTopic
	}
	it.Normalize()
	next := b.Items()
	next[i] = it
	if err := b.commit(next); err != nil {
		return err
	}
	b.record(fmt.Sprintf("Updated topic %q (%s)", it.Topic, model.Clock(it.TotalSeconds())))
	return nil
}

func (b *Book) Remove(i int) (model.AgendaItem, error) {
	b.refresh()
	if i < 0 || i >= len(b.items) {
		return model.AgendaItem{}, b.rangeErr(i)
	}
	removed := b.items[i]
	next := make([]model.AgendaItem, 0, len(b.items)-1)
	next = append(next, b.items[:i]...)
	next = append(next, b.items[i+1:]...)
	if err := b.commit(next); err != nil {
		return model.AgendaItem{}, err
	}
	b.record(fmt.Sprintf("Removed topic %q", removed.Topic))
	return removed, nil
}

// Move relocates the item at from to position to.
func (b *Book) Move(from, to int) error {
	b.refresh()
	if from < 0 || from >= len(b.items) {
		return b.rangeErr(from)
	}
	if to < 0 || to >= len(b.items) {
		return b.rangeErr(to)
	}
	if from == to {
		return nil
	}
	next := b.Items()
	it := next[from]
	next = append(next[:from], next[from+1:]...)
	next = append(next[:to], append([]model.AgendaItem{it}, next[to:]...)...)
	return b.commit(next)
}

// Replace swaps the whole agenda, e.g. on import. Every topic must be
// non-blank; nothing is written otherwise.
func (b *Book) Replace(items []model.AgendaItem) error {
	next := make([]model.AgendaItem, 0, len(items))
	for i, it := range items {
		it.Topic = strings.TrimSpace(it.Topic)
		if it.Topic == "" {
			return fmt.Errorf("%w: item %d", ErrEmptyTopic, i+1)
		}
		it.Normalize()
		next = append(next, it)
	}
	if err := b.commit(next); err != nil {
		return err
	}
	b.record(fmt.Sprintf("Imported %d topics", len(next)))
	return nil
}

// refresh picks up writes made by other processes since the last load, so a
// mutation never overwrites them. A failed load keeps the in-memory list.
func (b *Book) refresh() {
	if err := b.Reload(); err != nil {
		b.logger.Warn("agenda refresh failed", "err", err)
	}
}

func (b *Book) commit(next []model.AgendaItem) error {
	if err := b.store.Save(store.AgendaKey, next); err != nil {
		return fmt.Errorf("save agenda: %w", err)
	}
	b.items = next
	return nil
}

func (b *Book) record(action string) {
	if b.rec == nil {
		return
	}
	if err := b.rec.Append(action); err != nil {
		b.logger.Warn("history append failed", "err", err)
	}
}

func (b *Book) rangeErr(i int) error {
	return fmt.Errorf("%w: have %d, got %d", ErrIndexOutOfRange, len(b.items), i+1)
}
