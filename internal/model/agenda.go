package model

import "fmt"

// DefaultMinutes is the duration a freshly added agenda row starts with.
const DefaultMinutes = 1

// AgendaItem is one topic of the meeting agenda and its planned duration.
type AgendaItem struct {
	Topic   string `json:"topic" yaml:"topic"`
	Minutes int    `json:"minutes" yaml:"minutes"`
	Seconds int    `json:"seconds" yaml:"seconds"`
}

// NewAgendaItem returns an item with clamped duration fields.
func NewAgendaItem(topic string, minutes, seconds int) AgendaItem {
	it := AgendaItem{Topic: topic}
	it.SetMinutes(minutes)
	it.SetSeconds(seconds)
	return it
}

// SetMinutes stores n floored at zero.
func (a *AgendaItem) SetMinutes(n int) {
	if n < 0 {
		n = 0
	}
	a.Minutes = n
}

// SetSeconds stores n clamped to [0,59].
func (a *AgendaItem) SetSeconds(n int) {
	switch {
	case n < 0:
		n = 0
	case n > 59:
		n = 59
	}
	a.Seconds = n
}

// Normalize re-applies the field clamps, e.g. after decoding untrusted input.
func (a *AgendaItem) Normalize() {
	a.SetMinutes(a.Minutes)
	a.SetSeconds(a.Seconds)
}

func (a AgendaItem) TotalSeconds() int { return a.Minutes*60 + a.Seconds }

// Entry is what a countdown timer is generated from.
type Entry struct {
	Topic   string
	Seconds int
}

func (a AgendaItem) Entry() Entry { return Entry{Topic: a.Topic, Seconds: a.TotalSeconds()} }

// Clock formats a number of seconds as m:ss.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
