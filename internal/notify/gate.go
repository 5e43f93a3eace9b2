package notify

import (
	"fmt"
	"strings"
)

// Modes accepted by ParseMode.
const (
	ModeAsk    = "ask"
	ModeAlways = "always"
	ModeNever  = "never"
)

// ParseMode maps a configured notification mode to the initial permission.
func ParseMode(mode string) (Permission, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeAsk:
		return Undecided, nil
	case ModeAlways:
		return Granted, nil
	case ModeNever:
		return Denied, nil
	}
	return Undecided, fmt.Errorf("unknown notification mode %q (want ask, always or never)", mode)
}

// Gate tracks the session's notification permission. It asks at most once;
// whatever the answer, it is never asked again in the same session.
type Gate struct {
	perm  Permission
	asked bool
}

func NewGate(initial Permission) *Gate {
	return &Gate{perm: initial}
}

func (g *Gate) Permission() Permission { return g.perm }

// NeedsPrompt reports whether the UI should ask the user.
func (g *Gate) NeedsPrompt() bool { return g.perm == Undecided && !g.asked }

// Resolve records the user's answer. It is ignored unless a prompt is due.
func (g *Gate) Resolve(granted bool) Permission {
	if !g.NeedsPrompt() {
		return g.perm
	}
	g.asked = true
	if granted {
		g.perm = Granted
	} else {
		g.perm = Denied
	}
	return g.perm
}

// Dismiss closes the prompt without a decision; permission stays undecided
// for the rest of the session.
func (g *Gate) Dismiss() { g.asked = true }
