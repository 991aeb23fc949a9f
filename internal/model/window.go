package model

import (
	"fmt"
	"time"
)

// WindowStatus is the state of the voting window at a given instant.
type WindowStatus string

const (
	WindowNotSet     WindowStatus = "not_set"
	WindowNotStarted WindowStatus = "not_started"
	WindowOpen       WindowStatus = "open"
	WindowClosed     WindowStatus = "closed"
)

// Window is the admin-configured voting interval. Nil bounds mean "not configured".
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Configured reports whether both bounds are set.
func (w Window) Configured() bool { return w.Start != nil && w.End != nil }

// Status derives the window state at now. Both bounds are inclusive:
// only instants strictly after End are Closed.
func (w Window) Status(now time.Time) WindowStatus {
	switch {
	case !w.Configured():
		return WindowNotSet
	case now.Before(*w.Start):
		return WindowNotStarted
	case now.After(*w.End):
		return WindowClosed
	default:
		return WindowOpen
	}
}

// Describe returns a human readable message for status s.
func (w Window) Describe(s WindowStatus) string {
	switch s {
	case WindowNotStarted:
		return fmt.Sprintf("Voting has not started yet. It begins on %s.", w.Start.Format(time.RFC1123))
	case WindowClosed:
		return fmt.Sprintf("Voting has ended. It closed on %s.", w.End.Format(time.RFC1123))
	case WindowOpen:
		return "Voting is currently open!"
	default:
		return "Voting timings have not been set by the admin yet."
	}
}
