package domain

import "time"

// WindowLength is the span of a contribution window.
const WindowLength = 365 * 24 * time.Hour

// Window is a half-open time range [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// TrailingYear returns the contribution window ending at now, in UTC.
func TrailingYear(now time.Time) Window {
	to := now.UTC()
	return Window{
		From: to.Add(-WindowLength),
		To:   to,
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}
