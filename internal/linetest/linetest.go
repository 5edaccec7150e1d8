// internal/linetest/linetest.go

// Package linetest provides a software digital line for host tests.
package linetest

import "sync"

// Line is a wire that can be both driven and read. Every Set is recorded so
// tests can assert on the exact pulse sequence.
type Line struct {
	mu      sync.Mutex
	level   bool
	history []bool
	onSet   func(bool)
}

// New returns a low line.
func New() *Line { return &Line{} }

// Set drives the line and records the new level.
func (l *Line) Set(high bool) {
	l.mu.Lock()
	l.level = high
	l.history = append(l.history, high)
	fn := l.onSet
	l.mu.Unlock()
	if fn != nil {
		fn(high)
	}
}

// Get reads the current level.
func (l *Line) Get() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// History returns a copy of every level written so far.
func (l *Line) History() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]bool(nil), l.history...)
}

// Rises counts low-to-high transitions written so far.
func (l *Line) Rises() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	prev := false
	for _, v := range l.history {
		if v && !prev {
			n++
		}
		prev = v
	}
	return n
}

// OnSet registers fn to run after every Set.
func (l *Line) OnSet(fn func(bool)) {
	l.mu.Lock()
	l.onSet = fn
	l.mu.Unlock()
}
