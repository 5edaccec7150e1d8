// harness/stopwatch.go

package harness

import (
	"context"
	"time"

	"github.com/jangala-dev/tinygo-pinbench/handshake"
)

// Stopwatch times the gap between the harness raising Continue and the
// target raising Done.
type Stopwatch interface {
	// Arm starts a measurement. The caller raises Continue right after.
	Arm() error
	// Wait blocks until Done has been seen high or ctx ends.
	Wait(ctx context.Context) (time.Duration, error)
}

// ctxPollEvery bounds how often the spin loops look at the context.
const ctxPollEvery = 1024

// TickStopwatch measures with the CPU clock by spinning on the Done line.
// Resolution is one pass of the poll loop. A literal with only Done set
// reads time.Now.
type TickStopwatch struct {
	Done  handshake.Input
	start time.Time
	now   func() time.Time
}

// NewTickStopwatch returns a stopwatch that polls done.
func NewTickStopwatch(done handshake.Input) *TickStopwatch {
	return &TickStopwatch{Done: done, now: time.Now}
}

// Arm records the start time.
func (s *TickStopwatch) Arm() error {
	s.start = s.clock()()
	return nil
}

// Wait spins on Done.
func (s *TickStopwatch) Wait(ctx context.Context) (time.Duration, error) {
	for i := 0; !s.Done.Get(); i++ {
		if i%ctxPollEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, ErrNoResponse
			}
		}
	}
	return s.clock()().Sub(s.start), nil
}

func (s *TickStopwatch) clock() func() time.Time {
	if s.now == nil {
		return time.Now
	}
	return s.now
}
