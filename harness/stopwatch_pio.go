// harness/stopwatch_pio.go

//go:build rp2040

//go:generate pioasm -o go edgetimer.pio edgetimer_pio.go

package harness

import (
	"context"
	"machine"
	"time"

	pio "github.com/tinygo-org/pio/rp2-pio"
)

// PIOStopwatch counts system clock cycles in a PIO state machine from arming
// until the Done pin reads high. It is not disturbed by interrupts or the
// scheduler, unlike TickStopwatch.
type PIOStopwatch struct {
	sm     pio.StateMachine
	offset uint8
	pin    machine.Pin
}

// NewPIOStopwatch binds sm to done. offset is where LoadEdgeTimer placed the
// program in sm's PIO block; one load serves all four state machines.
func NewPIOStopwatch(sm pio.StateMachine, offset uint8, done machine.Pin) *PIOStopwatch {
	cfg := edgetimerProgramDefaultConfig(offset)
	cfg.SetJmpPin(done)
	sm.Init(offset, cfg)
	sm.SetEnabled(true)
	return &PIOStopwatch{sm: sm, offset: offset, pin: done}
}

// LoadEdgeTimer adds the edge timer program to p and returns its offset.
func LoadEdgeTimer(p *pio.PIO) (uint8, error) {
	return p.AddProgram(edgetimerInstructions, edgetimerOrigin)
}

// Arm resets the state machine to the top of the program and starts counting.
func (s *PIOStopwatch) Arm() error {
	// See StateMachine.Init for this sequence.
	s.sm.SetEnabled(false)
	s.sm.ClearFIFOs()
	s.sm.Restart()
	s.sm.ClkDivRestart()
	s.sm.Exec(pio.EncodeJmp(uint16(s.offset)))
	s.sm.SetEnabled(true)
	s.sm.TxPut(0)
	return nil
}

// Wait polls the RX FIFO for the captured count.
func (s *PIOStopwatch) Wait(ctx context.Context) (time.Duration, error) {
	for i := 0; s.sm.IsRxFIFOEmpty(); i++ {
		if i%ctxPollEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, ErrNoResponse
			}
		}
	}
	count := s.sm.RxGet()
	return cyclesToDuration(2*uint64(count), uint64(machine.CPUFrequency())), nil
}
