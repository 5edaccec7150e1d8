// handshake/handshake.go

// Package handshake implements the target side of the four-line GPIO protocol
// used to gate benchmark stages from an external harness.
//
// Each stage walks four states: armed (wait for Continue high), running (do the
// work), done (Done high, wait for Continue low) and idle (Done low). The
// harness times the gap between raising Continue and seeing Done, so the
// armed and done waits are tight polling loops with no sleeps or yields.
//
// Lines are expressed as two one-method interfaces that machine.Pin already
// satisfies, so firmware hands its pins straight in and host tests use fakes.
package handshake

import (
	"errors"
	"time"
)

// Input is a digital line the target reads.
type Input interface{ Get() bool }

// Output is a digital line the target drives.
type Output interface{ Set(high bool) }

// Lines groups the signals of one target.
type Lines struct {
	// Continue is driven by the harness: high starts a stage, low acknowledges it.
	Continue Input
	// Done goes high when the current stage has finished.
	Done Output
	// Ready is high for the duration of a benchmark round.
	Ready Output
	// LED is the on-board status LED.
	LED Output
}

var (
	// ErrNoLine is returned by NewRunner when a required line is missing.
	ErrNoLine = errors.New("handshake: line not configured")
	// ErrNoStages is returned by NewRunner when no stages are given.
	ErrNoStages = errors.New("handshake: no stages")
)

// Timings for the LED patterns.
const (
	SetupOn       = 500 * time.Millisecond
	SetupBlinks   = 2
	CompleteOn    = 100 * time.Millisecond
	CompleteBlink = 5
	HaltOn        = 100 * time.Millisecond
	RoundPause    = 1 * time.Second
)

// Stage is one gated benchmark step.
type Stage struct {
	Name string
	// Work is the timed section. A nil Work makes a pure GPIO round-trip stage.
	Work func()
	// Verify runs after Done has been raised, outside the timed window.
	// A non-nil error halts the program.
	Verify func() error
}

// Config tunes a Runner. The zero value matches the compiled firmware.
type Config struct {
	// SettleDelay is slept after Continue drops and before Done is lowered.
	SettleDelay time.Duration
	// LEDDuringWork lights the LED while a stage's Work runs.
	LEDDuringWork bool
	// Setup runs at the start of every round, before the setup blink.
	// It rebuilds scratch data so every round starts from the worst case.
	Setup func()
	// Teardown runs at the end of every round, after Ready has dropped and
	// before the completion blink. Use it to fold results so they stay live.
	Teardown func()
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Runner drives a fixed list of stages through the handshake.
type Runner struct {
	lines  Lines
	cfg    Config
	stages []Stage
	rounds uint32
}

// NewRunner validates the lines and returns a Runner for stages.
func NewRunner(lines Lines, cfg Config, stages ...Stage) (*Runner, error) {
	if lines.Continue == nil || lines.Done == nil || lines.Ready == nil || lines.LED == nil {
		return nil, ErrNoLine
	}
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	return &Runner{lines: lines, cfg: cfg, stages: stages}, nil
}

// Rounds returns the number of rounds whose stages have all completed.
func (r *Runner) Rounds() uint32 { return r.rounds }

// Loop runs rounds forever.
func (r *Runner) Loop() {
	for {
		r.Round()
	}
}

// Round runs the setup hook, every stage in order and the completion signal.
// It does not return if a stage fails verification.
func (r *Runner) Round() {
	if r.cfg.Setup != nil {
		r.cfg.Setup()
	}

	// Setup complete: on/off/on/off with no trailing delay.
	for i := 0; i < SetupBlinks; i++ {
		r.lines.LED.Set(true)
		r.cfg.Sleep(SetupOn)
		r.lines.LED.Set(false)
		if i < SetupBlinks-1 {
			r.cfg.Sleep(SetupOn)
		}
	}

	r.lines.Ready.Set(true)
	r.lines.Done.Set(false)

	for i := range r.stages {
		r.RunStage(&r.stages[i])
	}

	r.lines.Ready.Set(false)
	r.rounds++
	if r.cfg.Teardown != nil {
		r.cfg.Teardown()
	}
	Blink(r.lines.LED, CompleteBlink, CompleteOn, CompleteOn, r.cfg.Sleep)
	r.cfg.Sleep(RoundPause)
}

// RunStage takes one stage through armed, running, done and idle.
func (r *Runner) RunStage(s *Stage) {
	WaitHigh(r.lines.Continue)

	if s.Work != nil {
		if r.cfg.LEDDuringWork {
			r.lines.LED.Set(true)
		}
		s.Work()
		if r.cfg.LEDDuringWork {
			r.lines.LED.Set(false)
		}
	}

	r.lines.Done.Set(true)

	if s.Verify != nil {
		if err := s.Verify(); err != nil {
			println("stage", s.Name, "failed:", err.Error())
			r.Halt()
		}
	}

	WaitLow(r.lines.Continue)
	if r.cfg.SettleDelay > 0 {
		r.cfg.Sleep(r.cfg.SettleDelay)
	}
	r.lines.Done.Set(false)
}

// Halt blinks the LED forever. Done is left as it was so the harness sees a
// stage that never acknowledges.
func (r *Runner) Halt() {
	for {
		Blink(r.lines.LED, 1, HaltOn, HaltOn, r.cfg.Sleep)
	}
}

// WaitHigh spins until in reads high.
func WaitHigh(in Input) {
	for !in.Get() {
	}
}

// WaitLow spins until in reads low.
func WaitLow(in Input) {
	for in.Get() {
	}
}

// Blink pulses led times times. Each pulse is on for on and off for off.
func Blink(led Output, times int, on, off time.Duration, sleep func(time.Duration)) {
	if sleep == nil {
		sleep = time.Sleep
	}
	for i := 0; i < times; i++ {
		led.Set(true)
		sleep(on)
		led.Set(false)
		sleep(off)
	}
}
