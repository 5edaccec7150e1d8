// harness/harness.go

// Package harness is the controller side of the handshake: it raises each
// target's Continue line, times how long the target takes to raise Done and
// prints the result.
package harness

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/jangala-dev/tinygo-pinbench/handshake"
)

var (
	// ErrNoResponse is returned when a target does not answer within the timeout.
	ErrNoResponse = errors.New("harness: no response from target")
	// ErrNoTargets is returned by New when no targets are given.
	ErrNoTargets = errors.New("harness: no targets")
	// ErrBadTarget is returned by New when a target is missing a line.
	ErrBadTarget = errors.New("harness: target not fully wired")
)

// Target is one board under test.
type Target struct {
	Name     string
	Continue handshake.Output
	Done     handshake.Input
	Ready    handshake.Input
	// Stages overrides Config.Stages for this target.
	Stages []string
	// Stopwatch times Done. Defaults to a TickStopwatch on Done.
	Stopwatch Stopwatch
}

// LogHeader is written to Config.Log when Run starts.
const LogHeader = "New test!\r\n"

// Defaults applied by New.
const (
	DefaultGap     = 1 * time.Second
	DefaultTimeout = 60 * time.Second
	readyPoll      = time.Millisecond
)

// Config tunes a Controller.
type Config struct {
	// Stages names the stages each target runs, in order. Only used for output.
	Stages []string
	// Rounds is the number of rounds Run performs. Zero means run until ctx ends.
	Rounds int
	// Gap is slept before every measurement.
	Gap time.Duration
	// Timeout bounds each half of a measurement.
	Timeout time.Duration
	// LED is lit while waiting for targets. Optional.
	LED handshake.Output
	// Out receives result lines. Optional.
	Out io.Writer
	// Log receives a header when Run starts and then one line per round
	// holding every measurement in microseconds, separated by spaces. A
	// missed response is written as "-". Optional.
	Log io.Writer
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Controller measures a fixed set of targets.
type Controller struct {
	cfg     Config
	targets []Target
	samples [][]Samples // [target][stage]
	line    []byte
	logLine []byte
}

// New validates targets and returns a Controller.
func New(cfg Config, targets ...Target) (*Controller, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	for i := range targets {
		t := &targets[i]
		if t.Continue == nil || t.Done == nil || t.Ready == nil {
			return nil, ErrBadTarget
		}
		if t.Stopwatch == nil {
			t.Stopwatch = NewTickStopwatch(t.Done)
		}
		if t.Stages == nil {
			t.Stages = cfg.Stages
		}
	}
	if cfg.Gap == 0 {
		cfg.Gap = DefaultGap
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	c := &Controller{cfg: cfg, targets: targets}
	c.samples = make([][]Samples, len(targets))
	for i := range c.samples {
		c.samples[i] = make([]Samples, len(targets[i].Stages))
	}
	for i := range targets {
		targets[i].Continue.Set(false)
	}
	return c, nil
}

// Samples returns the recorded samples for a target and stage index.
func (c *Controller) Samples(target, stage int) *Samples {
	return &c.samples[target][stage]
}

// Run blinks twice, then performs the configured rounds and prints a summary.
// Samples from any earlier Run are discarded.
func (c *Controller) Run(ctx context.Context) error {
	for ti := range c.samples {
		for si := range c.samples[ti] {
			c.samples[ti][si].Clear()
		}
	}
	if c.cfg.Log != nil {
		_, _ = io.WriteString(c.cfg.Log, LogHeader)
	}
	c.blink(2)
	for round := 0; c.cfg.Rounds == 0 || round < c.cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.WaitReady(ctx); err != nil {
			return err
		}
		c.Round(ctx)
		c.blink(3)
	}
	c.Summary()
	return nil
}

// WaitReady blocks until every target's Ready line is high. The LED is on
// while waiting.
func (c *Controller) WaitReady(ctx context.Context) error {
	c.setLED(true)
	defer c.setLED(false)
	for {
		all := true
		for i := range c.targets {
			if !c.targets[i].Ready.Get() {
				all = false
				break
			}
		}
		if all {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		c.cfg.Sleep(readyPoll)
	}
}

// Round measures every stage of every target, one target at a time, then
// writes the round's line to Config.Log.
func (c *Controller) Round(ctx context.Context) {
	c.logLine = c.logLine[:0]
	defer c.writeLog()
	for ti := range c.targets {
		t := &c.targets[ti]
		for si, stage := range t.Stages {
			if ctx.Err() != nil {
				return
			}
			c.cfg.Sleep(c.cfg.Gap)
			d, err := c.Measure(ctx, t)
			s := &c.samples[ti][si]
			if len(c.logLine) > 0 {
				c.logLine = append(c.logLine, ' ')
			}
			if err != nil {
				s.Miss()
				c.logLine = append(c.logLine, '-')
				c.printMiss(t.Name, stage)
				continue
			}
			s.Put(d)
			c.logLine = AppendMicros(c.logLine, d)
			c.printResult(t.Name, stage, d)
		}
	}
}

// Measure runs one handshake against t: Continue high, time to Done high,
// Continue low, wait for Done low. Continue is always left low.
func (c *Controller) Measure(ctx context.Context, t *Target) (time.Duration, error) {
	if err := t.Stopwatch.Arm(); err != nil {
		return 0, err
	}

	rctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	t.Continue.Set(true)
	d, err := t.Stopwatch.Wait(rctx)
	cancel()
	t.Continue.Set(false)
	if err != nil {
		return 0, err
	}

	actx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	for i := 0; t.Done.Get(); i++ {
		if i%ctxPollEvery == 0 && actx.Err() != nil {
			return d, ErrNoResponse
		}
	}
	return d, nil
}

// Summary prints min/mean/max per target and stage.
func (c *Controller) Summary() {
	for ti := range c.targets {
		for si, stage := range c.targets[ti].Stages {
			s := &c.samples[ti][si]
			min, mean, max, ok := s.Stats()
			b := c.line[:0]
			b = append(b, c.targets[ti].Name...)
			b = append(b, ' ')
			b = append(b, stage...)
			if !ok {
				b = append(b, ": no samples"...)
			} else {
				b = append(b, ": min "...)
				b = AppendMicros(b, min)
				b = append(b, " mean "...)
				b = AppendMicros(b, mean)
				b = append(b, " max "...)
				b = AppendMicros(b, max)
				b = append(b, " us"...)
			}
			if m := s.Misses(); m > 0 {
				b = append(b, " misses "...)
				b = strconv.AppendUint(b, uint64(m), 10)
			}
			c.emit(b)
		}
	}
}

// AppendMicros appends d in microseconds with four decimals.
func AppendMicros(dst []byte, d time.Duration) []byte {
	return strconv.AppendFloat(dst, float64(d)/float64(time.Microsecond), 'f', 4, 64)
}

func (c *Controller) printResult(target, stage string, d time.Duration) {
	b := c.line[:0]
	b = append(b, target...)
	b = append(b, ' ')
	b = append(b, stage...)
	b = append(b, "... "...)
	b = AppendMicros(b, d)
	b = append(b, " us"...)
	c.emit(b)
}

func (c *Controller) printMiss(target, stage string) {
	b := c.line[:0]
	b = append(b, target...)
	b = append(b, ' ')
	b = append(b, stage...)
	b = append(b, "... no response"...)
	c.emit(b)
}

func (c *Controller) emit(b []byte) {
	b = append(b, '\r', '\n')
	c.line = b
	if c.cfg.Out != nil {
		_, _ = c.cfg.Out.Write(b)
	}
}

func (c *Controller) writeLog() {
	if c.cfg.Log == nil || len(c.logLine) == 0 {
		return
	}
	c.logLine = append(c.logLine, '\r', '\n')
	_, _ = c.cfg.Log.Write(c.logLine)
}

func (c *Controller) setLED(on bool) {
	if c.cfg.LED != nil {
		c.cfg.LED.Set(on)
	}
}

func (c *Controller) blink(times int) {
	if c.cfg.LED == nil {
		return
	}
	c.cfg.LED.Set(false)
	c.cfg.Sleep(100 * time.Millisecond)
	handshake.Blink(c.cfg.LED, times, 100*time.Millisecond, 100*time.Millisecond, c.cfg.Sleep)
}
