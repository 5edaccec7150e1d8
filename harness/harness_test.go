package harness

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jangala-dev/tinygo-pinbench/handshake"
	"github.com/jangala-dev/tinygo-pinbench/internal/linetest"
)

func noSleep(time.Duration) {}

type wires struct {
	cont, done, ready *linetest.Line
}

func newWires() wires {
	return wires{cont: linetest.New(), done: linetest.New(), ready: linetest.New()}
}

func (w wires) target(name string) Target {
	return Target{Name: name, Continue: w.cont, Done: w.done, Ready: w.ready}
}

func TestNew_Validates(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrNoTargets)

	w := newWires()
	bad := w.target("x")
	bad.Ready = nil
	_, err = New(Config{}, bad)
	require.ErrorIs(t, err, ErrBadTarget)

	w.cont.Set(true)
	c, err := New(Config{Stages: []string{"gpio"}}, w.target("x"))
	require.NoError(t, err)
	require.False(t, w.cont.Get(), "New drives Continue low")
	require.NotNil(t, c.targets[0].Stopwatch)
	require.Equal(t, DefaultGap, c.cfg.Gap)
	require.Equal(t, DefaultTimeout, c.cfg.Timeout)
}

func TestMeasure_NoResponse(t *testing.T) {
	w := newWires()
	c, err := New(Config{Stages: []string{"gpio"}, Timeout: 20 * time.Millisecond, Sleep: noSleep}, w.target("dead"))
	require.NoError(t, err)

	_, err = c.Measure(context.Background(), &c.targets[0])
	require.ErrorIs(t, err, ErrNoResponse)
	require.False(t, w.cont.Get())
	require.Equal(t, []bool{false, true, false}, w.cont.History())
}

func TestRound_PrintsMiss(t *testing.T) {
	w := newWires()
	var out bytes.Buffer
	c, err := New(Config{
		Stages:  []string{"gpio"},
		Timeout: 10 * time.Millisecond,
		Out:     &out,
		Sleep:   noSleep,
	}, w.target("cpp"))
	require.NoError(t, err)

	c.Round(context.Background())
	require.Equal(t, "cpp gpio... no response\r\n", out.String())
	require.Equal(t, uint32(1), c.Samples(0, 0).Misses())

	out.Reset()
	c.Summary()
	require.Equal(t, "cpp gpio: no samples misses 1\r\n", out.String())
}

func TestMeasure_WaitsForDoneLow(t *testing.T) {
	w := newWires()
	c, err := New(Config{Stages: []string{"gpio"}, Timeout: 20 * time.Millisecond, Sleep: noSleep}, w.target("stuck"))
	require.NoError(t, err)

	// Target answers but never releases Done.
	w.cont.OnSet(func(high bool) {
		if high {
			w.done.Set(true)
		}
	})
	_, err = c.Measure(context.Background(), &c.targets[0])
	require.ErrorIs(t, err, ErrNoResponse)
	require.False(t, w.cont.Get())
}

func TestWaitReady(t *testing.T) {
	a, b := newWires(), newWires()
	led := linetest.New()
	c, err := New(Config{Stages: []string{"gpio"}, LED: led, Sleep: func(time.Duration) { time.Sleep(time.Millisecond) }},
		a.target("a"), b.target("b"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	a.ready.Set(true)
	require.ErrorIs(t, c.WaitReady(ctx), context.DeadlineExceeded)

	b.ready.Set(true)
	require.NoError(t, c.WaitReady(context.Background()))
	require.False(t, led.Get())
	require.Equal(t, 2, led.Rises())
}

// TestRun_AgainstRunner wires a controller to a real handshake.Runner over
// software lines.
func TestRun_AgainstRunner(t *testing.T) {
	w := newWires()
	led := linetest.New()

	stages := []handshake.Stage{
		{Name: "gpio"},
		{Name: "spin", Work: func() { time.Sleep(2 * time.Millisecond) }},
	}
	rn, err := handshake.NewRunner(handshake.Lines{
		Continue: w.cont,
		Done:     w.done,
		Ready:    w.ready,
		LED:      led,
	}, handshake.Config{Sleep: noSleep}, stages...)
	require.NoError(t, err)

	targetDone := make(chan struct{})
	go func() {
		defer close(targetDone)
		rn.Round()
		rn.Round()
	}()

	var out bytes.Buffer
	c, err := New(Config{
		Stages:  []string{"gpio", "spin"},
		Rounds:  2,
		Timeout: 2 * time.Second,
		Out:     &out,
		Sleep:   noSleep,
	}, w.target("go"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	select {
	case <-targetDone:
	case <-time.After(2 * time.Second):
		t.Fatal("target did not finish its rounds")
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 6)
	require.True(t, strings.HasPrefix(lines[0], "go gpio... "), lines[0])
	require.True(t, strings.HasPrefix(lines[1], "go spin... "), lines[1])
	require.True(t, strings.HasSuffix(lines[3], " us"), lines[3])
	require.True(t, strings.HasPrefix(lines[4], "go gpio: min "), lines[4])
	require.True(t, strings.HasPrefix(lines[5], "go spin: min "), lines[5])

	spin := c.Samples(0, 1)
	require.Equal(t, 2, spin.Used())
	min, _, _, ok := spin.Stats()
	require.True(t, ok)
	require.GreaterOrEqual(t, min, 2*time.Millisecond)
	require.Zero(t, spin.Misses())
	require.Equal(t, uint32(2), rn.Rounds())
}

func TestTickStopwatch(t *testing.T) {
	done := linetest.New()
	now := time.Unix(100, 0)
	s := NewTickStopwatch(done)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Arm())
	now = now.Add(1500 * time.Nanosecond)
	done.Set(true)
	d, err := s.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1500*time.Nanosecond, d)

	done.Set(false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Wait(ctx)
	require.ErrorIs(t, err, ErrNoResponse)
}

func TestSamples(t *testing.T) {
	var s Samples
	_, _, _, ok := s.Stats()
	require.False(t, ok)

	for i := 1; i <= 3; i++ {
		s.Put(time.Duration(i) * time.Microsecond)
	}
	min, mean, max, ok := s.Stats()
	require.True(t, ok)
	require.Equal(t, time.Microsecond, min)
	require.Equal(t, 2*time.Microsecond, mean)
	require.Equal(t, 3*time.Microsecond, max)

	// Overfill: only the newest Size() samples remain.
	for i := 0; i < s.Size()+4; i++ {
		s.Put(10 * time.Microsecond)
	}
	require.Equal(t, s.Size(), s.Used())
	min, _, _, _ = s.Stats()
	require.Equal(t, 10*time.Microsecond, min)

	s.Miss()
	s.Clear()
	require.Zero(t, s.Used())
	require.Zero(t, s.Misses())
}

func TestCyclesToDuration(t *testing.T) {
	require.Equal(t, 8*time.Nanosecond, cyclesToDuration(1, 125_000_000))
	require.Equal(t, time.Second, cyclesToDuration(125_000_000, 125_000_000))
	require.Equal(t, 2*time.Second+16*time.Nanosecond, cyclesToDuration(250_000_002, 125_000_000))
	require.Zero(t, cyclesToDuration(10, 0))
}

func TestAppendMicros(t *testing.T) {
	require.Equal(t, "1.2340", string(AppendMicros(nil, 1234*time.Nanosecond)))
	require.Equal(t, "0.0080", string(AppendMicros(nil, 8*time.Nanosecond)))
}

func TestNew_PerTargetStages(t *testing.T) {
	a, b := newWires(), newWires()
	tb := b.target("fact")
	tb.Stages = []string{"gpio", "factorial"}

	var out bytes.Buffer
	c, err := New(Config{
		Stages:  []string{"gpio"},
		Timeout: time.Millisecond,
		Out:     &out,
		Sleep:   noSleep,
	}, a.target("pin"), tb)
	require.NoError(t, err)

	c.Round(context.Background())
	require.Equal(t, "pin gpio... no response\r\n"+
		"fact gpio... no response\r\n"+
		"fact factorial... no response\r\n", out.String())
	require.Equal(t, uint32(1), c.Samples(1, 1).Misses())
}

// scriptedStopwatch replays durations in order. A negative entry is a miss.
type scriptedStopwatch struct {
	d []time.Duration
	i int
}

func (s *scriptedStopwatch) Arm() error { return nil }

func (s *scriptedStopwatch) Wait(context.Context) (time.Duration, error) {
	d := s.d[s.i%len(s.d)]
	s.i++
	if d < 0 {
		return 0, ErrNoResponse
	}
	return d, nil
}

func TestRun_WritesLog(t *testing.T) {
	a, b := newWires(), newWires()
	a.ready.Set(true)
	b.ready.Set(true)

	ta := a.target("pin")
	ta.Stages = []string{"gpio", "sort"}
	ta.Stopwatch = &scriptedStopwatch{d: []time.Duration{1234 * time.Nanosecond, -1}}
	tb := b.target("sort")
	tb.Stages = []string{"gpio"}
	tb.Stopwatch = &scriptedStopwatch{d: []time.Duration{8 * time.Nanosecond}}

	var out, log bytes.Buffer
	c, err := New(Config{Rounds: 2, Out: &out, Log: &log, Sleep: noSleep}, ta, tb)
	require.NoError(t, err)

	// Left over from an earlier run; Run starts clean.
	c.Samples(0, 0).Put(time.Hour)
	c.Samples(0, 1).Miss()

	require.NoError(t, c.Run(context.Background()))

	require.Equal(t, LogHeader+
		"1.2340 - 0.0080\r\n"+
		"1.2340 - 0.0080\r\n", log.String())

	_, _, max, ok := c.Samples(0, 0).Stats()
	require.True(t, ok)
	require.Equal(t, 1234*time.Nanosecond, max)
	require.Equal(t, 2, c.Samples(0, 0).Used())
	require.Equal(t, uint32(2), c.Samples(0, 1).Misses())
	require.Contains(t, out.String(), "pin sort... no response\r\n")
}

func TestRound_NoLogLineWhenCancelled(t *testing.T) {
	w := newWires()
	var log bytes.Buffer
	c, err := New(Config{Stages: []string{"gpio"}, Log: &log, Sleep: noSleep}, w.target("x"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Round(ctx)
	require.Zero(t, log.Len())
}

func TestTickStopwatch_Literal(t *testing.T) {
	done := linetest.New()
	s := &TickStopwatch{Done: done}

	require.NoError(t, s.Arm())
	done.Set(true)
	d, err := s.Wait(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, d, time.Duration(0))
}
