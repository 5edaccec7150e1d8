// cmd/harness/main.go
// Benchmark controller for RP2040 (Pico). Drives each target's continue line
// and times its done line with a PIO state machine (one per target).
// Wiring (harness side):
//   target     continue  done  ready
//   sortbench  GP0 ->    GP1   GP10
//   pinbench   GP2 ->    GP3   GP11
//   factbench  GP4 ->    GP5   GP12
//   log UART0 TX  GP16 (115200 8N1)
// Results are printed on USB serial. The per-round log goes out on UART0.

//go:build rp2040

package main

import (
	"context"
	"machine"
	"time"

	pio "github.com/tinygo-org/pio/rp2-pio"

	"github.com/jangala-dev/tinygo-pinbench/harness"
	"github.com/jangala-dev/tinygo-pinbench/uartx"
)

/*** Tunables ***/
const (
	rounds      = 5
	gap         = 1 * time.Second
	timeout     = 60 * time.Second
	warmupDelay = 2 * time.Second

	logTX   = machine.GPIO16
	logBaud = 115200
)

type wiring struct {
	name              string
	cont, done, ready machine.Pin
	stages            []string
}

var boards = []wiring{
	{"sortbench", machine.GPIO0, machine.GPIO1, machine.GPIO10, []string{"gpio", "sort"}},
	{"pinbench", machine.GPIO2, machine.GPIO3, machine.GPIO11, []string{"gpio", "sort", "heap", "fib"}},
	{"factbench", machine.GPIO4, machine.GPIO5, machine.GPIO12, []string{"gpio", "factorial"}},
}

func main() {
	time.Sleep(warmupDelay)
	println("pinbench harness (RP2040)")

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	logUART := uartx.UART0
	if err := logUART.Configure(logTX, logBaud); err != nil {
		println("harness: log uart:", err.Error())
		halt(led)
	}

	offset, err := harness.LoadEdgeTimer(pio.PIO0)
	if err != nil {
		println("harness: load edge timer:", err.Error())
		halt(led)
	}

	targets := make([]harness.Target, 0, len(boards))
	for i, b := range boards {
		b.cont.Configure(machine.PinConfig{Mode: machine.PinOutput})
		b.cont.Low()
		b.done.Configure(machine.PinConfig{Mode: machine.PinInput})
		b.ready.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})

		targets = append(targets, harness.Target{
			Name:      b.name,
			Continue:  b.cont,
			Done:      b.done,
			Ready:     b.ready,
			Stages:    b.stages,
			Stopwatch: harness.NewPIOStopwatch(pio.PIO0.StateMachine(uint8(i)), offset, b.done),
		})
	}

	c, err := harness.New(harness.Config{
		Rounds:  rounds,
		Gap:     gap,
		Timeout: timeout,
		LED:     led,
		Out:     machine.Serial,
		Log:     logUART,
	}, targets...)
	if err != nil {
		println("harness:", err.Error())
		halt(led)
	}

	if err := c.Run(context.Background()); err != nil {
		println("harness:", err.Error())
		halt(led)
	}
	_ = logUART.Flush()
	println("harness: done")
	for {
		time.Sleep(time.Hour)
	}
}

// halt signals a setup failure with a slow blink.
func halt(led machine.Pin) {
	for {
		led.High()
		time.Sleep(600 * time.Millisecond)
		led.Low()
		time.Sleep(800 * time.Millisecond)
	}
}
