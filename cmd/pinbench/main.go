// cmd/pinbench/main.go
// Four-stage benchmark target for RP2040 (Pico): GPIO round trip, worst-case
// bubble sort, heap churn and a floating-point recurrence.
// Wiring (to the harness):
//   GP14 <- continue   (input, pulled down)
//   GP15 -> done
//   GP16 -> ready

//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-pinbench/bench"
	"github.com/jangala-dev/tinygo-pinbench/handshake"
)

/*** Tunables ***/
const (
	arraySize = 1000 // bubble sort length
	mallocAmt = 800  // heap churn allocations per stage
	mallocLen = 128  // bytes per allocation
	fibSize   = 800  // recurrence length

	continuePin = machine.GPIO14
	donePin     = machine.GPIO15
	readyPin    = machine.GPIO16

	settleDelay = 0 * time.Second // interpreted runtimes needed 1s here
)

var (
	numbers [arraySize]int32
	fib     [fibSize]float64
	churned byte
)

func main() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	continuePin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	donePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	donePin.Low()
	readyPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	readyPin.Low()

	var r *handshake.Runner
	r, err := handshake.NewRunner(handshake.Lines{
		Continue: continuePin,
		Done:     donePin,
		Ready:    readyPin,
		LED:      led,
	}, handshake.Config{
		SettleDelay: settleDelay,
		Setup: func() {
			// Worst case every round.
			bench.FillReversed(numbers[:])
			bench.SeedFib(fib[:])
		},
		Teardown: func() {
			// Off the timed path; keeps every stage's result live.
			println("round", r.Rounds(), "sort", bench.SumInt32(numbers[:]),
				"fib", bench.SumFloat64(fib[:]), "heap", churned)
		},
	},
		bench.GPIOStage(),
		bench.SortStage(numbers[:]),
		bench.HeapStage(mallocAmt, mallocLen, &churned),
		bench.FibStage(fib[:]),
	)
	if err != nil {
		println("pinbench:", err.Error())
		halt()
	}

	println("pinbench ready")
	r.Loop()
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
