// cmd/sortbench/main.go
// Long bubble sort target for RP2040 (Pico). The LED is lit while sorting so
// the run is visible without a harness attached.
// Wiring (to the harness):
//   GP0  <- continue   (input, floating: the harness drives it both ways)
//   GP1  -> done
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
	arraySize = 20000 // 80 KB of int32, sorted in place

	continuePin = machine.GPIO0
	donePin     = machine.GPIO1
	readyPin    = machine.GPIO16
)

var numbers [arraySize]int32

func main() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	continuePin.Configure(machine.PinConfig{Mode: machine.PinInput})
	donePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	readyPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	var r *handshake.Runner
	r, err := handshake.NewRunner(handshake.Lines{
		Continue: continuePin,
		Done:     donePin,
		Ready:    readyPin,
		LED:      led,
	}, handshake.Config{
		LEDDuringWork: true,
		Setup:         func() { bench.FillReversed(numbers[:]) },
		Teardown: func() {
			println("round", r.Rounds(), "sort", bench.SumInt32(numbers[:]))
		},
	},
		bench.GPIOStage(),
		bench.SortStage(numbers[:]),
	)
	if err != nil {
		println("sortbench:", err.Error())
		halt()
	}

	r.Loop()
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
