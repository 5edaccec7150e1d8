// cmd/factbench/main.go
// Arbitrary-precision factorial target for RP2040 (Pico): GPIO round trip,
// then n! by long multiplication into a fixed digit buffer.
// Wiring matches pinbench (continue GP14, done GP15, ready GP16).

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
	factN = 100 // 158 digits

	continuePin = machine.GPIO14
	donePin     = machine.GPIO15
	readyPin    = machine.GPIO16
)

var digitBuf [bench.MaxDigits]uint8

func main() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	continuePin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	donePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	donePin.Low()
	readyPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	readyPin.Low()

	digits := bench.NewDigits(digitBuf[:])

	var r *handshake.Runner
	r, err := handshake.NewRunner(handshake.Lines{
		Continue: continuePin,
		Done:     donePin,
		Ready:    readyPin,
		LED:      led,
	}, handshake.Config{
		Teardown: func() {
			println("round", r.Rounds(), "digits", digits.Len(), "digit sum", digits.DigitSum())
		},
	},
		bench.GPIOStage(),
		bench.FactorialStage(factN, digits),
	)
	if err != nil {
		println("factbench:", err.Error())
		halt()
	}

	r.Loop()
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
