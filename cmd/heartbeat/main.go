// cmd/heartbeat/main.go
// Minimal liveness check: one 500 ms flash per second, forever.

//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-pinbench/handshake"
)

func main() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.Low()
	for {
		handshake.Blink(led, 1, 500*time.Millisecond, 500*time.Millisecond, nil)
	}
}
