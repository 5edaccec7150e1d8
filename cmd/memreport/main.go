// cmd/memreport/main.go
// Prints a memory report over USB serial every two seconds and toggles the LED.

//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-pinbench/memstat"
)

const interval = 2 * time.Second

func main() {
	// Give the monitor time to attach.
	time.Sleep(time.Second)

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	on := false
	for {
		on = !on
		led.Set(on)

		if _, err := memstat.Read(memstat.RP2040RAM).WriteTo(machine.Serial); err != nil {
			println("memreport:", err.Error())
		}
		time.Sleep(interval)
	}
}
