// uartx/uartx.go

//go:build rp2040 || rp2350

// Package uartx is a transmit-only, interrupt-driven PL011 driver for the
// RP2040/RP2350. It is the harness's result log: lines go out on a spare
// UART so a logger can record them while USB serial stays a console.
//
// Write blocks until every byte has been accepted into the hardware FIFO or
// the software queue. Flush waits until the last bit has left the pin.
package uartx

import "time"

// Writable returns a coalesced notification sent whenever the ISR makes TX
// progress. Callers must re-check state after waking.
func (u *UART) Writable() <-chan struct{} { return u.txNotify }

// TryWrite accepts as much of p as fits right now and never blocks.
func (u *UART) TryWrite(p []byte) int {
	return u.attemptSend(p)
}

// Write implements io.Writer.
func (u *UART) Write(p []byte) (int, error) {
	sent := 0
	for sent < len(p) {
		if n := u.TryWrite(p[sent:]); n > 0 {
			sent += n
			continue
		}
		<-u.txNotify
	}
	return sent, nil
}

// Flush blocks until the software queue and the TX FIFO are empty and the
// line is idle. BUSY raises no interrupt, so a short tick backs up txNotify.
func (u *UART) Flush() error {
	tick := drainTick(u.baud)
	for {
		if u.tx.used() == 0 && u.txFifoEmpty() && u.txLineIdle() {
			return nil
		}
		select {
		case <-u.txNotify:
		case <-time.After(tick):
		}
	}
}

// TxFree returns the free space in the software queue.
func (u *UART) TxFree() int { return int(u.tx.size() - u.tx.used()) }
