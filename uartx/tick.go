// uartx/tick.go

package uartx

import "time"

// DefaultBaud is used when Configure is given a zero baud rate.
const DefaultBaud = 115200

// drainTick is the Flush poll interval: about two 8N1 characters at baud,
// never less than 20µs.
func drainTick(baud uint32) time.Duration {
	if baud == 0 {
		return 50 * time.Microsecond
	}
	t := 2 * 10 * (time.Second / time.Duration(baud))
	if t < 20*time.Microsecond {
		t = 20 * time.Microsecond
	}
	return t
}
