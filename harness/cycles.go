// harness/cycles.go

package harness

import "time"

// cyclesToDuration converts a cycle count at hz to a duration, rounding down.
func cyclesToDuration(cycles, hz uint64) time.Duration {
	if hz == 0 {
		return 0
	}
	whole := cycles / hz
	rem := cycles % hz
	return time.Duration(whole)*time.Second + time.Duration(rem*uint64(time.Second)/hz)
}
