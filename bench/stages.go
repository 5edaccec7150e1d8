// bench/stages.go

package bench

import (
	"errors"

	"github.com/jangala-dev/tinygo-pinbench/handshake"
)

// ErrNotSorted is returned by the sort stage's self-check.
var ErrNotSorted = errors.New("array not sorted")

// GPIOStage is a stage with no work: the harness measures the bare round trip.
func GPIOStage() handshake.Stage {
	return handshake.Stage{Name: "gpio"}
}

// SortStage bubble-sorts a and verifies the result once Done is raised.
// The caller refills a (FillReversed) between rounds.
func SortStage(a []int32) handshake.Stage {
	return handshake.Stage{
		Name: "sort",
		Work: func() { BubbleSort(a) },
		Verify: func() error {
			if !IsSorted(a) {
				return ErrNotSorted
			}
			return nil
		},
	}
}

// HeapStage churns count allocations of size bytes. The last byte written
// is stored in *last so the caller can keep it live.
func HeapStage(count, size int, last *byte) handshake.Stage {
	return handshake.Stage{
		Name: "heap",
		Work: func() { *last = Churn(count, size) },
	}
}

// FibStage runs the floating-point recurrence over f. The caller reseeds f
// (SeedFib) between rounds.
func FibStage(f []float64) handshake.Stage {
	return handshake.Stage{
		Name: "fib",
		Work: func() { Recurrence(f) },
	}
}

// FactorialStage computes n! into d. Overflow is reported by Verify.
func FactorialStage(n uint32, d *Digits) handshake.Stage {
	var err error
	return handshake.Stage{
		Name: "factorial",
		Work: func() { err = Factorial(n, d) },
		Verify: func() error {
			return err
		},
	}
}
