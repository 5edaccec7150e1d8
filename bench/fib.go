// bench/fib.go

package bench

// Seeds for the floating-point recurrence. Non-integer so the sums exercise
// the FPU (or soft-float on Cortex-M0+) rather than exact small integers.
const (
	FibSeed0 = 0.0001
	FibSeed1 = 1.0001
)

// NewFib returns a zeroed slice of n values with the two seeds in place.
func NewFib(n int) []float64 {
	f := make([]float64, n)
	SeedFib(f)
	return f
}

// SeedFib zeroes f and writes the seeds into its first two slots.
func SeedFib(f []float64) {
	for i := range f {
		f[i] = 0
	}
	if len(f) > 0 {
		f[0] = FibSeed0
	}
	if len(f) > 1 {
		f[1] = FibSeed1
	}
}

// Recurrence fills f[i] = f[i-1] + f[i-2] for every i >= 2.
func Recurrence(f []float64) {
	for i := 2; i < len(f); i++ {
		f[i] = f[i-1] + f[i-2]
	}
}

// SumFloat64 folds f into a single value so the recurrence stays live.
func SumFloat64(f []float64) float64 {
	var s float64
	for _, v := range f {
		s += v
	}
	return s
}
