// bench/sort.go

// Package bench holds the benchmark kernels run between handshake stages.
// Nothing here touches hardware, so every kernel can be exercised on the host.
package bench

// Reversed returns n, n-1, ..., 1: the worst-case input for BubbleSort.
func Reversed(n int) []int32 {
	a := make([]int32, n)
	FillReversed(a)
	return a
}

// FillReversed overwrites a with len(a), len(a)-1, ..., 1 without allocating.
func FillReversed(a []int32) {
	n := len(a)
	for i := range a {
		a[i] = int32(n - i)
	}
}

// BubbleSort sorts a in place. It always runs every pass; there is no
// early exit on an already-sorted pass.
func BubbleSort(a []int32) {
	n := len(a)
	for i := 0; i < n; i++ {
		for j := 0; j < n-i-1; j++ {
			if a[j] > a[j+1] {
				a[j], a[j+1] = a[j+1], a[j]
			}
		}
	}
}

// IsSorted reports whether a is in non-decreasing order.
func IsSorted(a []int32) bool {
	for i := 0; i+1 < len(a); i++ {
		if a[i] > a[i+1] {
			return false
		}
	}
	return true
}

// SumInt32 folds a into a single value so the sort result stays live.
func SumInt32(a []int32) int64 {
	var s int64
	for _, v := range a {
		s += int64(v)
	}
	return s
}
