// bench/heap.go

package bench

// sink keeps Churn's allocations observable so they are not optimised away.
var sink []byte

// Churn allocates count blocks of size bytes, touches the first byte of each
// and drops the block straight away. It returns the last byte written.
func Churn(count, size int) byte {
	if size <= 0 {
		return 0
	}
	var last byte
	for i := 0; i < count; i++ {
		p := make([]byte, size)
		p[0] = byte(i)
		sink = p
		last = p[0]
		sink = nil
	}
	return last
}
