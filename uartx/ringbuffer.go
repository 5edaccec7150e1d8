// uartx/ringbuffer.go

//go:build rp2040 || rp2350

package uartx

import "runtime/volatile"

// txSize is a power of two so the uint8 indices wrap cleanly.
const txSize uint8 = 128

// txRing is the software TX queue. The foreground is the only producer and
// the ISR the only consumer.
type txRing struct {
	buf  [txSize]volatile.Register8
	head volatile.Register8
	tail volatile.Register8
}

func (r *txRing) size() uint8 { return txSize }

func (r *txRing) used() uint8 { return r.head.Get() - r.tail.Get() }

// put queues b, or returns false when the ring is full.
func (r *txRing) put(b byte) bool {
	if r.used() == txSize {
		return false
	}
	h := r.head.Get()
	r.buf[h%txSize].Set(b)
	r.head.Set(h + 1)
	return true
}

// get dequeues the oldest byte.
func (r *txRing) get() (byte, bool) {
	if r.used() == 0 {
		return 0, false
	}
	t := r.tail.Get()
	b := r.buf[t%txSize].Get()
	r.tail.Set(t + 1)
	return b, true
}
