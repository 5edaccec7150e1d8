// uartx/uartx_host.go

//go:build !rp2040 && !rp2350

package uartx

import (
	"sync"
	"time"
)

// Host shim: the same write path over a byte queue, with drain standing in
// for the TX interrupt.

type UART struct {
	mu       sync.Mutex
	tx       ring
	wire     []byte
	txNotify chan struct{}
	baud     uint32
}

var (
	UART0 = &_UART0
	UART1 = &_UART1

	_UART0 = UART{txNotify: make(chan struct{}, 1)}
	_UART1 = UART{txNotify: make(chan struct{}, 1)}
)

// Configure records baud (DefaultBaud if zero).
func (u *UART) Configure(baud uint32) error {
	if baud == 0 {
		baud = DefaultBaud
	}
	u.mu.Lock()
	u.baud = baud
	u.mu.Unlock()
	return nil
}

func (u *UART) Writable() <-chan struct{} { return u.txNotify }

func (u *UART) TryWrite(p []byte) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for n < len(p) && u.tx.put(p[n]) {
		n++
	}
	return n
}

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

func (u *UART) Flush() error {
	u.mu.Lock()
	tick := drainTick(u.baud)
	u.mu.Unlock()
	for {
		u.mu.Lock()
		empty := u.tx.len() == 0
		u.mu.Unlock()
		if empty {
			return nil
		}
		select {
		case <-u.txNotify:
		case <-time.After(tick):
		}
	}
}

func (u *UART) TxFree() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.tx.buf) - u.tx.len()
}

// drain moves up to n queued bytes onto the wire and signals progress.
func (u *UART) drain(n int) int {
	u.mu.Lock()
	moved := 0
	for moved < n && u.tx.len() > 0 {
		u.wire = append(u.wire, u.tx.get())
		moved++
	}
	u.mu.Unlock()
	select {
	case u.txNotify <- struct{}{}:
	default:
	}
	return moved
}

// sent returns everything drained so far.
func (u *UART) sent() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return string(u.wire)
}

// ring holds at most len(buf) bytes and refuses writes when full.
type ring struct {
	buf        [128]byte
	head, used int
}

func (r *ring) len() int { return r.used }

func (r *ring) put(b byte) bool {
	if r.used == len(r.buf) {
		return false
	}
	r.buf[(r.head+r.used)%len(r.buf)] = b
	r.used++
	return true
}

func (r *ring) get() byte {
	b := r.buf[r.head]
	r.head = (r.head + 1) % len(r.buf)
	r.used--
	return b
}
