package uartx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestUART returns a fresh host UART (no hardware).
func newTestUART() *UART {
	return &UART{txNotify: make(chan struct{}, 1)}
}

func TestTryWrite_FillsQueue(t *testing.T) {
	u := newTestUART()
	require.Equal(t, 128, u.TxFree())

	p := []byte(strings.Repeat("x", 200))
	require.Equal(t, 128, u.TryWrite(p))
	require.Zero(t, u.TxFree())
	require.Zero(t, u.TryWrite(p), "full queue accepts nothing")

	require.Equal(t, 28, u.drain(28))
	require.Equal(t, 28, u.TxFree())
}

func TestWrite_BlocksUntilDrained(t *testing.T) {
	u := newTestUART()
	msg := strings.Repeat("1.2340 - 0.0080\r\n", 20) // longer than the queue

	done := make(chan struct{})
	var n int
	var err error
	go func() {
		defer close(done)
		n, err = u.Write([]byte(msg))
	}()

	deadline := time.After(2 * time.Second)
	for len(u.sent()) < len(msg) {
		select {
		case <-deadline:
			t.Fatal("timeout draining TX")
		default:
		}
		u.drain(16)
		time.Sleep(100 * time.Microsecond)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Write did not return")
	}
	require.NoError(t, err)
	require.Equal(t, len(msg), n)
	require.Equal(t, msg, u.sent())
}

func TestFlush_WaitsForEmptyQueue(t *testing.T) {
	u := newTestUART()
	require.NoError(t, u.Configure(0))
	require.NoError(t, u.Flush(), "empty queue flushes at once")

	u.TryWrite([]byte("New test!\r\n"))
	flushed := make(chan struct{})
	go func() {
		defer close(flushed)
		_ = u.Flush()
	}()

	select {
	case <-flushed:
		t.Fatal("Flush returned with bytes queued")
	case <-time.After(10 * time.Millisecond):
	}

	u.drain(64)
	select {
	case <-flushed:
	case <-time.After(time.Second):
		t.Fatal("Flush did not return after drain")
	}
	require.Equal(t, "New test!\r\n", u.sent())
}

func TestDrainTick(t *testing.T) {
	require.Equal(t, 50*time.Microsecond, drainTick(0))
	// 115200 baud: 8680ns per bit, 20 bits.
	require.Equal(t, 173600*time.Nanosecond, drainTick(DefaultBaud))
	require.Equal(t, 20*time.Microsecond, drainTick(3_000_000))
}
