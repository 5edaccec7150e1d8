// uartx/rp2.go

//go:build rp2040 || rp2350

package uartx

import (
	"device/rp"
	"errors"
	"machine"
	"runtime/interrupt"
)

// ErrNoTXPin is returned by Configure when no TX pin is given.
var ErrNoTXPin = errors.New("uartx: TX pin not set")

// UART is one PL011 used for output only.
//
// The ISR is the steady-state writer to UARTDR. The foreground writes UARTDR
// only while TXIM is masked, or when TXIM is enabled with no TX interrupt
// pending and an empty FIFO; in that case it masks TXIM, seeds the FIFO and
// unmasks again so the level interrupt fires.
type UART struct {
	Bus       *rp.UART0_Type
	Interrupt interrupt.Interrupt

	tx       txRing
	txNotify chan struct{}
	baud     uint32
}

var (
	UART0  = &_UART0
	_UART0 = UART{Bus: rp.UART0, txNotify: make(chan struct{}, 1)}

	UART1  = &_UART1
	_UART1 = UART{Bus: rp.UART1, txNotify: make(chan struct{}, 1)}
)

func init() {
	UART0.Interrupt = interrupt.New(rp.IRQ_UART0_IRQ, _UART0.handleInterrupt)
	UART1.Interrupt = interrupt.New(rp.IRQ_UART1_IRQ, _UART1.handleInterrupt)
}

// Configure resets the PL011, routes tx to it and enables the transmitter at
// baud (DefaultBaud if zero), 8N1 with FIFOs. The receiver stays off.
func (u *UART) Configure(tx machine.Pin, baud uint32) error {
	if tx == machine.NoPin {
		return ErrNoTXPin
	}
	if baud == 0 {
		baud = DefaultBaud
	}
	u.reset()

	u.Bus.UARTCR.ClearBits(rp.UART0_UARTCR_UARTEN | rp.UART0_UARTCR_RXE | rp.UART0_UARTCR_TXE)
	tx.Configure(machine.PinConfig{Mode: machine.PinUART})

	u.SetBaudRate(baud)
	// 8 data bits, 1 stop, no parity, FIFOs on. Full write, not OR.
	u.Bus.UARTLCR_H.Set(3<<rp.UART0_UARTLCR_H_WLEN_Pos | rp.UART0_UARTLCR_H_FEN)

	u.Bus.UARTICR.Set(0x7FF)
	u.Bus.UARTCR.Set(rp.UART0_UARTCR_UARTEN | rp.UART0_UARTCR_TXE)

	u.Interrupt.SetPriority(0x80)
	u.Interrupt.Enable()
	u.Bus.UARTIFLS.Set(0)
	u.Bus.UARTIMSC.Set(0) // TXIM is armed by attemptSend

	// The FIFO starts empty.
	select {
	case u.txNotify <- struct{}{}:
	default:
	}
	return nil
}

// SetBaudRate programs the divisors and latches them with an LCR_H write.
func (u *UART) SetBaudRate(br uint32) {
	u.baud = br
	div := 8 * machine.CPUFrequency() / br

	ibrd := div >> 7
	var fbrd uint32
	switch {
	case ibrd == 0:
		ibrd = 1
	case ibrd >= 65535:
		ibrd = 65535
	default:
		fbrd = ((div & 0x7f) + 1) / 2
	}
	u.Bus.UARTIBRD.Set(ibrd)
	u.Bus.UARTFBRD.Set(fbrd)
	u.Bus.UARTLCR_H.Set(u.Bus.UARTLCR_H.Get())
}

func (u *UART) reset() {
	var bit uint32 = rp.RESETS_RESET_UART0
	if u.Bus == rp.UART1 {
		bit = rp.RESETS_RESET_UART1
	}
	rp.RESETS.RESET.SetBits(bit)
	rp.RESETS.RESET.ClearBits(bit)
	for !rp.RESETS.RESET_DONE.HasBits(bit) {
	}
}

func (u *UART) attemptSend(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	const (
		bTXIM  = uint32(rp.UART0_UARTIMSC_TXIM)
		mTXMIS = uint32(rp.UART0_UARTMIS_TXMIS)
	)

	sent := 0
	switch {
	case !u.Bus.UARTIMSC.HasBits(bTXIM):
		sent = u.fillFIFO(p)
		u.Bus.UARTIMSC.SetBits(bTXIM)
	case u.txFifoEmpty() && !u.Bus.UARTMIS.HasBits(mTXMIS):
		u.Bus.UARTIMSC.ClearBits(bTXIM)
		sent = u.fillFIFO(p)
		u.Bus.UARTIMSC.SetBits(bTXIM)
	}

	// The remainder waits for the ISR, which is armed in every branch above
	// or already pending.
	for sent < len(p) && u.tx.put(p[sent]) {
		sent++
	}
	return sent
}

func (u *UART) fillFIFO(p []byte) int {
	i := 0
	for i < len(p) && !u.Bus.UARTFR.HasBits(rp.UART0_UARTFR_TXFF) {
		u.Bus.UARTDR.Set(uint32(p[i]))
		i++
	}
	return i
}

func (u *UART) txFifoEmpty() bool { return u.Bus.UARTFR.HasBits(rp.UART0_UARTFR_TXFE) }

func (u *UART) txLineIdle() bool { return !u.Bus.UARTFR.HasBits(rp.UART0_UARTFR_BUSY) }

// handleInterrupt moves queued bytes into the FIFO and masks TXIM once both
// are empty.
func (u *UART) handleInterrupt(interrupt.Interrupt) {
	if u.Bus.UARTMIS.Get()&rp.UART0_UARTMIS_TXMIS == 0 {
		return
	}
	for !u.Bus.UARTFR.HasBits(rp.UART0_UARTFR_TXFF) {
		b, ok := u.tx.get()
		if !ok {
			break
		}
		u.Bus.UARTDR.Set(uint32(b))
	}
	select {
	case u.txNotify <- struct{}{}:
	default:
	}
	if u.tx.used() == 0 && u.txFifoEmpty() {
		u.Bus.UARTIMSC.ClearBits(rp.UART0_UARTIMSC_TXIM)
	}
	u.Bus.UARTICR.Set(rp.UART0_UARTICR_TXIC)
}
