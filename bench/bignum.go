// bench/bignum.go

package bench

import "errors"

// ErrDigitOverflow is returned when a product no longer fits in a Digits buffer.
var ErrDigitOverflow = errors.New("digit buffer overflow")

// MaxDigits is the default capacity used by the factorial stage.
// It holds 250! (493 digits).
const MaxDigits = 600

// Digits is an unsigned decimal number stored least-significant digit first
// in a caller-provided fixed buffer. It never grows.
type Digits struct {
	d []uint8
	n int // digits in use; 0 only with no buffer set, which reads as 0
}

// NewDigits wraps buf as a digit buffer. The value starts at zero.
func NewDigits(buf []uint8) *Digits {
	d := &Digits{d: buf}
	d.SetUint(0)
	return d
}

// Cap returns the maximum number of decimal digits the buffer holds.
func (d *Digits) Cap() int { return len(d.d) }

// Len returns the number of significant digits. Zero has one digit.
func (d *Digits) Len() int {
	if d.n == 0 {
		return 1
	}
	return d.n
}

// Digit returns the i'th digit counting from the least significant.
func (d *Digits) Digit(i int) uint8 {
	if i < 0 || i >= d.n {
		return 0
	}
	return d.d[i]
}

// SetUint sets the value to v.
func (d *Digits) SetUint(v uint32) error {
	for i := range d.d {
		d.d[i] = 0
	}
	if len(d.d) == 0 {
		d.n = 0
		return ErrDigitOverflow
	}
	d.n = 0
	for {
		if d.n == len(d.d) {
			return ErrDigitOverflow
		}
		d.d[d.n] = uint8(v % 10)
		d.n++
		v /= 10
		if v == 0 {
			return nil
		}
	}
}

// MulSmall multiplies the value in place by m using schoolbook long
// multiplication, one digit at a time with carry.
func (d *Digits) MulSmall(m uint32) error {
	if m == 0 {
		return d.SetUint(0)
	}
	var carry uint64
	for i := 0; i < d.n; i++ {
		p := uint64(d.d[i])*uint64(m) + carry
		d.d[i] = uint8(p % 10)
		carry = p / 10
	}
	for carry > 0 {
		if d.n == len(d.d) {
			return ErrDigitOverflow
		}
		d.d[d.n] = uint8(carry % 10)
		d.n++
		carry /= 10
	}
	return nil
}

// AppendDecimal appends the value, most significant digit first, to dst.
func (d *Digits) AppendDecimal(dst []byte) []byte {
	if d.n == 0 {
		return append(dst, '0')
	}
	for i := d.n - 1; i >= 0; i-- {
		dst = append(dst, '0'+d.d[i])
	}
	return dst
}

// DigitSum returns the sum of all decimal digits.
func (d *Digits) DigitSum() int {
	s := 0
	for i := 0; i < d.n; i++ {
		s += int(d.d[i])
	}
	return s
}

// Factorial computes n! into d.
func Factorial(n uint32, d *Digits) error {
	if err := d.SetUint(1); err != nil {
		return err
	}
	for i := uint32(2); i <= n; i++ {
		if err := d.MulSmall(i); err != nil {
			return err
		}
	}
	return nil
}
