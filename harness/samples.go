// harness/samples.go

package harness

import "time"

// Power of two so the index wraps with a mask.
const sampleCap uint8 = 16

// Samples keeps the most recent response times for one target and stage.
// When full, Put overwrites the oldest entry.
type Samples struct {
	buf    [sampleCap]time.Duration
	head   uint8
	used   uint8
	misses uint32
}

// Size returns the capacity in samples.
func (s *Samples) Size() int { return int(sampleCap) }

// Used returns how many samples are stored.
func (s *Samples) Used() int { return int(s.used) }

// Put records d.
func (s *Samples) Put(d time.Duration) {
	s.buf[s.head&(sampleCap-1)] = d
	s.head++
	if s.used < sampleCap {
		s.used++
	}
}

// Miss records a measurement that got no response.
func (s *Samples) Miss() { s.misses++ }

// Misses returns the number of recorded misses.
func (s *Samples) Misses() uint32 { return s.misses }

// Stats returns min, mean and max over the stored samples.
// ok is false when nothing has been recorded.
func (s *Samples) Stats() (min, mean, max time.Duration, ok bool) {
	if s.used == 0 {
		return 0, 0, 0, false
	}
	var sum time.Duration
	min = s.buf[0]
	max = s.buf[0]
	for i := uint8(0); i < s.used; i++ {
		v := s.buf[i]
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, sum / time.Duration(s.used), max, true
}

// Clear drops every sample and miss.
func (s *Samples) Clear() {
	s.head = 0
	s.used = 0
	s.misses = 0
}
