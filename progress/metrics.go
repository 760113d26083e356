package progress

import "time"

const (
	// samplerCapacity bounds the sliding window of progress samples.
	samplerCapacity = 16
	// samplerMaxAge drops samples older than this from the window.
	samplerMaxAge = 5 * time.Second
	// samplerDebounce is the minimum spacing between retained samples;
	// rapid small updates would otherwise make the rate jumpy.
	samplerDebounce = 100 * time.Millisecond
	// smoothingAlpha is the weight of the newest raw rate in the
	// exponential moving average.
	smoothingAlpha = 0.1
)

type sample struct {
	at    time.Time
	value uint64
}

// sampler tracks a bounded window of (timestamp, value) progress samples and
// derives a smoothed throughput from them. Callers synchronize access; the
// owning Job's lock covers it.
type sampler struct {
	samples  []sample
	smoothed float64
	hasRate  bool
}

// observe records a progress value. Backwards movement and updates inside
// the debounce interval leave the rate untouched.
func (s *sampler) observe(now time.Time, value uint64) {
	if n := len(s.samples); n > 0 {
		last := s.samples[n-1]
		if value < last.value || now.Sub(last.at) < samplerDebounce {
			return
		}
	}

	s.samples = append(s.samples, sample{at: now, value: value})
	for len(s.samples) > samplerCapacity || (len(s.samples) > 1 && now.Sub(s.samples[0].at) > samplerMaxAge) {
		s.samples = s.samples[1:]
	}

	if len(s.samples) < 2 {
		return
	}
	oldest, newest := s.samples[0], s.samples[len(s.samples)-1]
	dt := newest.at.Sub(oldest.at).Seconds()
	if dt <= 0 {
		return
	}
	raw := float64(newest.value-oldest.value) / dt
	if s.hasRate {
		s.smoothed = smoothingAlpha*raw + (1-smoothingAlpha)*s.smoothed
	} else {
		s.smoothed = raw
		s.hasRate = true
	}
}

// rate returns the smoothed throughput in units per second.
func (s *sampler) rate() (float64, bool) {
	return s.smoothed, s.hasRate
}

// reset clears the window, used when a new operation starts.
func (s *sampler) reset() {
	s.samples = nil
	s.smoothed = 0
	s.hasRate = false
}
