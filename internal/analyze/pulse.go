package analyze

import "time"

// Beat detection defaults. The signal fed to the detector is the red mean
// relative to the calibrated baseline, so the threshold is in mean-red units.
const (
	DefaultBeatThreshold = 1.0
	// DefaultRefractory caps the detectable rate at 240 BPM.
	DefaultRefractory = 250 * time.Millisecond
)

// PulseDetector extracts beats-per-minute from the baseline-relative red
// signal by detecting rising threshold crossings with a refractory period.
//
// Not safe for concurrent use; driven by the same single worker as the
// state machine.
type PulseDetector struct {
	threshold   float64
	refractory  time.Duration
	lastBeat    time.Time
	lastValue   float64
	initialized bool
}

// NewPulseDetector creates a detector with the given crossing threshold and
// refractory period. Non-positive arguments fall back to the defaults.
func NewPulseDetector(threshold float64, refractory time.Duration) *PulseDetector {
	if threshold <= 0 {
		threshold = DefaultBeatThreshold
	}
	if refractory <= 0 {
		refractory = DefaultRefractory
	}
	return &PulseDetector{threshold: threshold, refractory: refractory}
}

// Process consumes one sample and reports a BPM estimate when a new beat is
// detected. The first beat only anchors the interval, so a rate is reported
// from the second beat onward.
func (p *PulseDetector) Process(value float64, ts time.Time) (int, bool) {
	if !p.initialized {
		p.initialized = true
		p.lastValue = value
		return 0, false
	}

	crossed := p.lastValue < p.threshold && value >= p.threshold
	p.lastValue = value

	if !crossed {
		return 0, false
	}
	if !p.lastBeat.IsZero() && ts.Sub(p.lastBeat) <= p.refractory {
		return 0, false
	}

	if p.lastBeat.IsZero() {
		p.lastBeat = ts
		return 0, false
	}

	rr := ts.Sub(p.lastBeat).Seconds()
	p.lastBeat = ts
	return int(60.0 / rr), true
}
