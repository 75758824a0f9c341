package analyze

import (
	"time"

	"github.com/LeCadavrExquis/mierzo-puls/internal/frame"
)

// Phase is the current stage of the measurement algorithm.
type Phase int

const (
	// PhaseStart is the initial phase; the first processed frame leaves it.
	PhaseStart Phase = iota
	// PhaseCalibrating accumulates the red baseline over the calibration window.
	PhaseCalibrating
	// PhaseAnalyzing masks each frame against the calibrated threshold.
	PhaseAnalyzing
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseCalibrating:
		return "calibrating"
	case PhaseAnalyzing:
		return "analyzing"
	default:
		return "invalid"
	}
}

// Default policy values. Both are policy, not physics, and are configurable.
const (
	DefaultCalibrationWindow = 3000 * time.Millisecond
	DefaultMarginPercent     = 10.0
)

// Config holds the tunable parameters of the state machine.
type Config struct {
	// CalibrationWindow is how long the red baseline is averaged before
	// analysis begins. Defaults to DefaultCalibrationWindow.
	CalibrationWindow time.Duration

	// MarginPercent widens the accept range around the baseline.
	// Defaults to DefaultMarginPercent.
	MarginPercent float64

	// Clock supplies the current time, read once per frame.
	// Defaults to time.Now; tests inject a fake.
	Clock func() time.Time
}

// Result is the per-frame output of the state machine.
type Result struct {
	Phase         Phase
	Mean          ChannelMean
	FingerPresent bool

	// Progress is the fraction of the calibration window elapsed, in [0,1].
	// Only meaningful while calibrating.
	Progress float64

	// Masked is true when the frame was thresholded in place.
	Masked bool

	// BPM is the latest pulse estimate; valid only when Beat is true.
	BPM  int
	Beat bool
}

// calibrating holds the fields that only exist during the calibration phase.
type calibrating struct {
	start time.Time
	sum   float64
	count int
}

// StateMachine drives the idle -> calibrate -> analyze progression over the
// stream of converted frames.
//
// Not safe for concurrent use: it must be driven by exactly one worker, in
// frame arrival order. There is no reset; a new measurement session
// constructs a fresh instance.
type StateMachine struct {
	cfg   Config
	clock func() time.Time

	phase Phase
	// accum is non-nil only in PhaseCalibrating, calib only in PhaseAnalyzing.
	accum *calibrating
	calib *Calibration
	pulse *PulseDetector
}

// NewStateMachine creates a state machine in PhaseStart.
func NewStateMachine(cfg Config) *StateMachine {
	if cfg.CalibrationWindow <= 0 {
		cfg.CalibrationWindow = DefaultCalibrationWindow
	}
	if cfg.MarginPercent <= 0 {
		cfg.MarginPercent = DefaultMarginPercent
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &StateMachine{cfg: cfg, clock: clock, phase: PhaseStart}
}

// Phase returns the current phase.
func (m *StateMachine) Phase() Phase {
	return m.phase
}

// Calibration returns the learned baseline, or nil before analysis begins.
func (m *StateMachine) Calibration() *Calibration {
	return m.calib
}

// Process consumes one converted frame and advances the state machine.
// During analysis the frame is masked in place before being returned to the
// caller for display.
func (m *StateMachine) Process(img *frame.RGBA) Result {
	mean := Mean(img)
	now := m.clock()

	res := Result{
		Mean:          mean,
		FingerPresent: IsFingerPresent(mean),
	}

	switch m.phase {
	case PhaseStart:
		// The very first frame both opens the window and contributes a
		// sample, so the average can never be over zero samples.
		m.phase = PhaseCalibrating
		m.accum = &calibrating{start: now, sum: mean.Red, count: 1}
		res.Phase = PhaseCalibrating

	case PhaseCalibrating:
		m.accum.sum += mean.Red
		m.accum.count++

		elapsed := now.Sub(m.accum.start)
		if elapsed <= m.cfg.CalibrationWindow {
			res.Phase = PhaseCalibrating
			res.Progress = float64(elapsed) / float64(m.cfg.CalibrationWindow)
			break
		}

		baseline := 0.0
		if m.accum.count > 0 {
			baseline = m.accum.sum / float64(m.accum.count)
		}
		m.calib = &Calibration{BaselineRed: baseline}
		m.pulse = NewPulseDetector(DefaultBeatThreshold, DefaultRefractory)
		m.accum = nil
		m.phase = PhaseAnalyzing
		res.Phase = PhaseAnalyzing
		res.Progress = 1

	case PhaseAnalyzing:
		lower, upper := m.calib.Threshold(m.cfg.MarginPercent)
		Mask(img, lower, upper)
		res.Phase = PhaseAnalyzing
		res.Progress = 1
		res.Masked = true

		if bpm, beat := m.pulse.Process(mean.Red-m.calib.BaselineRed, now); beat {
			res.BPM = bpm
			res.Beat = true
		}
	}

	return res
}
