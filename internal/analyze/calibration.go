package analyze

import (
	"github.com/LeCadavrExquis/mierzo-puls/internal/frame"
)

// Calibration is the baseline learned during the calibration window.
// Immutable once constructed; a new measurement session builds a new one.
type Calibration struct {
	// BaselineRed is the mean red intensity observed while calibrating.
	BaselineRed float64

	// BaselineGreen and BaselineBlue are reserved: the threshold is derived
	// from the red baseline only.
	BaselineGreen float64
	BaselineBlue  float64
}

// Threshold derives the accept range for the given margin percentage:
// baseline scaled down and up by margin/100, each bound clamped to [0,255].
// The same scalar range is applied to all three color channels when masking.
func (c Calibration) Threshold(marginPercent float64) (lower, upper float64) {
	lower = c.BaselineRed * (1 - marginPercent/100)
	upper = c.BaselineRed * (1 + marginPercent/100)
	return clampChannel(lower), clampChannel(upper)
}

// Mask zeroes, in place, every pixel whose R, G and B values do not all fall
// inside [lower, upper]. In-range pixels pass through unchanged. Alpha does
// not participate in the range check.
func Mask(img *frame.RGBA, lower, upper float64) {
	lo := byte(clampChannel(lower))
	hi := byte(clampChannel(upper))

	for i := 0; i+3 < len(img.Pix); i += 4 {
		r, g, b := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		if r < lo || r > hi || g < lo || g > hi || b < lo || b > hi {
			img.Pix[i] = 0
			img.Pix[i+1] = 0
			img.Pix[i+2] = 0
			img.Pix[i+3] = 0
		}
	}
}

func clampChannel(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
