// Package analyze implements the finger detection and pulse extraction
// algorithm that runs over converted camera frames: per-frame channel
// statistics, red-baseline calibration, in-range masking and beat detection.
package analyze

import (
	"github.com/LeCadavrExquis/mierzo-puls/internal/frame"
)

// ChannelMean is the arithmetic mean of each color channel over a whole
// frame. Each component lies in [0,255]. Alpha is ignored.
type ChannelMean struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// Mean computes the per-channel mean of an RGBA image. The accumulators are
// 64-bit so frames up to 4096x4096 at full intensity cannot overflow.
func Mean(img *frame.RGBA) ChannelMean {
	if img == nil || len(img.Pix) == 0 {
		return ChannelMean{}
	}

	var r, g, b uint64
	for i := 0; i+3 < len(img.Pix); i += 4 {
		r += uint64(img.Pix[i])
		g += uint64(img.Pix[i+1])
		b += uint64(img.Pix[i+2])
	}

	n := float64(len(img.Pix) / 4)
	return ChannelMean{
		Red:   float64(r) / n,
		Green: float64(g) / n,
		Blue:  float64(b) / n,
	}
}
