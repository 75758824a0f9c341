package analyze

import (
	"testing"

	"github.com/LeCadavrExquis/mierzo-puls/internal/frame"
	"github.com/LeCadavrExquis/mierzo-puls/testdata"
)

func TestMean_Uniform(t *testing.T) {
	img := testdata.UniformRGBA(8, 6, 200, 30, 90)

	mean := Mean(img)

	if mean.Red != 200 || mean.Green != 30 || mean.Blue != 90 {
		t.Errorf("mean = %+v, want red=200 green=30 blue=90", mean)
	}
}

func TestMean_Exact(t *testing.T) {
	// 2x2 frame with known pixel values.
	img := frame.NewRGBA(2, 2)
	pixels := [][4]byte{
		{10, 0, 0, 255},
		{20, 0, 0, 255},
		{30, 100, 0, 255},
		{40, 100, 200, 255},
	}
	for i, p := range pixels {
		copy(img.Pix[i*4:], p[:])
	}

	mean := Mean(img)

	if mean.Red != 25 {
		t.Errorf("red mean = %f, want 25", mean.Red)
	}
	if mean.Green != 50 {
		t.Errorf("green mean = %f, want 50", mean.Green)
	}
	if mean.Blue != 50 {
		t.Errorf("blue mean = %f, want 50", mean.Blue)
	}
}

func TestMean_Bounds(t *testing.T) {
	// Any input must produce means inside [0,255].
	raw := testdata.PlanarFrame(32, 24, 0, 0)
	img, err := frame.Convert(raw)
	if err != nil {
		t.Fatalf("convert error = %v", err)
	}

	mean := Mean(img)

	for name, v := range map[string]float64{"red": mean.Red, "green": mean.Green, "blue": mean.Blue} {
		if v < 0 || v > 255 {
			t.Errorf("%s mean = %f, outside [0,255]", name, v)
		}
	}
}

func TestMean_LargeFrameNoOverflow(t *testing.T) {
	// A saturated 2048x2048 frame sums to ~10^9 per channel; a 32-bit
	// accumulator would wrap and drag the mean below 255.
	img := testdata.UniformRGBA(2048, 2048, 255, 255, 255)

	mean := Mean(img)

	if mean.Red != 255 || mean.Green != 255 || mean.Blue != 255 {
		t.Errorf("mean = %+v, want 255 on every channel", mean)
	}
}

func TestMean_Empty(t *testing.T) {
	mean := Mean(nil)
	if mean.Red != 0 || mean.Green != 0 || mean.Blue != 0 {
		t.Errorf("mean of nil frame = %+v, want zeros", mean)
	}

	mean = Mean(&frame.RGBA{})
	if mean.Red != 0 || mean.Green != 0 || mean.Blue != 0 {
		t.Errorf("mean of empty frame = %+v, want zeros", mean)
	}
}
