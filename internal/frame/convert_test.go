package frame_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/LeCadavrExquis/mierzo-puls/internal/frame"
	"github.com/LeCadavrExquis/mierzo-puls/testdata"
)

func TestConvert_CrossPathEquivalence(t *testing.T) {
	// The same logical image in NV12, NV21 and I420 layouts must convert to
	// byte-identical RGBA, since all paths share one kernel.
	const w, h = 32, 24

	planar, err := frame.Convert(testdata.PlanarFrame(w, h, 0, 0))
	if err != nil {
		t.Fatalf("planar convert error = %v", err)
	}

	nv12, err := frame.Convert(testdata.SemiPlanarFrame(w, h, false))
	if err != nil {
		t.Fatalf("nv12 convert error = %v", err)
	}

	nv21, err := frame.Convert(testdata.SemiPlanarFrame(w, h, true))
	if err != nil {
		t.Fatalf("nv21 convert error = %v", err)
	}

	if !bytes.Equal(planar.Pix, nv12.Pix) {
		t.Error("planar and NV12 outputs differ")
	}
	if !bytes.Equal(planar.Pix, nv21.Pix) {
		t.Error("planar and NV21 outputs differ")
	}
}

func TestConvert_RowPaddingIgnored(t *testing.T) {
	// A padded planar frame must produce the same output as the same logical
	// frame without padding.
	const w, h = 16, 12

	packed, err := frame.Convert(testdata.PlanarFrame(w, h, 0, 0))
	if err != nil {
		t.Fatalf("packed convert error = %v", err)
	}

	padded, err := frame.Convert(testdata.PlanarFrame(w, h, 8, 6))
	if err != nil {
		t.Fatalf("padded convert error = %v", err)
	}

	if !bytes.Equal(packed.Pix, padded.Pix) {
		t.Error("padded frame output differs from packed frame output")
	}
}

func TestConvert_OutputShape(t *testing.T) {
	const w, h = 10, 8

	out, err := frame.Convert(testdata.PlanarFrame(w, h, 0, 0))
	if err != nil {
		t.Fatalf("convert error = %v", err)
	}

	if out.Width != w || out.Height != h {
		t.Errorf("dimensions = %dx%d, want %dx%d", out.Width, out.Height, w, h)
	}
	if len(out.Pix) != w*h*4 {
		t.Errorf("buffer length = %d, want %d", len(out.Pix), w*h*4)
	}
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 0xFF {
			t.Fatalf("alpha at pixel %d = %d, want 255", i/4, out.Pix[i])
		}
	}
}

func TestConvert_KnownColors(t *testing.T) {
	// Uniform Y=235 U=128 V=128 is full-range white under BT.601;
	// Y=16 U=128 V=128 is black.
	tests := []struct {
		name    string
		y, u, v byte
		r, g, b byte
	}{
		{"white", 235, 128, 128, 255, 255, 255},
		{"black", 16, 128, 128, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := uniformPlanar(8, 8, tt.y, tt.u, tt.v)
			out, err := frame.Convert(raw)
			if err != nil {
				t.Fatalf("convert error = %v", err)
			}
			if out.Pix[0] != tt.r || out.Pix[1] != tt.g || out.Pix[2] != tt.b {
				t.Errorf("pixel = (%d,%d,%d), want (%d,%d,%d)",
					out.Pix[0], out.Pix[1], out.Pix[2], tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestConvert_UnsupportedFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  *frame.Raw
	}{
		{"nil frame", nil},
		{"zero size", &frame.Raw{Width: 0, Height: 0}},
		{"odd dimensions", withSize(testdata.PlanarFrame(16, 12, 0, 0), 15, 12)},
		{"two planes", &frame.Raw{
			Width: 16, Height: 12,
			Planes: testdata.PlanarFrame(16, 12, 0, 0).Planes[:2],
		}},
		{"luma pixel stride 2", lumaStride2(testdata.PlanarFrame(16, 12, 0, 0))},
		{"declared layout mismatch", withFormat(testdata.PlanarFrame(16, 12, 0, 0), frame.FormatYUV420SemiPlanar)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := frame.Convert(tt.raw); !errors.Is(err, frame.ErrUnsupportedFormat) {
				t.Errorf("error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestConvert_ChromaOrderViolation(t *testing.T) {
	// Two pixel-stride-2 chroma planes backed by unrelated buffers cannot be
	// interleaved views of one block.
	raw := testdata.PlanarFrame(16, 12, 0, 0)
	raw.Format = frame.FormatYUV420SemiPlanar
	raw.Planes[1].PixelStride = 2
	raw.Planes[2].PixelStride = 2

	if _, err := frame.Convert(raw); !errors.Is(err, frame.ErrChromaOrder) {
		t.Errorf("error = %v, want ErrChromaOrder", err)
	}
}

func TestConvert_ShortPlane(t *testing.T) {
	raw := testdata.PlanarFrame(16, 12, 0, 0)
	raw.Planes[0].Data = raw.Planes[0].Data[:10]

	if _, err := frame.Convert(raw); !errors.Is(err, frame.ErrShortPlane) {
		t.Errorf("error = %v, want ErrShortPlane", err)
	}
}

// uniformPlanar builds a planar frame where every sample of each plane has a
// fixed value.
func uniformPlanar(w, h int, y, u, v byte) *frame.Raw {
	raw := testdata.PlanarFrame(w, h, 0, 0)
	fill(raw.Planes[0].Data, y)
	fill(raw.Planes[1].Data, u)
	fill(raw.Planes[2].Data, v)
	return raw
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}

func withSize(raw *frame.Raw, w, h int) *frame.Raw {
	raw.Width = w
	raw.Height = h
	return raw
}

func lumaStride2(raw *frame.Raw) *frame.Raw {
	raw.Planes[0].PixelStride = 2
	return raw
}

func withFormat(raw *frame.Raw, f frame.Format) *frame.Raw {
	raw.Format = f
	return raw
}
