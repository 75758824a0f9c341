// Package testdata provides synthetic camera frames for tests.
package testdata

import (
	"github.com/LeCadavrExquis/mierzo-puls/internal/frame"
)

// YUVImage generates a deterministic logical YUV 4:2:0 image: tightly packed
// luma plus half-resolution U and V planes. The same logical image can then
// be laid out in any of the supported raw formats.
func YUVImage(w, h int) (y, u, v []byte) {
	y = make([]byte, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			y[row*w+col] = byte((row*7 + col*13) % 256)
		}
	}

	cw, ch := w/2, h/2
	u = make([]byte, cw*ch)
	v = make([]byte, cw*ch)
	for row := 0; row < ch; row++ {
		for col := 0; col < cw; col++ {
			u[row*cw+col] = byte((row*5 + col*3 + 64) % 256)
			v[row*cw+col] = byte((row*11 + col*2 + 160) % 256)
		}
	}
	return y, u, v
}

// PlanarFrame lays out a logical YUV image as an I420 raw frame. yPad and
// cPad are extra padding bytes appended to every luma and chroma row.
func PlanarFrame(w, h, yPad, cPad int) *frame.Raw {
	y, u, v := YUVImage(w, h)
	cw, ch := w/2, h/2

	return &frame.Raw{
		Width:  w,
		Height: h,
		Format: frame.FormatYUV420Planar,
		Planes: []frame.Plane{
			{Data: padPlane(y, w, h, yPad), PixelStride: 1, RowStride: w + yPad},
			{Data: padPlane(u, cw, ch, cPad), PixelStride: 1, RowStride: cw + cPad},
			{Data: padPlane(v, cw, ch, cPad), PixelStride: 1, RowStride: cw + cPad},
		},
	}
}

// SemiPlanarFrame lays out the same logical YUV image as NV21 when vFirst is
// true, NV12 otherwise. The two chroma planes are overlapping views into one
// interleaved block, exactly as a camera delivers them.
func SemiPlanarFrame(w, h int, vFirst bool) *frame.Raw {
	y, u, v := YUVImage(w, h)
	cw, ch := w/2, h/2

	uv := make([]byte, 2*cw*ch)
	for i := 0; i < cw*ch; i++ {
		if vFirst {
			uv[2*i] = v[i]
			uv[2*i+1] = u[i]
		} else {
			uv[2*i] = u[i]
			uv[2*i+1] = v[i]
		}
	}

	first := frame.Plane{Data: uv, PixelStride: 2, RowStride: 2 * cw}
	second := frame.Plane{Data: uv[1:], PixelStride: 2, RowStride: 2 * cw}

	uPlane, vPlane := first, second
	if vFirst {
		uPlane, vPlane = second, first
	}

	return &frame.Raw{
		Width:  w,
		Height: h,
		Format: frame.FormatYUV420SemiPlanar,
		Planes: []frame.Plane{
			{Data: y, PixelStride: 1, RowStride: w},
			uPlane,
			vPlane,
		},
	}
}

// UniformRGBA returns an RGBA image where every pixel has the given color.
func UniformRGBA(w, h int, r, g, b byte) *frame.RGBA {
	img := frame.NewRGBA(w, h)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = 0xFF
	}
	return img
}

func padPlane(plane []byte, width, height, pad int) []byte {
	if pad == 0 {
		return plane
	}
	out := make([]byte, height*(width+pad))
	for row := 0; row < height; row++ {
		copy(out[row*(width+pad):], plane[row*width:(row+1)*width])
	}
	return out
}
