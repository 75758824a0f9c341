package frame

import (
	"errors"
	"unsafe"
)

// Conversion errors. A frame that fails conversion is skipped by callers;
// neither error is fatal to the analysis loop.
var (
	// ErrUnsupportedFormat is returned when the input is not a 3-plane
	// YUV 4:2:0 frame with a byte-per-sample luma plane.
	ErrUnsupportedFormat = errors.New("frame: unsupported pixel format")

	// ErrChromaOrder is returned when the two chroma planes of a semi-planar
	// frame are not adjacent interleaved views of the same block.
	ErrChromaOrder = errors.New("frame: chroma planes are not interleaved")

	// ErrShortPlane is returned when a plane buffer is too small for the
	// declared dimensions and strides.
	ErrShortPlane = errors.New("frame: plane buffer too short")
)

// Convert turns a YUV 4:2:0 raw frame into a packed RGBA image.
//
// The path is selected by the chroma pixel stride: stride 2 means the two
// chroma planes are interleaved views of one NV12/NV21 block and conversion
// reads them in place without copying; stride 1 means fully planar input,
// which is first assembled into a contiguous I420 buffer (dropping any row
// padding) and then converted. Both paths share the same BT.601 kernel, so
// the RGBA output is byte-identical regardless of layout.
func Convert(raw *Raw) (*RGBA, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	semiPlanar := raw.Planes[1].PixelStride == 2

	// A declared format must agree with the layout the strides describe.
	switch raw.Format {
	case FormatUnknown:
	case FormatYUV420SemiPlanar:
		if !semiPlanar {
			return nil, ErrUnsupportedFormat
		}
	case FormatYUV420Planar:
		if semiPlanar {
			return nil, ErrUnsupportedFormat
		}
	default:
		return nil, ErrUnsupportedFormat
	}

	if semiPlanar {
		return convertSemiPlanar(raw)
	}
	return convertPlanar(raw)
}

// validate enforces the 4:2:0 invariants shared by both paths.
func validate(raw *Raw) error {
	if raw == nil || raw.Width <= 0 || raw.Height <= 0 {
		return ErrUnsupportedFormat
	}
	if raw.Width%2 != 0 || raw.Height%2 != 0 {
		return ErrUnsupportedFormat
	}
	if len(raw.Planes) != 3 {
		return ErrUnsupportedFormat
	}
	if raw.Planes[0].PixelStride != 1 {
		return ErrUnsupportedFormat
	}
	if raw.Planes[1].PixelStride != raw.Planes[2].PixelStride {
		return ErrUnsupportedFormat
	}
	for _, p := range raw.Planes {
		if len(p.Data) == 0 || p.RowStride <= 0 {
			return ErrShortPlane
		}
	}
	return nil
}

// convertSemiPlanar handles NV12/NV21 input. The two chroma planes are
// overlapping views into one interleaved block; their ordering is detected
// from the one-byte offset between their start addresses, and the block is
// then read directly, without copying luma or chroma data.
func convertSemiPlanar(raw *Raw) (*RGBA, error) {
	w, h := raw.Width, raw.Height
	y, u, v := raw.Planes[0], raw.Planes[1], raw.Planes[2]

	uAddr := uintptr(unsafe.Pointer(&u.Data[0]))
	vAddr := uintptr(unsafe.Pointer(&v.Data[0]))

	var uv []byte
	var uOff, vOff int
	switch {
	case vAddr == uAddr+1:
		// NV12: U first.
		uv, uOff, vOff = u.Data, 0, 1
	case uAddr == vAddr+1:
		// NV21: V first.
		uv, uOff, vOff = v.Data, 1, 0
	default:
		return nil, ErrChromaOrder
	}

	cw, ch := w/2, h/2
	if len(y.Data) < (h-1)*y.RowStride+w {
		return nil, ErrShortPlane
	}
	if len(uv) < (ch-1)*u.RowStride+(cw-1)*2+2 {
		return nil, ErrShortPlane
	}

	out := NewRGBA(w, h)
	for row := 0; row < h; row++ {
		yRow := y.Data[row*y.RowStride:]
		uvRow := uv[(row/2)*u.RowStride:]
		dst := out.Pix[row*w*4:]
		for col := 0; col < w; col++ {
			ci := (col / 2) * 2
			yuvToRGBA(dst[col*4:], yRow[col], uvRow[ci+uOff], uvRow[ci+vOff])
		}
	}
	return out, nil
}

// convertPlanar handles I420 input with arbitrarily padded row strides. The
// three planes are first packed into one contiguous I420 buffer, then the
// buffer is converted in a single pass.
func convertPlanar(raw *Raw) (*RGBA, error) {
	w, h := raw.Width, raw.Height
	cw, ch := w/2, h/2
	y, u, v := raw.Planes[0], raw.Planes[1], raw.Planes[2]

	if u.PixelStride != 1 {
		return nil, ErrUnsupportedFormat
	}

	buf := make([]byte, w*h+2*cw*ch)
	if err := packPlane(buf[:w*h], y, w, h); err != nil {
		return nil, err
	}
	if err := packPlane(buf[w*h:w*h+cw*ch], u, cw, ch); err != nil {
		return nil, err
	}
	if err := packPlane(buf[w*h+cw*ch:], v, cw, ch); err != nil {
		return nil, err
	}

	return i420ToRGBA(buf, w, h), nil
}

// packPlane copies a possibly padded plane into dst as width*height tightly
// packed bytes. When the source carries no padding the whole plane is copied
// as one contiguous block instead of row by row.
func packPlane(dst []byte, p Plane, width, height int) error {
	if len(p.Data) < (height-1)*p.RowStride+width {
		return ErrShortPlane
	}
	if p.RowStride == width {
		copy(dst, p.Data[:width*height])
		return nil
	}
	for row := 0; row < height; row++ {
		copy(dst[row*width:(row+1)*width], p.Data[row*p.RowStride:])
	}
	return nil
}

// i420ToRGBA converts a tightly packed I420 buffer to RGBA.
func i420ToRGBA(buf []byte, w, h int) *RGBA {
	cw := w / 2
	yPlane := buf[:w*h]
	uPlane := buf[w*h : w*h+cw*(h/2)]
	vPlane := buf[w*h+cw*(h/2):]

	out := NewRGBA(w, h)
	for row := 0; row < h; row++ {
		cRow := (row / 2) * cw
		dst := out.Pix[row*w*4:]
		for col := 0; col < w; col++ {
			ci := cRow + col/2
			yuvToRGBA(dst[col*4:], yPlane[row*w+col], uPlane[ci], vPlane[ci])
		}
	}
	return out
}

// yuvToRGBA writes one pixel using a BT.601 integer approximation with full
// alpha. Shared by both conversion paths so their outputs match exactly.
func yuvToRGBA(dst []byte, y, u, v byte) {
	c := int(y) - 16
	if c < 0 {
		c = 0
	}
	d := int(u) - 128
	e := int(v) - 128

	dst[0] = clampByte((298*c + 409*e + 128) >> 8)
	dst[1] = clampByte((298*c - 100*d - 208*e + 128) >> 8)
	dst[2] = clampByte((298*c + 516*d + 128) >> 8)
	dst[3] = 0xFF
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
