// Package frame defines raw camera frame types and the YUV 4:2:0 to RGBA
// conversion at the heart of the pulse measurement pipeline.
package frame

// Format identifies the pixel layout of a raw camera frame.
type Format int

// Supported raw frame formats. Both are YUV 4:2:0 layouts; they differ only
// in how the two chroma components are stored.
const (
	FormatUnknown Format = iota
	// FormatYUV420SemiPlanar is NV12/NV21: one luma plane plus byte-interleaved
	// chroma, exposed as two overlapping planes with pixel stride 2.
	FormatYUV420SemiPlanar
	// FormatYUV420Planar is I420: luma, U and V in three separate planes with
	// pixel stride 1.
	FormatYUV420Planar
)

// String returns a human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatYUV420SemiPlanar:
		return "yuv420sp"
	case FormatYUV420Planar:
		return "yuv420p"
	default:
		return "unknown"
	}
}

// Plane is a single image plane of a raw frame.
type Plane struct {
	// Data holds the plane's samples. The buffer is borrowed from the camera
	// and is only valid for the duration of the conversion call; it must
	// never be retained past return.
	Data []byte

	// PixelStride is the distance in bytes between consecutive samples
	// within a row.
	PixelStride int

	// RowStride is the distance in bytes between consecutive rows. It may
	// exceed the nominal row width due to alignment padding.
	RowStride int
}

// Raw is a camera frame as delivered by the capture boundary: luma, U and V
// planes in that order.
type Raw struct {
	Width  int
	Height int
	Format Format
	Planes []Plane
}

// RGBA is a packed, row-major, unpadded RGBA image: 4 bytes per pixel.
type RGBA struct {
	Width  int
	Height int
	Pix    []byte
}

// NewRGBA allocates a zeroed RGBA image of the given dimensions.
func NewRGBA(width, height int) *RGBA {
	return &RGBA{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}
