// Package capture provides camera frame acquisition using GoCV (OpenCV) and
// the latest-frame-wins mailbox that feeds the analysis worker.
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"

	"github.com/LeCadavrExquis/mierzo-puls/internal/frame"
)

// Default camera settings
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera defines the interface for camera capture implementations.
// ReadFrame hands out YUV 4:2:0 raw frames ready for conversion.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*frame.Raw, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
	fps      int
}

// NewCamera creates a new Camera with the given device ID.
func NewCamera(deviceID int) Camera {
	return &cameraImpl{
		deviceID: deviceID,
		fps:      DefaultFPS,
		running:  false,
		capture:  nil,
	}
}

// Open opens the camera for capturing frames.
// It sets the resolution to 640x480 for performance.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame and converts it to an I420 raw frame. The
// webcam delivers packed BGR; re-encoding to planar YUV here keeps the rest
// of the pipeline on the same input format a mobile camera sensor produces.
func (c *cameraImpl) ReadFrame() (*frame.Raw, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	defer mat.Close()

	if ok := c.capture.Read(&mat); !ok {
		return nil, errors.New("failed to read frame from camera")
	}
	if mat.Empty() {
		return nil, errors.New("captured frame is empty")
	}

	yuv := gocv.NewMat()
	defer yuv.Close()
	gocv.CvtColor(mat, &yuv, gocv.ColorBGRToYUVI420)

	w, h := mat.Cols(), mat.Rows()
	data := yuv.ToBytes()
	cw, ch := w/2, h/2

	return &frame.Raw{
		Width:  w,
		Height: h,
		Format: frame.FormatYUV420Planar,
		Planes: []frame.Plane{
			{Data: data[:w*h], PixelStride: 1, RowStride: w},
			{Data: data[w*h : w*h+cw*ch], PixelStride: 1, RowStride: cw},
			{Data: data[w*h+cw*ch:], PixelStride: 1, RowStride: cw},
		},
	}, nil
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
