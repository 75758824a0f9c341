// Package server provides the HTTP server for the mierzo-puls pulse
// measurement system.
package server

import (
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/LeCadavrExquis/mierzo-puls/internal/app"
	"github.com/LeCadavrExquis/mierzo-puls/internal/frame"
)

// StreamHandler serves the pipeline's latest output frames as MJPEG. During
// analysis the frames are already masked, so the stream shows exactly what
// the thresholding keeps.
type StreamHandler struct {
	app *app.App
}

// NewStreamHandler creates a new StreamHandler reading from the pipeline.
func NewStreamHandler(a *app.App) *StreamHandler {
	return &StreamHandler{app: a}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var last *frame.RGBA
	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		img := h.app.LatestOutput()
		if img == nil || img == last {
			time.Sleep(33 * time.Millisecond)
			continue
		}
		last = img

		buf, err := encodeJPEG(img)
		if err != nil {
			continue
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(buf))
		w.Write(buf)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}

// encodeJPEG converts a packed RGBA frame to JPEG bytes.
func encodeJPEG(img *frame.RGBA) ([]byte, error) {
	mat, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC4, img.Pix)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)

	buf, err := gocv.IMEncode(".jpg", bgr)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
