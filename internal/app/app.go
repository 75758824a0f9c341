// Package app provides the main application logic for the mierzo-puls
// pulse measurement system.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LeCadavrExquis/mierzo-puls/internal/analyze"
	"github.com/LeCadavrExquis/mierzo-puls/internal/capture"
	"github.com/LeCadavrExquis/mierzo-puls/internal/frame"
	"github.com/LeCadavrExquis/mierzo-puls/internal/store"
)

// Default pipeline settings.
const (
	// DefaultFPS is the camera grab rate.
	DefaultFPS = 30
)

// Config holds configuration options for the application.
type Config struct {
	Store             *store.Store
	CameraID          int
	FPS               int
	CalibrationWindow time.Duration
	MarginPercent     float64
}

// Measurement is the per-frame result exposed to the UI boundary.
type Measurement struct {
	SessionID string              `json:"session_id"`
	Timestamp int64               `json:"timestamp"`
	Phase     string              `json:"phase"`
	Mean      analyze.ChannelMean `json:"mean"`
	Finger    bool                `json:"finger"`
	Progress  float64             `json:"progress"`
	BPM       int                 `json:"bpm"`
}

// App owns the measurement pipeline: camera grabber, frame mailbox and the
// single analysis worker driving the state machine.
type App struct {
	config Config
	camera capture.Camera

	mu        sync.RWMutex
	running   bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
	mailbox   *capture.Mailbox
	machine   *analyze.StateMachine
	sessionID string

	last    Measurement
	hasLast bool
	lastBPM int
	bpmSum  float64
	bpmN    int
	output  *frame.RGBA
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}
	if config.CalibrationWindow <= 0 {
		config.CalibrationWindow = analyze.DefaultCalibrationWindow
	}
	if config.MarginPercent <= 0 {
		config.MarginPercent = analyze.DefaultMarginPercent
	}

	return &App{
		config: config,
		camera: capture.NewCamera(config.CameraID),
	}
}

// SetCamera replaces the camera implementation. Only allowed while stopped.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		a.camera = c
	}
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// IsRunning reports whether a measurement session is in progress.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// SessionID returns the identifier of the current session, or "" if stopped.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// LastMeasurement returns the most recent per-frame result.
func (a *App) LastMeasurement() (Measurement, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last, a.hasLast
}

// LastBPM returns the most recent pulse estimate, 0 before the first beat.
func (a *App) LastBPM() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastBPM
}

// LatestOutput returns the latest converted (and, during analysis, masked)
// frame for display. The returned image is a finished snapshot and is not
// written to again.
func (a *App) LatestOutput() *frame.RGBA {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.output
}

// Start opens the camera and begins a fresh measurement session. The state
// machine is constructed anew each time, so every session calibrates from
// scratch.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.config.FPS)

	a.sessionID = uuid.NewString()
	a.machine = analyze.NewStateMachine(analyze.Config{
		CalibrationWindow: a.config.CalibrationWindow,
		MarginPercent:     a.config.MarginPercent,
	})
	a.mailbox = capture.NewMailbox()
	a.stopCh = make(chan struct{})
	a.hasLast = false
	a.lastBPM = 0
	a.bpmSum = 0
	a.bpmN = 0
	a.output = nil
	a.running = true

	if a.config.Store != nil {
		if err := a.config.Store.Sessions().Create(&store.Session{ID: a.sessionID}); err != nil {
			log.Printf("Failed to create session record: %v", err)
		}
	}

	a.wg.Add(2)
	go a.runGrabber(a.stopCh, a.mailbox)
	go a.runAnalyst(a.mailbox, a.machine, a.sessionID)

	log.Printf("Measurement session %s started", a.sessionID)
	return nil
}

// Stop halts the pipeline, releases the camera and finalizes the session
// record. Starting again calibrates from scratch.
func (a *App) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}

	close(a.stopCh)
	a.mailbox.Close()
	a.running = false

	sessionID := a.sessionID
	machine := a.machine
	a.mu.Unlock()

	a.wg.Wait()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	if a.config.Store != nil {
		baseline := 0.0
		if c := machine.Calibration(); c != nil {
			baseline = c.BaselineRed
		}

		a.mu.RLock()
		avgBPM := 0.0
		if a.bpmN > 0 {
			avgBPM = a.bpmSum / float64(a.bpmN)
		}
		a.mu.RUnlock()

		if err := a.config.Store.Sessions().Finish(sessionID, baseline, avgBPM); err != nil {
			log.Printf("Failed to finalize session record: %v", err)
		}
	}

	log.Printf("Measurement session %s stopped", sessionID)
}
