// Package tray provides a system tray interface for the mierzo-puls pulse
// measurement system.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(measuring bool)
	onSettings func()
	onQuit     func()
	measuring  bool
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle  *systray.MenuItem
	menuLastBPM *systray.MenuItem
}

// New creates a new Tray instance. Measurement is off until toggled.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback function to be called when measuring is toggled.
func (t *Tray) OnToggle(fn func(measuring bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("MierzoPuls")
	systray.SetTooltip("MierzoPuls Pulse Measurement")

	// Create menu items
	t.menuToggle = systray.AddMenuItem("▶ Start measurement", "Start or stop a measurement session")
	systray.AddSeparator()

	t.menuLastBPM = systray.AddMenuItem("Pulse: --", "Last measured pulse")
	t.menuLastBPM.Disable()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit MierzoPuls")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
// It performs cleanup tasks.
func (t *Tray) onExit() {
	// Cleanup resources if needed
}

// handleToggle handles the start/stop menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.measuring = !t.measuring
	measuring := t.measuring

	// Update menu item text based on new state
	if measuring {
		t.menuToggle.SetTitle("■ Stop measurement")
	} else {
		t.menuToggle.SetTitle("▶ Start measurement")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(measuring)
	}
}

// handleSettings handles the dashboard menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetBPM updates the pulse display in the menu. Zero clears it.
func (t *Tray) SetBPM(bpm int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastBPM != nil {
		if bpm <= 0 {
			t.menuLastBPM.SetTitle("Pulse: --")
		} else {
			t.menuLastBPM.SetTitle(fmt.Sprintf("Pulse: %d BPM", bpm))
		}
	}
}

// IsMeasuring returns whether a measurement session is active.
func (t *Tray) IsMeasuring() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.measuring
}
