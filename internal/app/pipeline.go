package app

import (
	"log"
	"time"

	"github.com/LeCadavrExquis/mierzo-puls/internal/analyze"
	"github.com/LeCadavrExquis/mierzo-puls/internal/capture"
	"github.com/LeCadavrExquis/mierzo-puls/internal/frame"
	"github.com/LeCadavrExquis/mierzo-puls/internal/store"
)

// runGrabber polls the camera at the configured rate and publishes frames
// into the mailbox. Publishing never blocks: if the analyst is still busy,
// the unconsumed frame is replaced, so the analyst always works on the
// latest frame and never falls behind.
func (a *App) runGrabber(stopCh <-chan struct{}, mailbox *capture.Mailbox) {
	defer a.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(a.config.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			raw, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}
			mailbox.Publish(raw)
		}
	}
}

// runAnalyst is the single consumer of the mailbox. It converts each raw
// frame, drives the state machine in strict arrival order and records the
// per-frame sample. A frame that fails conversion is skipped without
// touching the machine's phase.
func (a *App) runAnalyst(mailbox *capture.Mailbox, machine *analyze.StateMachine, sessionID string) {
	defer a.wg.Done()

	for {
		raw := mailbox.Next()
		if raw == nil {
			return
		}

		img, err := frame.Convert(raw)
		if err != nil {
			log.Printf("Skipping frame: %v", err)
			continue
		}

		res := machine.Process(img)
		a.publish(img, res, sessionID)
	}
}

// publish records the frame result and exposes it to the UI boundary.
func (a *App) publish(img *frame.RGBA, res analyze.Result, sessionID string) {
	now := time.Now()

	a.mu.Lock()
	if res.Beat {
		a.lastBPM = res.BPM
		a.bpmSum += float64(res.BPM)
		a.bpmN++
	}
	a.last = Measurement{
		SessionID: sessionID,
		Timestamp: now.UnixMilli(),
		Phase:     res.Phase.String(),
		Mean:      res.Mean,
		Finger:    res.FingerPresent,
		Progress:  res.Progress,
		BPM:       a.lastBPM,
	}
	a.hasLast = true
	a.output = img
	a.mu.Unlock()

	if a.config.Store == nil {
		return
	}

	sample := &store.Sample{
		SessionID: sessionID,
		TsMs:      now.UnixMilli(),
		Phase:     res.Phase.String(),
		Red:       res.Mean.Red,
		Green:     res.Mean.Green,
		Blue:      res.Mean.Blue,
		Finger:    res.FingerPresent,
		BPM:       a.lastBPM,
	}
	if err := a.config.Store.Samples().Add(sample); err != nil {
		log.Printf("Failed to record sample: %v", err)
	}
}
