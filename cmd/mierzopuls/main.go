package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/LeCadavrExquis/mierzo-puls/internal/app"
	"github.com/LeCadavrExquis/mierzo-puls/internal/server"
	"github.com/LeCadavrExquis/mierzo-puls/internal/store"
	"github.com/LeCadavrExquis/mierzo-puls/internal/tray"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "HTTP listen address")
		cameraID = flag.Int("camera", 0, "camera device ID")
		fps      = flag.Int("fps", app.DefaultFPS, "camera frame rate")
		window   = flag.Duration("calibration-window", 3*time.Second, "baseline calibration window")
		margin   = flag.Float64("margin", 10, "threshold margin in percent of the baseline")
	)
	flag.Parse()

	fmt.Println("MierzoPuls - Camera Pulse Measurement")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".mierzopuls")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "mierzopuls.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	application := app.New(app.Config{
		Store:             st,
		CameraID:          *cameraID,
		FPS:               *fps,
		CalibrationWindow: *window,
		MarginPercent:     *margin,
	})

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start server
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       application,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wire the tray to the pipeline. systray owns the main thread.
	tr := tray.New()
	tr.OnToggle(func(measuring bool) {
		if measuring {
			if err := application.Start(); err != nil {
				log.Printf("Failed to start measurement: %v", err)
			}
		} else {
			application.Stop()
		}
	})
	tr.OnSettings(func() {
		log.Printf("Dashboard available at http://localhost%s", *addr)
	})
	tr.OnQuit(func() {
		application.Stop()
	})

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			tr.SetBPM(application.LastBPM())
		}
	}()

	tr.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mierzopuls/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mierzopuls", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
