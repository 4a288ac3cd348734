package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/ghost-trail/audio"
	"github.com/lixenwraith/ghost-trail/config"
	"github.com/lixenwraith/ghost-trail/core"
)

var (
	fadeFlag  = flag.String("fade", "", "Fade backend: cpu, shader (overrides GHOST_FADE_BACKEND)")
	curveFlag = flag.String("curve", "", "Fade curve: linear, smooth (overrides GHOST_CURVE)")
	muteFlag  = flag.Bool("mute", false, "Disable audio")
	debugFlag = flag.Bool("debug", false, "Write debug logs to logs/")
)

func main() {
	flag.Parse()

	logger, logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}
	defer logger.Sync()

	cfg, err := loadConfig(*fadeFlag, *curveFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	// Panics in scheduler or input goroutines restore the terminal before printing
	core.SetCrashCleanup(screen.Fini)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	sound := audio.NewSoundManager(logger)
	if !*muteFlag {
		// Non-fatal, the sandbox runs silent without a device
		if err := sound.Initialize(); err != nil {
			logger.Warn("audio initialization failed", zap.Error(err))
		}
	}
	defer sound.Cleanup()

	sb, err := newSandbox(screen, cfg, nil, sound, logger, time.Now().UnixNano())
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start sandbox: %v\n", err)
		os.Exit(1)
	}

	logger.Info("sandbox started",
		zap.Stringer("backend", cfg.Backend()),
		zap.Stringer("curve", cfg.CurvePolicy()),
		zap.Duration("fade", cfg.FadeDuration),
		zap.Int("pool", cfg.PoolSize),
	)
	sb.run()
	sb.shutdown()
}

// loadConfig reads GHOST_* variables and applies non-empty flag overrides
func loadConfig(backend, curve string) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if backend != "" {
		cfg.FadeBackend = backend
	}
	if curve != "" {
		cfg.Curve = curve
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
