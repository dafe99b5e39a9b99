// Command batchdemo opens a window and draws one of the instanced batch
// scenes.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/Faultbox/batchforge/internal/app"
	"github.com/Faultbox/batchforge/internal/config"
	"github.com/Faultbox/batchforge/internal/logger"
)

var flagProfile = flag.String("profile", "", "Write a profile: cpu, mem or trace")

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if stop := startProfile(*flagProfile); stop != nil {
		defer stop()
	}

	logger.Info("=== batchforge demo ===", zap.String("scene", cfg.Demo.Scene))
	logger.Sugar.Debugf("Config: %+v", cfg)

	scene, err := sceneFor(cfg)
	if err != nil {
		logger.Fatal("unknown scene", zap.Error(err))
	}

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Load(scene); err != nil {
		// Asset errors are unrecoverable for a demo.
		logger.Fatal("failed to load scene", zap.Error(err))
	}

	if err := a.Run(); err != nil {
		logger.Error("frame error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("closed normally")
}

func startProfile(mode string) func() {
	var opt func(*profile.Profile)
	switch mode {
	case "":
		return nil
	case "cpu":
		opt = profile.CPUProfile
	case "mem":
		opt = profile.MemProfile
	case "trace":
		opt = profile.TraceProfile
	default:
		logger.Warn("unknown profile mode", zap.String("mode", mode))
		return nil
	}
	p := profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook)
	return p.Stop
}
