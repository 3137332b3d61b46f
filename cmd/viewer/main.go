// Package main is the entry point for the assetview model viewer.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/assetview/internal/config"
	"github.com/Faultbox/assetview/internal/logger"
	"github.com/Faultbox/assetview/internal/viewer"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] <model.gltf|model.glb|model.obj>\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprint(flag.CommandLine.Output(), `
Controls:
  W A S D       move
  Space/LShift  up/down
  Mouse         look (Tab releases the cursor)
  Wheel         zoom
  F             wireframe
  B             bounding box
  R             reload
  F12           screenshot
  Esc           quit
`)
	}
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Model.Path == "" {
		flag.Usage()
		os.Exit(2)
	}

	logOpts := logger.Options{Level: cfg.Logging.Level, Console: true}
	if cfg.Logging.LogFile != "" {
		logOpts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.Init(logOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("assetview starting", zap.String("model", cfg.Model.Path))
	logger.Sugar.Debugf("config: %+v", cfg)

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
