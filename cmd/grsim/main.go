package main

import (
	"flag"
	"fmt"
	"log"

	"OSPFGraceRestart/internal/config"
	"OSPFGraceRestart/internal/grsim"
	"OSPFGraceRestart/internal/logger"
	zapfactory "OSPFGraceRestart/internal/logger/zap"
)

var defaultConfigPath = "config/grsim/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	only := flag.String("scenario", "", "run only the named scenario (default: all)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %q: %v", *configPath, err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var lgr logger.Logger
	if cfg.Logger.Active {
		zapLog, err := zapfactory.New(cfg.Logger)
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}
		defer func() { _ = zapLog.Sync() }()
		lgr = zapfactory.NewZapAdapter(zapLog)
	} else {
		lgr = &logger.NopLogger{}
	}
	cfg.LogConfig(lgr)

	scenarios := grsim.All()
	for _, s := range scenarios {
		if *only != "" && s.Name != *only {
			continue
		}
		fmt.Printf("=== scenario: %s ===\n", s.Name)
		s.Run(lgr.Named(s.Name), cfg.GR)
	}
}
