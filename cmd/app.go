package cmd

import (
	"os"

	"github.com/kayz/adcraft/internal/adgen"
	"github.com/kayz/adcraft/internal/ai"
	"github.com/kayz/adcraft/internal/config"
	"github.com/kayz/adcraft/internal/logger"
)

// app holds the process-wide components shared by every command.
type app struct {
	cfg          *config.Config
	log          *logger.Zap
	orchestrator *adgen.Orchestrator
}

// loadConfig reads file and environment, then applies flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(config.ResolvePath(configPath), os.LookupEnv)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config) {
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
}

func newLogger(cfg config.LoggingConfig, output string) (*logger.Zap, error) {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logger.New(logger.Options{
		Level:  level,
		Format: cfg.Format,
		Output: output,
	})
}

// newApp wires config, logger, gateway and orchestrator. Missing
// credentials fail here, before anything listens.
func newApp(logOutput string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg.Logging, logOutput)
	if err != nil {
		return nil, err
	}

	gateway, err := ai.New(cfg.AI, log.Named("ai"))
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	orchestrator, err := adgen.New(gateway,
		adgen.WithLogger(log.Named("adgen")),
		adgen.WithExtractionRecheck(cfg.AI.RecheckExtracted),
	)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	return &app{cfg: cfg, log: log, orchestrator: orchestrator}, nil
}

func (a *app) close() {
	_ = a.log.Sync()
}
