package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kayz/adcraft/internal/ai"
)

// isolateEnv clears every variable config reads and resets flag globals.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "AI_PROVIDER", "AI_TIMEOUT",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "ANTHROPIC_API_KEY", "ANTHROPIC_MODEL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("ADCRAFT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	prevLevel, prevFormat, prevPath, prevPort := logLevel, logFormat, configPath, servePort
	t.Cleanup(func() {
		logLevel, logFormat, configPath, servePort = prevLevel, prevFormat, prevPath, prevPort
	})
	logLevel, logFormat, configPath, servePort = "", "", "", 0
}

func TestLoadConfigFlagsOverrideEnvAndFile(t *testing.T) {
	isolateEnv(t)

	cfgFile := filepath.Join(t.TempDir(), "adcraft.yaml")
	if err := os.WriteFile(cfgFile, []byte("server:\n  port: 4000\nlogging:\n  level: warn\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	configPath = cfgFile
	t.Setenv("PORT", "5000")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != 5000 || cfg.Logging.Level != "error" {
		t.Fatalf("env should override file: port=%d level=%s", cfg.Server.Port, cfg.Logging.Level)
	}

	servePort = 6000
	logLevel = "debug"
	cfg, err = loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != 6000 || cfg.Logging.Level != "debug" {
		t.Fatalf("flags should override env: port=%d level=%s", cfg.Server.Port, cfg.Logging.Level)
	}
}

func TestNewAppFailsFastWithoutCredentials(t *testing.T) {
	isolateEnv(t)

	_, err := newApp("stderr")
	var cfgErr *ai.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Setting != "OPENAI_API_KEY" {
		t.Fatalf("unexpected setting %q", cfgErr.Setting)
	}
}

func TestNewAppWiresOrchestrator(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	a, err := newApp("stderr")
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.close()
	if a.orchestrator == nil || a.cfg.Server.Port != 3000 {
		t.Fatalf("unexpected app %+v", a)
	}
}

func TestNewAppRejectsUnknownLogLevel(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	logLevel = "loud"

	if _, err := newApp("stderr"); err == nil {
		t.Fatalf("expected invalid log level error")
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	if !strings.HasPrefix(out.String(), "adcraft "+version) {
		t.Fatalf("unexpected version output %q", out.String())
	}
}
