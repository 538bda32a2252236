package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"indentpaste/buffer"
	"indentpaste/clipboard"
	"indentpaste/engine"
	"indentpaste/logger"
	"indentpaste/types"

	"github.com/neovim/go-client/nvim"
)

type Config struct {
	LogLevel         string `json:"log_level"`          // trace, debug, info, warn, error
	MultiCursorPaste string `json:"multi_cursor_paste"` // spread, full
	FormatOnPaste    bool   `json:"format_on_paste"`
	Clipboard        string `json:"clipboard"` // register, system, auto
	Register         string `json:"register"`
	PasteTimeout     int    `json:"paste_timeout"` // in milliseconds
}

func defaultConfig() Config {
	return Config{
		LogLevel:         "info",
		MultiCursorPaste: string(types.PasteModeSpread),
		Clipboard:        clipboard.KindRegister,
		Register:         clipboard.DefaultRegister,
		PasteTimeout:     3000,
	}
}

// parseConfig overlays raw JSON on the defaults. A malformed config is
// reported and the defaults are used as a whole.
func parseConfig(raw string) (Config, error) {
	config := defaultConfig()
	if raw == "" {
		return config, nil
	}
	if err := json.Unmarshal([]byte(raw), &config); err != nil {
		return defaultConfig(), err
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.PasteTimeout < 0 {
		config.PasteTimeout = 0
	}
	return config, nil
}

func (c Config) engineConfig() engine.EngineConfig {
	defaults := engine.DefaultSettings()
	if mode, ok := engine.ParsePasteMode(c.MultiCursorPaste); ok {
		defaults.MultiCursorPaste = mode
	} else if c.MultiCursorPaste != "" {
		logger.Warn("invalid multi_cursor_paste %q, using %s", c.MultiCursorPaste, defaults.MultiCursorPaste)
	}
	defaults.FormatOnPaste = c.FormatOnPaste

	return engine.EngineConfig{
		Defaults:     defaults,
		PasteTimeout: time.Duration(c.PasteTimeout) * time.Millisecond,
	}
}

// Setup logger to log to a file in the same directory as the executable
// Caller must defer logger.Close()
func setupLogger(logLevel string) *logger.LimitedLogger {
	execPath, err := os.Executable()
	if err != nil {
		log.Fatalf("error getting executable path: %v", err)
	}
	logPath := filepath.Join(filepath.Dir(execPath), "indentpaste.log")

	limitedLogger, err := logger.Open(logPath, logger.ParseLogLevel(logLevel))
	if err != nil {
		log.Fatalf("error opening log: %v", err)
	}
	log.SetOutput(limitedLogger)
	return limitedLogger
}

func main() {
	config, configErr := parseConfig(os.Getenv("INDENTPASTE_CONFIG"))

	limitedLogger := setupLogger(config.LogLevel)
	defer limitedLogger.Close()

	if configErr != nil {
		logger.Warn("invalid INDENTPASTE_CONFIG, using defaults: %v", configErr)
	}
	log.Printf("config: %+v", config)

	// stdout carries msgpack-rpc, so nothing else may write to it
	n, err := nvim.New(os.Stdin, os.Stdout, os.Stdout, log.Printf)
	if err != nil {
		logger.Fatal("error creating nvim client: %v", err)
	}

	buf := buffer.New(buffer.Config{Register: config.Register})
	buf.SetClient(n)

	eng, err := engine.NewEngine(buf, clipboard.New(config.Clipboard, n, config.Register), buf, config.engineConfig())
	if err != nil {
		logger.Fatal("error creating engine: %v", err)
	}

	err = buf.RegisterPasteHandler(func(sels []types.Selection) (string, error) {
		result, err := eng.Paste(context.Background(), engine.PasteRequest{Selections: sels})
		if err != nil {
			logger.Error("paste failed: %v", err)
			return "", err
		}
		return string(result.Outcome), nil
	})
	if err != nil {
		logger.Fatal("error registering handler: %v", err)
	}

	if err := n.Serve(); err != nil {
		logger.Error("error serving: %v", err)
	}
}
