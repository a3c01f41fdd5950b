// Package logging provides config-driven categorized file-based logging for
// the cortexd engine. Logs are written to .cortex/logs/ with one file per
// category. Logging is controlled by debug_mode in .cortex/config.yaml -
// when false, nothing is written and Get() returns a no-op logger.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Category names one of the engine's subsystems for log routing.
type Category string

const (
	CategoryBoot       Category = "boot"       // process startup/shutdown
	CategoryKernel     Category = "kernel"     // SIMD kernel dispatch
	CategoryVSA        Category = "vsa"        // hypervector algebra
	CategorySymbol     Category = "symbol"     // symbol allocation
	CategoryGraph      Category = "graph"      // triple graph mutation/query
	CategoryStore      Category = "store"      // durable store I/O
	CategoryProvenance Category = "provenance" // derivation record bookkeeping
	CategoryEngine     Category = "engine"     // facade composition
	CategoryRules      Category = "rules"      // forward-chaining rule engine
	CategoryFusion     Category = "fusion"     // confidence fusion
	CategoryGap        Category = "gap"        // gap analysis
	CategorySchema     Category = "schema"     // schema discovery
	CategoryAgent      Category = "agent"      // OODA loop
	CategoryTrigger    Category = "trigger"    // trigger evaluation
	CategoryPsyche     Category = "psyche"     // persona/shadow/archetype evolution
)

type loggingConfig struct {
	Logging struct {
		DebugMode  bool            `yaml:"debug_mode"`
		Categories map[string]bool `yaml:"categories"`
		Level      string          `yaml:"level"`
	} `yaml:"logging"`
}

// Logger wraps a standard library logger with category-scoped file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex

	logsDir   string
	workspace string
	cfg       loggingConfig
	cfgMu     sync.RWMutex
	logLevel  = LevelInfo
)

// Initialize sets the workspace root and loads .cortex/config.yaml. Call once
// at process startup before any Get(). A missing config file is treated as
// debug_mode: false (silent) rather than an error.
func Initialize(ws string) error {
	if ws == "" {
		return fmt.Errorf("logging: workspace path required")
	}
	workspace = ws
	logsDir = filepath.Join(workspace, ".cortex", "logs")

	if err := loadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] warning: could not load config: %v\n", err)
		cfg.Logging.DebugMode = false
	}
	if !cfg.Logging.DebugMode {
		return nil
	}
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("logging: create logs dir: %w", err)
	}

	b := Get(CategoryBoot)
	b.Info("logging initialized workspace=%s level=%s", workspace, cfg.Logging.Level)
	return nil
}

func loadConfig() error {
	cfgMu.Lock()
	defer cfgMu.Unlock()

	path := filepath.Join(workspace, ".cortex", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Logging.DebugMode = false
			return nil
		}
		return err
	}
	var c loggingConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	cfg = c
	switch cfg.Logging.Level {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	return nil
}

// ReloadConfig re-reads the config file. Safe to call at runtime.
func ReloadConfig() error { return loadConfig() }

// IsDebugMode reports whether logging is active at all.
func IsDebugMode() bool {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return cfg.Logging.DebugMode
}

func isCategoryEnabled(c Category) bool {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	if !cfg.Logging.DebugMode {
		return false
	}
	if cfg.Logging.Categories == nil {
		return true
	}
	enabled, ok := cfg.Logging.Categories[string(c)]
	if !ok {
		return true
	}
	return enabled
}

// Get returns (creating if necessary) the logger for a category. When the
// category or logging overall is disabled, a no-op logger is returned so
// callers never need to branch on IsDebugMode themselves.
func Get(category Category) *Logger {
	if !isCategoryEnabled(category) || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	path := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] warning: could not open %s: %v\n", path, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] "+format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] "+format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] "+format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] "+format, args...)
}

// CloseAll closes every open log file. Call at shutdown.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Timer measures the duration of an operation and logs it on Stop.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation in the given category.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs a warning instead of a debug line when elapsed
// exceeds threshold — used to flag slow kernel dispatches or rule passes.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
