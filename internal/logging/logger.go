// Package logging provides categorized, config-driven logging for sprinkle.
// All categories share one zap core; each category is a named child logger that can be
// switched off individually. Nothing is written below warn level unless verbose mode is on,
// so the generated command is the only thing a normal run prints.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup, config resolution
	CategoryAPI        Category = "api"        // Text-generation API calls
	CategoryPerception Category = "perception" // Prompt construction for the model
	CategoryResolver   Category = "resolver"   // Placeholder fan-out/join
	CategoryPipeline   Category = "pipeline"   // Parse/merge/dispatch orchestration
	CategoryEditor     Category = "editor"     // Interactive review step
	CategoryTactile    Category = "tactile"    // Print/exec dispatch
	CategoryStore      Category = "store"      // History database
)

// Options configures the root logger.
type Options struct {
	// Verbose lowers the level to debug and enables every category.
	Verbose bool
	// Level is one of debug, info, warn, error. Ignored when Verbose is set.
	Level string
	// JSON switches the encoder from console to JSON.
	JSON bool
	// Categories disables individual categories when mapped to false.
	Categories map[string]bool
	// Output overrides the destination (stderr by default).
	Output zapcore.WriteSyncer
}

var (
	mu         sync.RWMutex
	root       = zap.NewNop()
	categories map[string]bool
	verbose    bool
)

// Initialize builds the root logger. It may be called again to reconfigure.
func Initialize(opts Options) error {
	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	} else if opts.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encoder := zapcore.NewConsoleEncoder(encCfg)
	if opts.JSON {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	out := opts.Output
	if out == nil {
		out = zapcore.Lock(os.Stderr)
	}

	logger := zap.New(zapcore.NewCore(encoder, out, zap.NewAtomicLevelAt(level)))

	mu.Lock()
	defer mu.Unlock()
	root = logger
	categories = opts.Categories
	verbose = opts.Verbose
	return nil
}

// SetRoot replaces the root logger directly. Used by tests with zaptest loggers.
func SetRoot(logger *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	root = logger
	categories = nil
}

// IsVerbose reports whether verbose mode was requested at Initialize.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// IsCategoryEnabled returns whether a specific category is enabled.
// Categories are enabled unless explicitly mapped to false; verbose mode enables all of them.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if verbose || categories == nil {
		return true
	}
	enabled, ok := categories[string(category)]
	return !ok || enabled
}

// Get returns the logger for the given category, or a no-op logger if it is disabled.
func Get(category Category) *zap.Logger {
	if !IsCategoryEnabled(category) {
		return zap.NewNop()
	}
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(string(category))
}

// WithRequestID returns a category logger tagged with a run correlation ID.
func WithRequestID(category Category, requestID string) *zap.Logger {
	return Get(category).With(zap.String("run", requestID))
}

// Sync flushes buffered log entries. Call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer measures an operation and logs its duration.
type Timer struct {
	logger *zap.Logger
	op     string
	start  time.Time
}

// StartTimer begins timing an operation in the given category.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{logger: Get(category), op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.logger.Debug(t.op+" completed", zap.Duration("elapsed", elapsed))
	return elapsed
}

// StopWithThreshold logs a warning if the operation exceeded threshold.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		t.logger.Warn(t.op+" was slow", zap.Duration("elapsed", elapsed), zap.Duration("threshold", threshold))
		return elapsed
	}
	t.logger.Debug(t.op+" completed", zap.Duration("elapsed", elapsed))
	return elapsed
}
