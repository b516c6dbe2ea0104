package config

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vango-dev/vmini/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "vmini.json"

	// TOMLConfigFileName is the name of the TOML configuration file.
	TOMLConfigFileName = "vmini.toml"

	// DefaultDevtoolsAddr is the default devtools inspector address.
	DefaultDevtoolsAddr = "localhost:7070"

	// DefaultMaxFlushPasses bounds consecutive flush passes triggered by
	// jobs that keep re-queueing themselves.
	DefaultMaxFlushPasses = 100

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "vmini"
)

// Config represents the complete vmini configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" toml:"name"`

	// Log configures structured logging.
	Log LogConfig `json:"log,omitempty" toml:"log"`

	// Scheduler configures the job queue.
	Scheduler SchedulerConfig `json:"scheduler,omitempty" toml:"scheduler"`

	// Renderer configures the reconciler.
	Renderer RendererConfig `json:"renderer,omitempty" toml:"renderer"`

	// Metrics configures the Prometheus collector.
	Metrics MetricsConfig `json:"metrics,omitempty" toml:"metrics"`

	// Devtools configures the inspector server.
	Devtools DevtoolsConfig `json:"devtools,omitempty" toml:"devtools"`

	// Bench configures the keyed diff benchmark command.
	Bench BenchConfig `json:"bench,omitempty" toml:"bench"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig configures log/slog output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" toml:"level"`

	// Format is text or json.
	Format string `json:"format,omitempty" toml:"format"`
}

// SchedulerConfig configures the job queue.
type SchedulerConfig struct {
	// MaxFlushPasses stops runaway re-queue chains. Zero disables the guard.
	MaxFlushPasses int `json:"maxFlushPasses,omitempty" toml:"maxFlushPasses"`
}

// RendererConfig configures the reconciler.
type RendererConfig struct {
	// WarnMissingKeys logs W001 when keyed lists contain unkeyed siblings.
	WarnMissingKeys *bool `json:"warnMissingKeys,omitempty" toml:"warnMissingKeys"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vmini").
	Namespace string `json:"namespace,omitempty" toml:"namespace"`
}

// DevtoolsConfig configures the inspector server.
type DevtoolsConfig struct {
	// Enabled starts the inspector with `vmini serve`.
	Enabled bool `json:"enabled,omitempty" toml:"enabled"`

	// Addr is the listen address.
	Addr string `json:"addr,omitempty" toml:"addr"`
}

// BenchConfig configures the keyed diff benchmark.
type BenchConfig struct {
	// Size is the number of keyed children per list.
	Size int `json:"size,omitempty" toml:"size"`

	// Iterations is the number of random permutations to patch.
	Iterations int `json:"iterations,omitempty" toml:"iterations"`

	// Seed seeds the permutation generator.
	Seed int64 `json:"seed,omitempty" toml:"seed"`
}

// New creates a new Config with default values.
func New() *Config {
	warn := true
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Scheduler: SchedulerConfig{
			MaxFlushPasses: DefaultMaxFlushPasses,
		},
		Renderer: RendererConfig{
			WarnMissingKeys: &warn,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Devtools: DevtoolsConfig{
			Addr: DefaultDevtoolsAddr,
		},
		Bench: BenchConfig{
			Size:       200,
			Iterations: 50,
			Seed:       1,
		},
	}
}

// Load reads configuration from the specified directory.
// vmini.json wins over vmini.toml when both exist.
func Load(dir string) (*Config, error) {
	jsonPath := filepath.Join(dir, ConfigFileName)
	if fileExists(jsonPath) {
		return LoadFile(jsonPath)
	}
	tomlPath := filepath.Join(dir, TOMLConfigFileName)
	if fileExists(tomlPath) {
		return LoadFile(tomlPath)
	}
	return nil, errors.New("E104").
		WithDetail("No " + ConfigFileName + " or " + TOMLConfigFileName + " found in " + dir).
		WithSuggestion("Create vmini.json or run without --config to use defaults")
}

// LoadFile reads configuration from the specified file path.
// The format is chosen by extension: .toml is TOML, anything else JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E104").WithDetail("No config file at " + path)
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			ve := errors.New("E102").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid TOML")
			var perr toml.ParseError
			if stderrors.As(err, &perr) {
				ve.WithLocation(path, perr.Position.Line, 0)
			}
			return nil, ve
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E102").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path, choosing the
// encoding by extension.
func (c *Config) SaveTo(path string) error {
	var data []byte
	if isTOML(path) {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(c); err != nil {
			return errors.New("E101").Wrap(err)
		}
		data = []byte(sb.String())
	} else {
		out, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return errors.New("E101").Wrap(err)
		}
		data = append(out, '\n')
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Devtools.Addr == "" {
		c.Devtools.Addr = DefaultDevtoolsAddr
	}
	if c.Renderer.WarnMissingKeys == nil {
		warn := true
		c.Renderer.WarnMissingKeys = &warn
	}
	if c.Bench.Size == 0 {
		c.Bench.Size = 200
	}
	if c.Bench.Iterations == 0 {
		c.Bench.Iterations = 50
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E103").
			WithDetailf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E103").
			WithDetailf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Scheduler.MaxFlushPasses < 0 {
		return errors.New("E103").
			WithDetail("scheduler.maxFlushPasses must not be negative")
	}
	if c.Bench.Size < 0 || c.Bench.Iterations < 0 {
		return errors.New("E103").
			WithDetail("bench.size and bench.iterations must not be negative")
	}
	return nil
}

// WarnMissingKeys reports whether W001 warnings are enabled.
func (c *Config) WarnMissingKeys() bool {
	return c.Renderer.WarnMissingKeys == nil || *c.Renderer.WarnMissingKeys
}

// SlogLevel returns the configured slog level.
func (c *Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.Log.Level)
	return lvl
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	return fileExists(filepath.Join(dir, ConfigFileName)) ||
		fileExists(filepath.Join(dir, TOMLConfigFileName))
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E104").
				WithDetail("No vmini config found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
