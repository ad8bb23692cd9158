// internal/core/config.go
// Layered configuration with koanf: defaults < file < env < flag overrides

package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SURFSCAN_"

// Config is the complete application configuration.
type Config struct {
	Scanner ScannerConfig `koanf:"scanner"`
	Output  OutputConfig  `koanf:"output"`
	Notify  NotifyConfig  `koanf:"notify"`
	History HistoryConfig `koanf:"history"`
	Log     LogConfig     `koanf:"log"`
}

// ScannerConfig tunes the probe engine.
type ScannerConfig struct {
	Mode            string        `koanf:"mode"`       // connect, syn, udp, comprehensive
	BatchSize       int           `koanf:"batch_size"` // concurrent probes per batch
	TCPTimeout      time.Duration `koanf:"tcp_timeout"`
	UDPTimeout      time.Duration `koanf:"udp_timeout"`
	RateLimit       int           `koanf:"rate_limit"` // probe launches per second
	Adaptive        bool          `koanf:"adaptive"`
	BannerGrab      bool          `koanf:"banner_grab"`
	ExternalTool    string        `koanf:"external_tool"` // path to SYN/UDP collaborator
	ExternalTimeout time.Duration `koanf:"external_timeout"`
	UDPViaTool      bool          `koanf:"udp_via_tool"`
}

// OutputConfig selects result sinks.
type OutputConfig struct {
	Formats   []string `koanf:"formats"` // console, jsonl
	Directory string   `koanf:"directory"`
	Prefix    string   `koanf:"prefix"`
	Color     bool     `koanf:"color"`
	Verbose   bool     `koanf:"verbose"`
}

// NotifyConfig configures the open-port event publisher. Empty URL
// disables publication.
type NotifyConfig struct {
	URL     string `koanf:"url"`
	Subject string `koanf:"subject"`
}

// HistoryConfig configures scan persistence.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, console
	File   string `koanf:"file"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Scanner: ScannerConfig{
			Mode:            "connect",
			BatchSize:       25,
			TCPTimeout:      250 * time.Millisecond,
			UDPTimeout:      time.Second,
			RateLimit:       500,
			Adaptive:        true,
			BannerGrab:      true,
			ExternalTimeout: 10 * time.Second,
		},
		Output: OutputConfig{
			Formats:   []string{"console"},
			Directory: "./results",
			Prefix:    "surfscan",
			Color:     true,
		},
		Notify: NotifyConfig{
			Subject: "surfscan.openport",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "surfscan.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration. Priority, lowest to highest: struct
// defaults, YAML config file, SURFSCAN_* environment variables, and the
// overrides map (CLI flags).
func Load(configPath string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// SURFSCAN_SCANNER_BATCH_SIZE=50 becomes scanner.batch_size.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(s, "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flag overrides: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Scanner.Mode {
	case "connect", "syn", "udp", "comprehensive":
	default:
		return fmt.Errorf("invalid scanner mode: %q", cfg.Scanner.Mode)
	}

	if cfg.Scanner.BatchSize < 1 || cfg.Scanner.BatchSize > 1000 {
		return fmt.Errorf("invalid batch_size: %d (must be between 1 and 1000)", cfg.Scanner.BatchSize)
	}
	if cfg.Scanner.TCPTimeout < 10*time.Millisecond || cfg.Scanner.TCPTimeout > time.Minute {
		return fmt.Errorf("invalid tcp_timeout: %v", cfg.Scanner.TCPTimeout)
	}
	if cfg.Scanner.UDPTimeout < 10*time.Millisecond || cfg.Scanner.UDPTimeout > time.Minute {
		return fmt.Errorf("invalid udp_timeout: %v", cfg.Scanner.UDPTimeout)
	}
	if cfg.Scanner.RateLimit < 0 {
		return fmt.Errorf("invalid rate_limit: %d", cfg.Scanner.RateLimit)
	}

	for _, f := range cfg.Output.Formats {
		if f != "console" && f != "jsonl" {
			return fmt.Errorf("unknown output format: %q", f)
		}
	}
	return nil
}
