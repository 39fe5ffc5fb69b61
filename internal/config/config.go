package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSourceURL is the CBR daily rates endpoint
const DefaultSourceURL = "https://www.cbr-xml-daily.ru/daily_json.js"

type Source struct {
	URL string `yaml:"url"`
	// TimeoutSec is the per-request timeout. Zero means no timeout.
	TimeoutSec int `yaml:"timeout_sec"`
}

type Export struct {
	OutDir       string   `yaml:"out_dir"`
	BaseName     string   `yaml:"base_name"`
	Formats      []string `yaml:"formats"`
	SampleFormat string   `yaml:"sample_format"`
	SampleChars  int      `yaml:"sample_chars"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Archive struct {
	Path string `yaml:"path"`
}

type Metrics struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	Source  Source  `yaml:"source"`
	Export  Export  `yaml:"export"`
	Log     Log     `yaml:"log"`
	Server  Server  `yaml:"server"`
	Archive Archive `yaml:"archive"`
	Metrics Metrics `yaml:"metrics"`
}

// Default returns the configuration of the plain one-shot run
func Default() Config {
	return Config{
		Source: Source{URL: DefaultSourceURL},
		Export: Export{
			OutDir:       ".",
			BaseName:     "currencies",
			Formats:      []string{"yaml", "json", "csv"},
			SampleFormat: "yaml",
			SampleChars:  200,
		},
		Log:     Log{Level: "INFO"},
		Server:  Server{Addr: ":8080", AllowedOrigins: []string{"*"}},
		Archive: Archive{Path: "data"},
		Metrics: Metrics{Enabled: true},
	}
}

// Load reads a YAML config from path. An empty path or a missing file yields
// the defaults. Environment variables override the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CBR_URL"); v != "" {
		cfg.Source.URL = v
	}
	if x, ok := envInt("CBR_TIMEOUT_SEC"); ok && x >= 0 {
		cfg.Source.TimeoutSec = x
	}
	if v := os.Getenv("EXPORT_OUT_DIR"); v != "" {
		cfg.Export.OutDir = v
	}
	if v := os.Getenv("EXPORT_FORMATS"); v != "" {
		cfg.Export.Formats = SplitCSV(v)
	}
	if x, ok := envInt("EXPORT_SAMPLE_CHARS"); ok && x >= 0 {
		cfg.Export.SampleChars = x
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v, ok := envBool("LOG_JSON"); ok {
		cfg.Log.JSON = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("ARCHIVE_PATH"); v != "" {
		cfg.Archive.Path = v
	}
	if v, ok := envBool("METRICS_ENABLED"); ok {
		cfg.Metrics.Enabled = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	x, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return x, true
}

func envBool(key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y":
		return true, true
	case "0", "false", "no", "n":
		return false, true
	}
	return false, false
}

// SplitCSV splits a comma separated list, dropping blanks
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
