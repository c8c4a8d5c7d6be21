package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidSTTProviders lists the known STT provider names. Used by [Validate]
// to warn about unrecognised names.
var ValidSTTProviders = []string{"whisper", "whisper-native", "openai"}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Scoring
	if cfg.Scoring.Transcriber != "" && !cfg.Scoring.Transcriber.IsValid() {
		errs = append(errs, fmt.Errorf("scoring.transcriber %q is invalid; valid values: identity, soundex, metaphone", cfg.Scoring.Transcriber))
	}
	for name, v := range map[string]float64{
		"scoring.excellent_threshold": cfg.Scoring.ExcellentThreshold,
		"scoring.good_threshold":      cfg.Scoring.GoodThreshold,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s %.2f is out of range [0, 1]", name, v))
		}
	}
	if cfg.Scoring.ExcellentThreshold != 0 && cfg.Scoring.GoodThreshold != 0 &&
		cfg.Scoring.ExcellentThreshold < cfg.Scoring.GoodThreshold {
		errs = append(errs, fmt.Errorf("scoring.excellent_threshold %.2f is below scoring.good_threshold %.2f", cfg.Scoring.ExcellentThreshold, cfg.Scoring.GoodThreshold))
	}

	// STT
	errs = append(errs, validateSTT("stt", cfg.STT)...)
	if fb := cfg.STT.Fallback; fb != nil {
		if cfg.STT.Name == "" {
			errs = append(errs, errors.New("stt.fallback requires stt.name to be set"))
		}
		if fb.Name == "" {
			errs = append(errs, errors.New("stt.fallback.name is required when stt.fallback is set"))
		}
		if fb.Fallback != nil {
			errs = append(errs, errors.New("stt.fallback.fallback: nested fallbacks are not supported"))
		}
		errs = append(errs, validateSTT("stt.fallback", *fb)...)
	}

	// History
	if cfg.History.PostgresDSN == "" && cfg.History.File == "" {
		slog.Warn("no history backend configured; attempts will not be persisted")
	}
	if cfg.History.PostgresDSN != "" && cfg.History.File != "" {
		slog.Warn("both history.postgres_dsn and history.file are set; using postgres")
	}

	// Decks
	if cfg.Decks.Dir == "" {
		slog.Warn("decks.dir is empty; only ad-hoc /v1/evaluate requests will be served")
	}

	return errors.Join(errs...)
}

// validateSTT checks the per-provider requirements of a single stt section.
// prefix names the section in error messages ("stt" or "stt.fallback").
func validateSTT(prefix string, cfg STTConfig) []error {
	var errs []error

	if cfg.Name != "" && !slices.Contains(ValidSTTProviders, cfg.Name) {
		slog.Warn("unknown STT provider name — may be a typo",
			"name", cfg.Name,
			"known", ValidSTTProviders,
		)
	}
	switch cfg.Name {
	case "openai":
		if cfg.APIKey == "" {
			errs = append(errs, fmt.Errorf("%s.api_key is required when %s.name is openai", prefix, prefix))
		}
	case "whisper":
		if cfg.BaseURL == "" {
			errs = append(errs, fmt.Errorf("%s.base_url is required when %s.name is whisper", prefix, prefix))
		}
	case "whisper-native":
		if cfg.Model == "" {
			errs = append(errs, fmt.Errorf("%s.model (model file path) is required when %s.name is whisper-native", prefix, prefix))
		}
	}
	return errs
}
