package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"transcriber": {"openai", "deepgram", "whisper-native", "mock"},
	"speaker":     {"console", "espeak", "mock"},
}

// Load returns the configuration assembled from three layers: defaults, the
// YAML file at path (skipped when path is empty), and NOVA_* environment
// variables, each overriding the previous one.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		}
		defer f.Close()

		if err := decodeInto(cfg, f); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of the defaults and
// validates the result. Environment overrides are not applied. Useful in
// tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decodeInto(cfg, r); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeInto strictly decodes YAML from r over cfg. Unknown keys are errors
// so typos surface at startup instead of silently using defaults.
func decodeInto(cfg *Config, r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Assistant.WakeWord == "" {
		errs = append(errs, errors.New("assistant.wake_word is required"))
	}

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if cfg.Listen.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("listen.sample_rate %d must be positive", cfg.Listen.SampleRate))
	}
	if cfg.Listen.EnergyThreshold < 0 {
		errs = append(errs, fmt.Errorf("listen.energy_threshold %.1f must not be negative", cfg.Listen.EnergyThreshold))
	}

	for _, th := range []struct {
		name  string
		value float64
	}{
		{"match.similarity_threshold", cfg.Match.SimilarityThreshold},
		{"match.exit_threshold", cfg.Match.ExitThreshold},
		{"match.wake_phonetic_threshold", cfg.Match.WakePhoneticThreshold},
		{"match.wake_fuzzy_threshold", cfg.Match.WakeFuzzyThreshold},
	} {
		if th.value <= 0 || th.value > 1 {
			errs = append(errs, fmt.Errorf("%s %.2f is out of range (0, 1]", th.name, th.value))
		}
	}

	if cfg.Teach.MinTriggerLength < 1 {
		errs = append(errs, fmt.Errorf("teach.min_trigger_length %d must be at least 1", cfg.Teach.MinTriggerLength))
	}
	if cfg.Teach.MinWordCount < 1 {
		errs = append(errs, fmt.Errorf("teach.min_word_count %d must be at least 1", cfg.Teach.MinWordCount))
	}

	if cfg.Storage.CommandsFile == "" {
		errs = append(errs, errors.New("storage.commands_file is required"))
	}

	validateProviderName("transcriber", cfg.Providers.Transcriber.Name)
	validateProviderName("speaker", cfg.Providers.Speaker.Name)

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
