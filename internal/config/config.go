// Package config provides the configuration schema, loader, and provider
// registry for the assistant.
package config

import (
	"fmt"
	"time"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Duration wraps time.Duration so YAML values can be written as "800ms" or
// "10s". It also satisfies encoding.TextUnmarshaler for environment
// overrides.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(raw))
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("config: parse duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration structure. It is typically loaded from a
// YAML file using [Load], with environment variable overrides applied on top.
type Config struct {
	Assistant AssistantConfig `yaml:"assistant"`
	Server    ServerConfig    `yaml:"server"`
	Listen    ListenConfig    `yaml:"listen" envPrefix:"NOVA_LISTEN_"`
	Match     MatchConfig     `yaml:"match"`
	Teach     TeachConfig     `yaml:"teach"`
	Storage   StorageConfig   `yaml:"storage" envPrefix:"NOVA_STORAGE_"`
	Providers ProvidersConfig `yaml:"providers"`
}

// AssistantConfig names the assistant and its wake word.
type AssistantConfig struct {
	// Name is spoken in greetings and printed by the console speaker.
	Name string `yaml:"name" env:"NOVA_NAME"`

	// WakeWord is the word that moves the assistant from idle to
	// listening (e.g. "nova").
	WakeWord string `yaml:"wake_word" env:"NOVA_WAKE_WORD"`
}

// ServerConfig holds logging and diagnostics settings.
type ServerConfig struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level" env:"NOVA_LOG_LEVEL"`

	// MetricsAddr is the TCP address serving Prometheus /metrics
	// (e.g. ":9090"). Empty disables the endpoint.
	MetricsAddr string `yaml:"metrics_addr" env:"NOVA_METRICS_ADDR"`
}

// ListenConfig tunes microphone capture and endpointing.
type ListenConfig struct {
	// SampleRate in Hz. Default 16000.
	SampleRate int `yaml:"sample_rate" env:"SAMPLE_RATE"`

	// EnergyThreshold is the RMS floor treated as speech before ambient
	// calibration. Default 300.
	EnergyThreshold float64 `yaml:"energy_threshold" env:"ENERGY_THRESHOLD"`

	// OnsetTimeout bounds the wait for speech to begin. Default 10s.
	OnsetTimeout Duration `yaml:"onset_timeout" env:"ONSET_TIMEOUT"`

	// PauseThreshold is the trailing silence that ends a phrase. Default 800ms.
	PauseThreshold Duration `yaml:"pause_threshold" env:"PAUSE_THRESHOLD"`

	// PhraseTimeLimit caps phrase duration. Default 5s.
	PhraseTimeLimit Duration `yaml:"phrase_time_limit" env:"PHRASE_TIME_LIMIT"`
}

// MatchConfig tunes fuzzy matching thresholds.
type MatchConfig struct {
	// SimilarityThreshold is the minimum score for a learned command to
	// fire. Default 0.75.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// ExitThreshold is the minimum score for an exit phrase. Default 0.8.
	ExitThreshold float64 `yaml:"exit_threshold"`

	// WakePhoneticThreshold is the minimum Jaro-Winkler score accepted
	// for a wake-word token that already shares a phonetic code. Default 0.70.
	WakePhoneticThreshold float64 `yaml:"wake_phonetic_threshold"`

	// WakeFuzzyThreshold is the minimum Jaro-Winkler score accepted
	// without phonetic agreement. Default 0.85.
	WakeFuzzyThreshold float64 `yaml:"wake_fuzzy_threshold"`
}

// TeachConfig tunes trigger validation for the learning flow.
type TeachConfig struct {
	// MinTriggerLength is the minimum trigger length in characters. Default 3.
	MinTriggerLength int `yaml:"min_trigger_length"`

	// MinWordCount is the minimum trigger word count. Default 2.
	MinWordCount int `yaml:"min_word_count"`
}

// StorageConfig locates the persistence files.
type StorageConfig struct {
	// CommandsFile is the JSON file holding learned commands.
	CommandsFile string `yaml:"commands_file" env:"COMMANDS_FILE"`

	// InteractionLog is the JSON-lines conversation log. Empty disables
	// interaction logging.
	InteractionLog string `yaml:"interaction_log" env:"INTERACTION_LOG"`
}

// ProvidersConfig declares which provider implementation to use for each
// pluggable collaborator. Each entry selects a named provider registered in
// the [Registry].
type ProvidersConfig struct {
	Transcriber ProviderEntry `yaml:"transcriber" envPrefix:"NOVA_TRANSCRIBER_"`
	Speaker     ProviderEntry `yaml:"speaker" envPrefix:"NOVA_SPEAKER_"`
}

// ProviderEntry is the common configuration block shared by all provider
// types. The Name field is used to look up the constructor in the [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation
	// (e.g. "openai", "deepgram", "whisper-native", "console").
	Name string `yaml:"name" env:"NAME"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key" env:"API_KEY"`

	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `yaml:"base_url" env:"BASE_URL"`

	// Model selects a specific model within the provider
	// (e.g. "whisper-1", "nova-2") or, for whisper-native, the model
	// file path.
	Model string `yaml:"model" env:"MODEL"`

	// Options holds provider-specific configuration values not covered
	// by the standard fields above.
	Options map[string]any `yaml:"options"`
}

// Default returns a Config with every tunable at its default value. Loading
// a file overrides only the fields the file sets.
func Default() *Config {
	return &Config{
		Assistant: AssistantConfig{
			Name:     "Nova",
			WakeWord: "nova",
		},
		Server: ServerConfig{
			LogLevel: LogInfo,
		},
		Listen: ListenConfig{
			SampleRate:      16000,
			EnergyThreshold: 300,
			OnsetTimeout:    Duration(10 * time.Second),
			PauseThreshold:  Duration(800 * time.Millisecond),
			PhraseTimeLimit: Duration(5 * time.Second),
		},
		Match: MatchConfig{
			SimilarityThreshold:   0.75,
			ExitThreshold:         0.8,
			WakePhoneticThreshold: 0.70,
			WakeFuzzyThreshold:    0.85,
		},
		Teach: TeachConfig{
			MinTriggerLength: 3,
			MinWordCount:     2,
		},
		Storage: StorageConfig{
			CommandsFile: "nova_commands.json",
		},
		Providers: ProvidersConfig{
			Transcriber: ProviderEntry{Name: "openai"},
			Speaker:     ProviderEntry{Name: "console"},
		},
	}
}
