// Command nova is the voice-driven desktop assistant: it listens for a wake
// word, runs spoken commands, and learns new ones from the user.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/novakit/nova/internal/app"
	"github.com/novakit/nova/internal/command"
	"github.com/novakit/nova/internal/config"
	"github.com/novakit/nova/internal/dispatch"
	"github.com/novakit/nova/internal/health"
	"github.com/novakit/nova/internal/interaction"
	"github.com/novakit/nova/internal/match"
	"github.com/novakit/nova/internal/observe"
	"github.com/novakit/nova/internal/teach"
	"github.com/novakit/nova/pkg/audio"
	"github.com/novakit/nova/pkg/provider/actions/desktop"
	"github.com/novakit/nova/pkg/provider/speaker"
	"github.com/novakit/nova/pkg/provider/speaker/console"
	"github.com/novakit/nova/pkg/provider/speaker/execspeak"
	"github.com/novakit/nova/pkg/provider/transcriber"
	"github.com/novakit/nova/pkg/provider/transcriber/deepgram"
	oaitr "github.com/novakit/nova/pkg/provider/transcriber/openai"
	"github.com/novakit/nova/pkg/provider/transcriber/whispercpp"
	"github.com/novakit/nova/pkg/system"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (empty uses defaults and NOVA_* env vars)")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "nova: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "nova: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("nova starting",
		"config", *configPath,
		"wake_word", cfg.Assistant.WakeWord,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Metrics ───────────────────────────────────────────────────────────────
	metricsShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "nova"})
	if err != nil {
		slog.Error("failed to initialise metrics", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsShutdown(shutdownCtx); err != nil {
			slog.Warn("metrics shutdown error", "err", err)
		}
	}()

	// ── Microphone ────────────────────────────────────────────────────────────
	recorder, err := audio.NewRecorder(audio.RecorderConfig{
		SampleRate:      cfg.Listen.SampleRate,
		EnergyThreshold: cfg.Listen.EnergyThreshold,
		OnsetTimeout:    cfg.Listen.OnsetTimeout.Std(),
		PauseThreshold:  cfg.Listen.PauseThreshold.Std(),
		PhraseTimeLimit: cfg.Listen.PhraseTimeLimit.Std(),
	})
	if err != nil {
		slog.Error("failed to open microphone", "err", err)
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("microphone close error", "err", err)
		}
	}()

	// ── Providers ─────────────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg, recorder, cfg.Assistant.Name)

	tr, err := reg.CreateTranscriber(cfg.Providers.Transcriber)
	if err != nil {
		slog.Error("failed to create transcriber", "name", cfg.Providers.Transcriber.Name, "err", err)
		return 1
	}
	slog.Info("provider created", "kind", "transcriber", "name", cfg.Providers.Transcriber.Name)

	spk, err := reg.CreateSpeaker(cfg.Providers.Speaker)
	if err != nil {
		slog.Error("failed to create speaker", "name", cfg.Providers.Speaker.Name, "err", err)
		return 1
	}
	slog.Info("provider created", "kind", "speaker", "name", cfg.Providers.Speaker.Name)

	// ── Storage ───────────────────────────────────────────────────────────────
	fs := afero.NewOsFs()
	registry, err := command.NewRegistry(command.NewJSONStore(fs, cfg.Storage.CommandsFile))
	if err != nil {
		slog.Error("failed to load command registry", "path", cfg.Storage.CommandsFile, "err", err)
		return 1
	}
	slog.Info("command registry loaded", "path", cfg.Storage.CommandsFile, "commands", registry.Len())

	var log *interaction.Recorder
	if cfg.Storage.InteractionLog != "" {
		log = interaction.NewRecorder(fs, cfg.Storage.InteractionLog)
	}

	// ── Dispatcher ────────────────────────────────────────────────────────────
	dispatcher, err := dispatch.New(
		dispatch.Config{
			AssistantName:       cfg.Assistant.Name,
			SimilarityThreshold: cfg.Match.SimilarityThreshold,
			ExitThreshold:       cfg.Match.ExitThreshold,
		},
		dispatch.Deps{
			Registry: registry,
			Validator: teach.NewValidator(
				teach.WithMinLength(cfg.Teach.MinTriggerLength),
				teach.WithMinWords(cfg.Teach.MinWordCount),
			),
			Wake: match.NewWakeDetector(cfg.Assistant.WakeWord,
				match.WithWakePhoneticThreshold(cfg.Match.WakePhoneticThreshold),
				match.WithWakeFuzzyThreshold(cfg.Match.WakeFuzzyThreshold),
			),
			Speaker: spk,
			Runner:  desktop.New(),
			System:  system.NewHost(),
			Log:     log,
		},
	)
	if err != nil {
		slog.Error("failed to build dispatcher", "err", err)
		return 1
	}

	application := app.New(tr, dispatcher, spk, nil)

	// ── Startup summary ───────────────────────────────────────────────────────
	printStartupSummary(cfg, registry.Len())

	spk.Say(ctx, fmt.Sprintf("%s is ready. Say %s to wake me up.", cfg.Assistant.Name, cfg.Assistant.WakeWord))
	slog.Info("assistant ready — press Ctrl+C to shut down")

	// ── Run ───────────────────────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)

	var metricsSrv *http.Server
	if cfg.Server.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		health.New().
			Add("commands-store", func(context.Context) error {
				return registry.Save()
			}).
			Add("session", func(context.Context) error {
				if dispatcher.State() == dispatch.StateTerminated {
					return errors.New("session terminated")
				}
				return nil
			}).
			Register(mux)
		metricsSrv = &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux}
		g.Go(func() error {
			slog.Info("metrics endpoint listening", "addr", cfg.Server.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		defer stop()
		return application.Run(gctx)
	})

	runErr := g.Wait()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	slog.Info("stopping…")

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics server shutdown error", "err", err)
		}
	}

	if err := application.Shutdown(); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		slog.Error("run error", "err", runErr)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// registerBuiltinProviders wires all built-in provider factories into reg.
// Each factory receives a config.ProviderEntry and constructs the appropriate
// provider from the real implementation packages. All transcribers share the
// one microphone source.
func registerBuiltinProviders(reg *config.Registry, source audio.Source, assistantName string) {
	// ── Transcribers ──────────────────────────────────────────────────────────

	reg.RegisterTranscriber("openai", func(entry config.ProviderEntry) (transcriber.Provider, error) {
		var opts []oaitr.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaitr.WithBaseURL(entry.BaseURL))
		}
		return oaitr.New(entry.APIKey, source, entry.Model, opts...)
	})

	reg.RegisterTranscriber("deepgram", func(entry config.ProviderEntry) (transcriber.Provider, error) {
		var opts []deepgram.Option
		if entry.Model != "" {
			opts = append(opts, deepgram.WithModel(entry.Model))
		}
		if entry.BaseURL != "" {
			opts = append(opts, deepgram.WithBaseURL(entry.BaseURL))
		}
		if lang := optString(entry.Options, "language"); lang != "" {
			opts = append(opts, deepgram.WithLanguage(lang))
		}
		return deepgram.New(entry.APIKey, source, opts...)
	})

	reg.RegisterTranscriber("whisper-native", func(entry config.ProviderEntry) (transcriber.Provider, error) {
		modelPath := entry.Model
		if modelPath == "" {
			modelPath = optString(entry.Options, "model_path")
		}
		var opts []whispercpp.Option
		if lang := optString(entry.Options, "language"); lang != "" {
			opts = append(opts, whispercpp.WithLanguage(lang))
		}
		return whispercpp.New(modelPath, source, opts...)
	})

	// ── Speakers ──────────────────────────────────────────────────────────────

	reg.RegisterSpeaker("console", func(config.ProviderEntry) (speaker.Provider, error) {
		return console.New(assistantName), nil
	})

	reg.RegisterSpeaker("espeak", func(entry config.ProviderEntry) (speaker.Provider, error) {
		binary := optString(entry.Options, "binary")
		var opts []execspeak.Option
		if voice := optString(entry.Options, "voice"); voice != "" {
			opts = append(opts, execspeak.WithArgs("-v", voice))
		}
		return execspeak.New(binary, opts...), nil
	})
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, learned int) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║          Nova — startup summary       ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printRow("Wake word", cfg.Assistant.WakeWord)
	printRow("Transcriber", providerLabel(cfg.Providers.Transcriber))
	printRow("Speaker", providerLabel(cfg.Providers.Speaker))
	printRow("Commands file", cfg.Storage.CommandsFile)
	printRow("Learned", fmt.Sprintf("%d", learned))
	if cfg.Server.MetricsAddr != "" {
		printRow("Metrics", cfg.Server.MetricsAddr)
	}
	fmt.Println("╚═══════════════════════════════════════╝")
}

func providerLabel(entry config.ProviderEntry) string {
	if entry.Name == "" {
		return "(not configured)"
	}
	if entry.Model != "" {
		return entry.Name + " / " + entry.Model
	}
	return entry.Name
}

func printRow(kind, value string) {
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-15s : %-19s ║\n", kind, value)
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// optString extracts a string value from a provider Options map[string]any.
// Returns "" if the map is nil, the key is absent, or the value is not a string.
func optString(opts map[string]any, key string) string {
	if opts == nil {
		return ""
	}
	v, ok := opts[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
