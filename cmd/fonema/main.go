// Command fonema is the pronunciation practice server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fonema/fonema/internal/config"
	"github.com/fonema/fonema/internal/health"
	"github.com/fonema/fonema/internal/history"
	historypg "github.com/fonema/fonema/internal/history/postgres"
	"github.com/fonema/fonema/internal/observe"
	"github.com/fonema/fonema/internal/phrase"
	"github.com/fonema/fonema/internal/resilience"
	"github.com/fonema/fonema/internal/server"
	"github.com/fonema/fonema/internal/session"
	"github.com/fonema/fonema/pkg/provider/stt"
	sttopenai "github.com/fonema/fonema/pkg/provider/stt/openai"
	"github.com/fonema/fonema/pkg/provider/stt/whisper"
	"github.com/fonema/fonema/pkg/score"
	"github.com/fonema/fonema/pkg/score/phonetic"
)

const defaultListenAddr = ":8080"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "fonema: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "fonema: %v\n", err)
		}
		return 1
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = defaultListenAddr
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("fonema starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	shutdownTelemetry, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "fonema",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── Scoring pipeline ──────────────────────────────────────────────────────
	evaluator, err := buildEvaluator(cfg.Scoring)
	if err != nil {
		slog.Error("failed to build evaluator", "err", err)
		return 1
	}

	// ── History backend ───────────────────────────────────────────────────────
	store, checkers, closeStore, err := buildHistory(ctx, cfg.History)
	if err != nil {
		slog.Error("failed to initialise history store", "err", err)
		return 1
	}
	defer closeStore()

	// ── Phrase decks ──────────────────────────────────────────────────────────
	var decks []*phrase.Deck
	if cfg.Decks.Dir != "" {
		decks, err = phrase.LoadDir(cfg.Decks.Dir)
		if err != nil {
			slog.Error("failed to load decks", "dir", cfg.Decks.Dir, "err", err)
			return 1
		}
		slog.Info("decks loaded", "dir", cfg.Decks.Dir, "count", len(decks))
	}

	// ── STT provider ──────────────────────────────────────────────────────────
	sttProvider, closeSTT, err := buildSTT(cfg.STT)
	if err != nil {
		slog.Error("failed to build STT provider", "err", err)
		return 1
	}
	defer closeSTT()

	// ── Server ────────────────────────────────────────────────────────────────
	manager := session.NewManager(session.ManagerConfig{
		Decks:     decks,
		Evaluator: evaluator,
		Store:     store,
		Metrics:   metrics,
	})

	srv, err := server.New(server.Config{
		ListenAddr: cfg.Server.ListenAddr,
		Manager:    manager,
		Evaluator:  evaluator,
		STT:        sttProvider,
		STTName:    cfg.STT.Name,
		STTConfig:  stt.TranscribeConfig{Language: cfg.STT.Language},
		Metrics:    metrics,
		Health:     health.New(checkers...),
	})
	if err != nil {
		slog.Error("failed to build server", "err", err)
		return 1
	}

	// ── Startup summary ───────────────────────────────────────────────────────
	printStartupSummary(cfg, len(decks))

	slog.Info("server ready — press Ctrl+C to shut down")

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	slog.Info("goodbye")
	return 0
}

// ── Component wiring ──────────────────────────────────────────────────────────

// buildEvaluator assembles the scoring pipeline from config.
func buildEvaluator(cfg config.ScoringConfig) (*score.Evaluator, error) {
	var opts []score.Option

	switch cfg.Transcriber {
	case "", config.TranscriberIdentity:
		// score.New defaults to identity.
	case config.TranscriberSoundex:
		opts = append(opts, score.WithTranscriber(phonetic.Soundex()))
	case config.TranscriberMetaphone:
		opts = append(opts, score.WithTranscriber(phonetic.Metaphone()))
	default:
		return nil, fmt.Errorf("unknown transcriber %q", cfg.Transcriber)
	}

	if cfg.ExcellentThreshold != 0 || cfg.GoodThreshold != 0 {
		excellent := cfg.ExcellentThreshold
		if excellent == 0 {
			excellent = 0.90
		}
		good := cfg.GoodThreshold
		if good == 0 {
			good = 0.75
		}
		opts = append(opts, score.WithBandThresholds(excellent, good))
	}

	return score.New(opts...), nil
}

// buildHistory selects the attempt persistence backend. It returns the store,
// any readiness checkers it contributes, and a close function.
func buildHistory(ctx context.Context, cfg config.HistoryConfig) (history.Store, []health.Checker, func(), error) {
	switch {
	case cfg.PostgresDSN != "":
		pg, err := historypg.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres history store: %w", err)
		}
		slog.Info("history backend", "kind", "postgres")
		check := health.Checker{Name: "database", Check: pg.Ping}
		return pg, []health.Checker{check}, pg.Close, nil

	case cfg.File != "":
		slog.Info("history backend", "kind", "file", "path", cfg.File)
		return history.NewFileStore(cfg.File), nil, func() {}, nil

	default:
		slog.Info("history backend", "kind", "none")
		return history.Discard{}, nil, func() {}, nil
	}
}

// buildSTT constructs the configured STT provider, wrapping it in a failover
// group when a fallback is configured. A nil provider means the server
// accepts text-only attempts.
func buildSTT(cfg config.STTConfig) (stt.Provider, func(), error) {
	primary, closePrimary, err := buildSTTProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	if primary == nil || cfg.Fallback == nil {
		return primary, closePrimary, nil
	}

	secondary, closeSecondary, err := buildSTTProvider(*cfg.Fallback)
	if err != nil {
		closePrimary()
		return nil, nil, fmt.Errorf("stt fallback: %w", err)
	}

	group := resilience.NewSTTFallback(primary, cfg.Name, resilience.BreakerConfig{})
	group.AddFallback(cfg.Fallback.Name, secondary)
	slog.Info("stt fallback enabled", "primary", cfg.Name, "fallback", cfg.Fallback.Name)

	closeAll := func() {
		closeSecondary()
		closePrimary()
	}
	return group, closeAll, nil
}

// buildSTTProvider constructs a single provider from one stt config section.
func buildSTTProvider(cfg config.STTConfig) (stt.Provider, func(), error) {
	noop := func() {}

	switch cfg.Name {
	case "":
		return nil, noop, nil

	case "whisper":
		var opts []whisper.Option
		if cfg.Model != "" {
			opts = append(opts, whisper.WithModel(cfg.Model))
		}
		if cfg.Language != "" {
			opts = append(opts, whisper.WithLanguage(cfg.Language))
		}
		p, err := whisper.New(cfg.BaseURL, opts...)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("stt provider created", "name", cfg.Name, "base_url", cfg.BaseURL)
		return p, noop, nil

	case "whisper-native":
		var opts []whisper.NativeOption
		if cfg.Language != "" {
			opts = append(opts, whisper.WithNativeLanguage(cfg.Language))
		}
		p, err := whisper.NewNative(cfg.Model, opts...)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("stt provider created", "name", cfg.Name, "model", cfg.Model)
		return p, func() { _ = p.Close() }, nil

	case "openai":
		var opts []sttopenai.Option
		if cfg.Model != "" {
			opts = append(opts, sttopenai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, sttopenai.WithBaseURL(cfg.BaseURL))
		}
		p, err := sttopenai.New(cfg.APIKey, opts...)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("stt provider created", "name", cfg.Name, "model", cfg.Model)
		return p, noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown stt provider %q", cfg.Name)
	}
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, deckCount int) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║          fonema — startup summary     ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printRow("Listen addr", cfg.Server.ListenAddr)
	transcriber := string(cfg.Scoring.Transcriber)
	if transcriber == "" {
		transcriber = "identity"
	}
	printRow("Transcriber", transcriber)
	sttName := cfg.STT.Name
	if sttName == "" {
		sttName = "(text only)"
	} else if cfg.STT.Model != "" {
		sttName = sttName + " / " + cfg.STT.Model
	}
	printRow("STT", sttName)
	switch {
	case cfg.History.PostgresDSN != "":
		printRow("History", "postgres")
	case cfg.History.File != "":
		printRow("History", "file")
	default:
		printRow("History", "(disabled)")
	}
	fmt.Printf("║  Decks loaded    : %-19d ║\n", deckCount)
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printRow(label, value string) {
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-14s  : %-19s ║\n", label, value)
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
