// Hearth is a voice-driven home assistant daemon: it captures transcribed
// utterances, classifies them against an intent catalog by embedding
// similarity and dispatches them to skill handlers that answer out loud.
//
// Usage:
//
//	hearth [flags]
//	hearth --config /path/to/hearth.yaml
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nadzzz/hearth/internal/config"
	"github.com/nadzzz/hearth/internal/dispatch"
	"github.com/nadzzz/hearth/internal/embedder"
	ollamaemb "github.com/nadzzz/hearth/internal/embedder/ollama"
	openaiemb "github.com/nadzzz/hearth/internal/embedder/openai"
	"github.com/nadzzz/hearth/internal/health"
	"github.com/nadzzz/hearth/internal/intent"
	"github.com/nadzzz/hearth/internal/loop"
	"github.com/nadzzz/hearth/internal/search"
	"github.com/nadzzz/hearth/internal/session"
	"github.com/nadzzz/hearth/internal/skill"
	"github.com/nadzzz/hearth/internal/source"
	"github.com/nadzzz/hearth/internal/store"
	"github.com/nadzzz/hearth/internal/tts"
	"github.com/nadzzz/hearth/internal/tts/piper"

	_ "github.com/nadzzz/hearth/docs" // swagger docs
)

// version is set at build time via ldflags.
var version = "dev"

const welcome = "Hello! I'm Hearth, your home assistant. How can I help you today?"

func main() {
	showVersion := pflag.Bool("version", false, "print version and exit")
	configFile := pflag.String("config", "", "path to config file (e.g. configs/hearth.yaml)")
	envFile := pflag.String("env", "", "path to a .env file with API keys")
	pflag.Parse()

	if *showVersion {
		fmt.Printf("hearth %s\n", version)
		os.Exit(0)
	}

	// API keys usually live in a .env file during development.
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			slog.Error("failed to load env file", "path", *envFile, "error", err)
			os.Exit(1)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	config.SetupLogging(cfg.Logging)
	slog.Info("hearth starting", "version", version)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Embedding backend.
	var emb embedder.Embedder
	switch cfg.Classifier.Backend {
	case "openai":
		emb, err = openaiemb.New(cfg.Classifier.OpenAI)
		if err != nil {
			slog.Error("failed to create openai embedder", "error", err)
			os.Exit(1)
		}
		slog.Info("using OpenAI embeddings", "model", cfg.Classifier.OpenAI.Model)
	case "ollama":
		emb = ollamaemb.New(cfg.Classifier.Ollama)
		slog.Info("using Ollama embeddings",
			"endpoint", cfg.Classifier.Ollama.Endpoint,
			"model", cfg.Classifier.Ollama.Model)
	default:
		slog.Error("unknown classifier backend", "backend", cfg.Classifier.Backend)
		os.Exit(1)
	}
	defer emb.Close()

	// The classifier embeds every catalog exemplar up front; a failure here
	// means the backend is unusable and there's no point starting.
	catalog := intent.DefaultCatalog()
	classifier, err := intent.NewClassifier(ctx, emb, catalog)
	if err != nil {
		slog.Error("failed to build intent classifier", "error", err)
		os.Exit(1)
	}

	// Durable reminders, rehydrated into the session.
	reminderStore, err := store.NewFileStore(cfg.Skills.RemindersFile)
	if err != nil {
		slog.Error("failed to open reminders store", "path", cfg.Skills.RemindersFile, "error", err)
		os.Exit(1)
	}
	reminders, err := reminderStore.LoadAll()
	if err != nil {
		slog.Error("failed to load reminders", "error", err)
		os.Exit(1)
	}

	var devices []session.Device
	for name, d := range cfg.Skills.Devices {
		devices = append(devices, session.Device{
			Name:        name,
			Kind:        d.Kind,
			Power:       d.Power,
			Brightness:  d.Brightness,
			Temperature: d.Temperature,
		})
	}
	sess := session.New(devices, reminders)
	slog.Info("session ready", "devices", len(devices), "reminders", len(reminders))

	// Skills and the label registry. Every catalog label must resolve to a
	// handler; dispatch.New aborts startup otherwise.
	registry, err := skill.NewRegistry(
		skill.NewConversation(),
		skill.NewWebSearch(search.NewWikipedia(cfg.Skills.Search), cfg.Skills.Search.MaxChars),
		skill.NewReminder(reminderStore),
		skill.NewSmartHome(cfg.Skills.TemperatureMin, cfg.Skills.TemperatureMax),
		skill.NewWeather(cfg.Skills.Weather),
		skill.NewExit(),
	)
	if err != nil {
		slog.Error("failed to build skill registry", "error", err)
		os.Exit(1)
	}

	dispatcher, err := dispatch.New(classifier, registry, intent.Labels(catalog), cfg.Classifier.Threshold)
	if err != nil {
		slog.Error("failed to build dispatcher", "error", err)
		os.Exit(1)
	}

	// Utterance source.
	var src source.Source
	switch cfg.Source.Backend {
	case "console":
		src = source.NewConsole(os.Stdin, cfg.Source.ListenTimeout)
		slog.Info("listening on the console", "timeout", cfg.Source.ListenTimeout)
	case "http":
		httpSrc := source.NewHTTP(cfg.Source.HTTPPort)
		go func() {
			if err := httpSrc.Start(ctx); err != nil {
				slog.Error("http source failed", "error", err)
				cancel()
			}
		}()
		src = httpSrc
	default:
		slog.Error("unknown source backend", "backend", cfg.Source.Backend)
		os.Exit(1)
	}
	defer src.Close()

	// Response sink: spoken through Piper, or printed.
	var sink tts.Sink
	if cfg.TTS.Enabled {
		synth, err := piper.New(cfg.TTS.Piper)
		if err != nil {
			slog.Error("failed to create piper synthesizer", "error", err)
			os.Exit(1)
		}
		sink = tts.NewSpoken(synth)
		slog.Info("speaking responses via piper",
			"endpoint", cfg.TTS.Piper.Endpoint, "voice", cfg.TTS.Piper.Voice)
	} else {
		sink = tts.NewConsole(os.Stdout)
	}
	defer sink.Close()

	turns := loop.New(src, dispatcher, sink, sess, welcome)

	healthServer := health.New(cfg.Server.HealthPort, func() string {
		return turns.State().String()
	})
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()
	healthServer.SetReady(true)

	slog.Info("hearth ready",
		"source", src.Name(),
		"intents", len(catalog),
		"threshold", cfg.Classifier.Threshold,
		"health_port", cfg.Server.HealthPort)

	if err := turns.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("turn loop failed", "error", err)
		os.Exit(1)
	}

	slog.Info("hearth stopped")
}
