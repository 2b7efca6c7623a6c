package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/srgchrksv/designnewshub/config"
	"github.com/srgchrksv/designnewshub/handlers"
	"github.com/srgchrksv/designnewshub/metrics"
	"github.com/srgchrksv/designnewshub/routes"
	"github.com/srgchrksv/designnewshub/services"
	"google.golang.org/api/option"
	"google.golang.org/genai"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML config file")
	once := flag.Bool("once", false, "run a single report cycle, write the PDF and audio, then exit")
	outDir := flag.String("out", ".", "output directory for -once")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	slog.SetDefault(cfg.Log.Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create a new genai client
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("Error creating client: %v", err)
	}

	gemini := services.NewGemini(client.Models, services.GeminiOptions{
		NewsModel: cfg.Gemini.NewsModel,
		TTSModel:  cfg.Gemini.TTSModel,
		Voice:     cfg.Gemini.Voice,
		Timeout:   cfg.Gemini.Timeout,
	})

	var speech services.SpeechSynthesizer = gemini
	if cfg.Speech.Provider == config.SpeechProviderCloud {
		var opts []option.ClientOption
		if cfg.Speech.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Speech.CredentialsFile))
		}
		clientTextToSpeech, err := texttospeech.NewClient(ctx, opts...)
		if err != nil {
			log.Fatalf("Error creating text-to-speech client: %v", err)
		}
		defer clientTextToSpeech.Close()
		speech = services.NewCloudTextToSpeech(clientTextToSpeech, cfg.Speech.CloudVoice, cfg.Speech.LanguageCode)
	}
	slog.Info("speech provider configured", "provider", cfg.Speech.Provider)

	m := metrics.New(prometheus.DefaultRegisterer)
	orchestrator := services.NewOrchestrator(services.NewServices(gemini, speech), m)

	if *once {
		if err := runOnce(ctx, orchestrator, *outDir); err != nil {
			log.Fatal(err)
		}
		return
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	h := handlers.NewHandler(ctx, orchestrator)
	routes.RegisterRoutes(r, h, cfg.Server.AllowedOrigins, promhttp.Handler())

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("server listening", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
}
