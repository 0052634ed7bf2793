package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/madmonkey007/EchoListenultra/adapters/blob"
	"github.com/madmonkey007/EchoListenultra/adapters/llm"
	adaptermongo "github.com/madmonkey007/EchoListenultra/adapters/mongo"
	"github.com/madmonkey007/EchoListenultra/adapters/stt"
	"github.com/madmonkey007/EchoListenultra/adapters/tts"
	"github.com/madmonkey007/EchoListenultra/domain/repositories"
	"github.com/madmonkey007/EchoListenultra/internal/api"
	"github.com/madmonkey007/EchoListenultra/internal/auth"
	"github.com/madmonkey007/EchoListenultra/internal/config"
	"github.com/madmonkey007/EchoListenultra/internal/websocket"
	"github.com/madmonkey007/EchoListenultra/usecase"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		logger.Fatal("Failed to initialize token issuer", zap.Error(err))
	}

	// Storage
	mongoClient, err := adaptermongo.NewClient(cfg.Mongo.URI, cfg.Mongo.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongoClient.Close(ctx)
	}()

	sessionRepo := adaptermongo.NewSessionRepository(mongoClient.Database)
	vocabRepo := adaptermongo.NewVocabularyRepository(mongoClient.Database)
	userRepo := adaptermongo.NewUserRepository(mongoClient.Database)

	audioStore, err := blob.NewFilesystemStore(cfg.AudioDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize audio store", zap.Error(err))
	}

	// Providers
	var transcriber repositories.Transcriber
	var analyzer repositories.WordAnalyzer
	var speech repositories.TextToSpeech
	if cfg.UseMockAdapters {
		logger.Info("Using mock provider adapters")
		transcriber = stt.NewMockTranscriber(logger)
		analyzer = llm.NewMockAnalyzer()
		speech = tts.NewMockTTS()
	} else {
		transcriber = &stt.GoogleTranscriber{}

		analyzer, err = llm.NewGeminiAnalyzer(logger)
		if err != nil {
			logger.Fatal("Failed to initialize Gemini analyzer", zap.Error(err))
		}

		speech, err = tts.NewElevenLabsTTS(tts.ElevenLabsConfig{
			APIKey: cfg.ElevenLabsAPIKey,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize ElevenLabs TTS", zap.Error(err))
		}
	}

	// Usecase services
	userService := usecase.NewUserService(userRepo, issuer, logger)
	importService := usecase.NewImportService(transcriber, audioStore, sessionRepo, logger)
	vocabService := usecase.NewVocabularyService(vocabRepo, analyzer, speech, logger)

	// Player websocket hub
	hub := websocket.NewHub(sessionRepo, logger)
	go hub.Run()

	// Background purge of soft-deleted sessions
	cleanup := websocket.NewCleanupService(sessionRepo, audioStore, logger)
	cleanup.Start()
	defer cleanup.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize API routes
	api.InitRoutes(e, api.NewHandlers(userService, importService, vocabService, issuer, logger), hub)

	// Graceful shutdown
	go func() {
		if err := e.Start(cfg.Addr()); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", cfg.Addr()))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
