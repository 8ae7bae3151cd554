package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/voxhire/interview-engine/pkg/validator"

	"github.com/voxhire/interview-engine/internal/adapter/handler"
	"github.com/voxhire/interview-engine/internal/adapter/repository"
	"github.com/voxhire/interview-engine/internal/adapter/ws"
	"github.com/voxhire/interview-engine/internal/infrastructure/cache"
	"github.com/voxhire/interview-engine/internal/infrastructure/database"
	"github.com/voxhire/interview-engine/internal/infrastructure/external/livekit"
	"github.com/voxhire/interview-engine/internal/infrastructure/storage"
	"github.com/voxhire/interview-engine/internal/usecase/access"
	"github.com/voxhire/interview-engine/internal/usecase/audit"
	"github.com/voxhire/interview-engine/internal/usecase/interview"
	"github.com/voxhire/interview-engine/internal/usecase/media"
	pkgai "github.com/voxhire/interview-engine/pkg/ai"
	"github.com/voxhire/interview-engine/pkg/config"
	"github.com/voxhire/interview-engine/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Schema is managed via sql-migrate; apply pending migrations at boot
	// when explicitly enabled.
	if cfg.Database.AutoMigrate {
		log.Println("🔄 Applying pending migrations...")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run scripts/migrate.go or enable DB_AUTO_MIGRATE")
	}

	// Join tickets live in Redis when enabled, in-process otherwise
	var ticketStore access.Store
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(&cfg.Redis, logger)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		ticketStore = redisStore
	} else {
		log.Println("📦 Redis disabled, using in-memory ticket store")
		memStore := cache.NewMemoryStore()
		defer memStore.Close()
		ticketStore = memStore
	}

	// Initialize object storage for synthesized audio and recordings
	log.Println("🗄️  Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	interviewRepo := repository.NewInterviewRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	jobRepo := repository.NewTranscriptionJobRepository(db)

	// Initialize collaborator clients
	log.Println("🤖 Initializing collaborator clients...")
	llmClient := pkgai.NewLLMClient(&cfg.LLM)
	ttsClient := pkgai.NewTTSClient(&cfg.TTS)
	speechClient := pkgai.NewSpeechClient(&cfg.Assembly)

	chat := interview.NewLLMChat(llmClient)
	evaluator := interview.NewLLMEvaluator(llmClient)
	transcriber := interview.NewSpeechTranscriber(speechClient)
	synthesizer := interview.NewStoredSynthesizer(ttsClient, minioClient)

	// Initialize LiveKit client
	log.Println("🎥 Initializing LiveKit client...")
	livekitClient := livekit.NewClient(
		cfg.LiveKit.URL,
		cfg.LiveKit.APIKey,
		cfg.LiveKit.APISecret,
		livekit.RecordingConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKeyID,
			SecretKey: cfg.Storage.SecretAccessKey,
			Bucket:    cfg.Storage.BucketName,
		},
		cfg.LiveKit.UseMock,
	)
	if cfg.LiveKit.UseMock {
		log.Println("⚠️  LiveKit running in MOCK mode (no real server needed)")
	} else {
		log.Printf("✅ LiveKit connected to: %s", cfg.LiveKit.URL)
	}

	// Initialize media service
	log.Println("🏠 Initializing media service...")
	mediaService := media.NewService(
		livekitClient,
		interviewRepo,
		jobRepo,
		minioClient,
		cfg.LiveKit.URL,
		cfg.Storage.URLExpiry,
		logger,
	)

	// Initialize access service
	log.Println("🔑 Initializing access service...")
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)
	ticketManager := access.NewTicketManager(ticketStore, cfg.Session.TicketExpiry)
	accessService := access.NewService(ticketManager, jwtManager, interviewRepo, logger)

	// Initialize interview orchestrator
	log.Println("🎙️  Initializing interview orchestrator...")
	sessionStore := interview.NewMemorySessionStore()
	registry := interview.NewSessionRegistry(logger)
	orchestrator := interview.NewOrchestrator(
		interviewRepo,
		templateRepo,
		summaryRepo,
		sessionStore,
		registry,
		chat,
		evaluator,
		synthesizer,
		cfg.Session,
		logger,
	)
	if err := orchestrator.StartSweeper(); err != nil {
		log.Fatalf("Failed to start session sweeper: %v", err)
	}
	defer orchestrator.StopSweeper()

	// Initialize audit transcription pipeline
	log.Println("📼 Initializing audit pipeline...")
	auditService := audit.NewService(jobRepo, speechClient, cfg.Assembly.WebhookSecret, logger)
	if err := auditService.StartWorkerPool(context.Background(), 2); err != nil {
		log.Fatalf("Failed to start audit worker pool: %v", err)
	}
	defer auditService.StopWorkerPool()

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	interviewHandler := handler.NewInterview(orchestrator, interviewRepo, templateRepo, summaryRepo, accessService, mediaService, logger)
	webhookHandler := handler.NewWebhook(auditService, logger)
	liveHandler := ws.NewHandler(orchestrator, registry, accessService, transcriber, mediaService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, interviewHandler, webhookHandler, liveHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
