package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nurudeen19/rag-fortress/db"
	"github.com/nurudeen19/rag-fortress/internal/application/auth"
	"github.com/nurudeen19/rag-fortress/internal/application/ports"
	"github.com/nurudeen19/rag-fortress/internal/application/retrieval"
	"github.com/nurudeen19/rag-fortress/internal/application/usecase"
	infraai "github.com/nurudeen19/rag-fortress/internal/infrastructure/ai"
	"github.com/nurudeen19/rag-fortress/internal/infrastructure/ingest"
	"github.com/nurudeen19/rag-fortress/internal/infrastructure/postgres"
	httpRouter "github.com/nurudeen19/rag-fortress/internal/interfaces/http"
	"github.com/nurudeen19/rag-fortress/pkg/config"
	"github.com/nurudeen19/rag-fortress/pkg/logger"
	"github.com/nurudeen19/rag-fortress/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := db.Migrate(cfg.DB.ConnectionString(), log); err != nil {
			log.Fatal().Err(err).Msg("run migrations")
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	departmentRepo := postgres.NewDepartmentRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	chunkRepo := postgres.NewChunkRepository(pool)
	reportRepo := postgres.NewErrorReportRepository(pool)
	overrideRepo := postgres.NewOverrideRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)

	issuer, err := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL())
	if err != nil {
		log.Fatal().Err(err).Msg("build token issuer")
	}

	llmChain := infraai.NewLLMChain(buildLLMs(cfg.AI, log), cfg.AI.RateLimitRPS, cfg.AI.Cooldown(), log)
	embeddingChain := infraai.NewEmbeddingChain(buildEmbedders(cfg.AI, log), cfg.AI.RateLimitRPS, cfg.AI.Cooldown(), log)

	queryCache := retrieval.NewQueryCache(cfg.Cache.Size, cfg.Cache.TTL())
	pipeline := retrieval.NewPipeline(chunkRepo, embeddingChain, llmChain, queryCache, cfg.Retrieval, log)

	recorder := usecase.NewActivityRecorder(activityRepo, log)

	worker := ingest.NewWorker(documentRepo, chunkRepo, embeddingChain, queryCache, recorder, cfg.Ingest, log)
	worker.Start(cfg.Ingest.Workers)

	authUC := auth.NewAuthUseCase(userRepo, departmentRepo, sessionRepo, issuer, cfg.JWT.RefreshTTL(), recorder)
	userUC := usecase.NewUserUseCase(userRepo, departmentRepo, recorder)
	documentUC := usecase.NewDocumentUseCase(documentRepo, overrideRepo, worker, recorder, log)
	reportUC := usecase.NewErrorReportUseCase(reportRepo, recorder)
	overrideUC := usecase.NewOverrideUseCase(overrideRepo, documentRepo, recorder)
	activityUC := usecase.NewActivityUseCase(activityRepo)
	directoryUC := usecase.NewDirectoryUseCase(departmentRepo, roleRepo)

	// Expired refresh sessions are junk rows; sweep them on startup and
	// hourly after that.
	pruneCtx, stopPrune := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			if n, err := authUC.PruneSessions(pruneCtx); err != nil {
				log.Error().Err(err).Msg("session prune failed")
			} else if n > 0 {
				log.Info().Int64("removed", n).Msg("expired sessions pruned")
			}
			select {
			case <-pruneCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 << 20,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowCredentials: true,
	}))

	// Swagger UI locally: http://localhost:<port>/docs. swag generates the
	// JSON; skip the middleware when it has not been generated yet.
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    cfg.App.Name,
		}))
	} else {
		log.Warn().Msg("docs/swagger.json not found, swagger UI disabled")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		DocumentUC:  documentUC,
		ReportUC:    reportUC,
		OverrideUC:  overrideUC,
		ActivityUC:  activityUC,
		DirectoryUC: directoryUC,
		Pipeline:    pipeline,
		Recorder:    recorder,
		Issuer:      issuer,
		JWT:         cfg.JWT,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	stopPrune()

	// Let queued documents finish before the pool closes.
	worker.Stop()

	log.Info().Msg("application stopped")
}

// buildLLMs assembles the LLM failover order from config. Providers without
// an API key are skipped.
func buildLLMs(cfg config.AIConfig, log *logger.Logger) []ports.LLMService {
	var out []ports.LLMService
	for _, name := range splitOrder(cfg.LLMOrder) {
		switch name {
		case "anthropic":
			if cfg.AnthropicAPIKey != "" {
				out = append(out, infraai.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel))
			}
		case "gemini":
			if cfg.GeminiAPIKey != "" {
				out = append(out, infraai.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel))
			}
		default:
			log.Warn().Str("provider", name).Msg("unknown LLM provider in AI_LLM_ORDER")
		}
	}
	if len(out) == 0 {
		log.Warn().Msg("no LLM provider configured, queries will run in degraded mode")
	}
	return out
}

// buildEmbedders assembles the embedding failover order from config.
func buildEmbedders(cfg config.AIConfig, log *logger.Logger) []ports.EmbeddingService {
	var out []ports.EmbeddingService
	for _, name := range splitOrder(cfg.EmbeddingOrder) {
		switch name {
		case "gemini":
			if cfg.GeminiAPIKey != "" {
				out = append(out, infraai.NewGeminiEmbedder(cfg.GeminiAPIKey, cfg.GeminiEmbeddingModel))
			}
		case "openai":
			if cfg.OpenAIAPIKey != "" {
				out = append(out, infraai.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIEmbeddingModel))
			}
		default:
			log.Warn().Str("provider", name).Msg("unknown embedding provider in AI_EMBEDDING_ORDER")
		}
	}
	if len(out) == 0 {
		log.Warn().Msg("no embedding provider configured, retrieval will fall back to full-text")
	}
	return out
}

func splitOrder(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(strings.ToLower(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
