package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/swipecoach/backend/api/routes"
	"github.com/swipecoach/backend/internal/config"
	"github.com/swipecoach/backend/internal/handlers"
	"github.com/swipecoach/backend/internal/repositories"
	mongorepo "github.com/swipecoach/backend/internal/repositories/mongodb"
	"github.com/swipecoach/backend/internal/services"
	"github.com/swipecoach/backend/pkg/auth"
	"github.com/swipecoach/backend/pkg/llm"
	"github.com/swipecoach/backend/pkg/mongodb"
)

func main() {
	// Optional local overrides; absence is not an error
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("mongodb disconnect", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = mongorepo.EnsureIndexes(ctx, db, logger)
	cancel()
	if err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Repositories
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var txnRepo repositories.TransactionRepository = mongorepo.NewTransactionRepository(db)
	var accountRepo repositories.AccountRepository = mongorepo.NewAccountRepository(db)
	var catalogRepo repositories.CatalogRepository = mongorepo.NewCatalogRepository(db)
	var applicationRepo repositories.ApplicationRepository = mongorepo.NewApplicationRepository(db)
	var merchantRepo repositories.MerchantRepository = mongorepo.NewMerchantRepository(db)
	var recurringRepo repositories.RecurringRepository = mongorepo.NewRecurringRepository(db)

	llmClient, err := llm.NewClient(context.Background(), llm.Config{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
		Mock:   cfg.Gemini.Mock,
	})
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	// Services
	userService := services.NewUserService(userRepo, accountRepo)
	spendService := services.NewSpendService(txnRepo, accountRepo, merchantRepo, logger)
	cardService := services.NewCardService(accountRepo, catalogRepo, spendService)
	catalogService := services.NewCatalogService(catalogRepo)
	applicationService := services.NewApplicationService(applicationRepo, catalogRepo, accountRepo)
	recommendationService := services.NewRecommendationService(spendService, catalogRepo, llmClient, cfg.Scoring.FallbackMonthlySpend, logger)
	rewardService := services.NewRewardService(spendService, catalogRepo)
	bestCardService := services.NewBestCardService(spendService, catalogRepo, accountRepo)
	recurringService := services.NewRecurringService(txnRepo, recurringRepo, merchantRepo, logger)
	insightService := services.NewInsightService(spendService, recurringService)
	chatService := services.NewChatService(spendService, recommendationService, bestCardService, insightService, llmClient, logger)
	adminAuth := services.NewAdminAuthService(cfg.Admin.Email, cfg.Admin.PasswordHash, cfg.Admin.Secret, time.Duration(cfg.Admin.ExpiresIn)*time.Second)

	// Token verification
	jwks := auth.NewJWKSCache(cfg.Auth.JWKSURL(), time.Duration(cfg.Auth.JWKSCacheTTL)*time.Second)
	verifier := auth.NewVerifier(cfg.Auth.Issuer(), cfg.Auth.Audience, jwks)
	if cfg.Auth.DisableAuth {
		logger.Warn("authentication is disabled; all requests run as the dev user")
	}

	// Handlers
	h := routes.Handlers{
		User:           handlers.NewUserHandler(userService),
		Spend:          handlers.NewSpendHandler(spendService),
		Card:           handlers.NewCardHandler(cardService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Application:    handlers.NewApplicationHandler(applicationService),
		Recommendation: handlers.NewRecommendationHandler(recommendationService, cfg.Scoring),
		Reward:         handlers.NewRewardHandler(rewardService),
		BestCard:       handlers.NewBestCardHandler(bestCardService),
		Recurring:      handlers.NewRecurringHandler(recurringService),
		Insight:        handlers.NewInsightHandler(insightService),
		Chat:           handlers.NewChatHandler(chatService),
		Admin:          handlers.NewAdminHandler(adminAuth),
	}

	router := routes.SetupRouter(cfg, logger, h, verifier, userService, adminAuth)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	logger.Info("server exited")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
