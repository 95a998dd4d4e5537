package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gwlabs/giveaway-backend/api/routes"
	"github.com/gwlabs/giveaway-backend/internal/config"
	"github.com/gwlabs/giveaway-backend/internal/handlers"
	mongorepo "github.com/gwlabs/giveaway-backend/internal/repositories/mongodb"
	"github.com/gwlabs/giveaway-backend/internal/services"
	"github.com/gwlabs/giveaway-backend/pkg/mongodb"
	"github.com/gwlabs/giveaway-backend/pkg/partnerapi"
	"github.com/gwlabs/giveaway-backend/pkg/presentation"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	cancel()
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	giveawayRepo := mongorepo.NewGiveawayRepository(db)
	cacheRepo := mongorepo.NewEligibilityCacheRepository(db)
	userMapRepo := mongorepo.NewUserMapRepository(db)
	templateRepo := mongorepo.NewTemplateRepository(db)
	settingsRepo := mongorepo.NewServerSettingsRepository(db)
	moderatorRepo := mongorepo.NewModeratorRepository(db)

	// External collaborators
	partnerClient := partnerapi.NewClient(cfg.Partner.BaseURL, cfg.Partner.APIKey, cfg.Partner.MockAPI)
	gateway := presentation.NewWebhookGateway(cfg.Presentation.RenderURL, cfg.Presentation.AnnounceURL, cfg.Presentation.Mock)

	// Services
	locks := services.NewGuildLocks()
	eligibilityService := services.NewEligibilityService(cacheRepo, partnerClient)
	scheduler := services.NewLifecycleScheduler(giveawayRepo, userMapRepo, eligibilityService, gateway, gateway, locks, cfg.Engine.RefreshInterval())
	entryService := services.NewEntryService(giveawayRepo, userMapRepo, eligibilityService, gateway, locks)
	drafts := services.NewDraftStore(cfg.Engine.DraftTTL())
	giveawayService := services.NewGiveawayService(giveawayRepo, templateRepo, settingsRepo, userMapRepo, eligibilityService, scheduler, gateway, drafts)
	templateService := services.NewTemplateService(templateRepo)
	settingsService := services.NewSettingsService(settingsRepo)
	userMapService := services.NewUserMapService(userMapRepo)
	authService := services.NewAuthService(moderatorRepo, cfg)

	// Re-arm schedules for giveaways persisted as active; close any whose
	// deadline passed while the process was down.
	reconcileCtx, cancelReconcile := context.WithTimeout(context.Background(), 30*time.Second)
	if err := scheduler.Reconcile(reconcileCtx); err != nil {
		slog.Error("Failed to reconcile active giveaways", "error", err)
		cancelReconcile()
		os.Exit(1)
	}
	cancelReconcile()

	// Handlers
	h := &routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Giveaway: handlers.NewGiveawayHandler(giveawayService),
		Entry:    handlers.NewEntryHandler(entryService),
		UserMap:  handlers.NewUserMapHandler(userMapService),
		Template: handlers.NewTemplateHandler(templateService),
		Settings: handlers.NewSettingsHandler(settingsService),
		Check:    handlers.NewCheckHandler(giveawayService),
	}

	router := routes.SetupRouter(cfg, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	scheduler.Shutdown()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
