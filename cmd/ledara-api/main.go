package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/rs/zerolog"

	"github.com/vmilosev/ledara-api/internal/config"
	"github.com/vmilosev/ledara-api/internal/database"
	"github.com/vmilosev/ledara-api/internal/handlers"
	authmw "github.com/vmilosev/ledara-api/internal/middleware"
	"github.com/vmilosev/ledara-api/internal/services"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "ledara-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	jwtService := services.NewJWTService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db, cfg.BcryptCost)
	authService := services.NewAuthService(db, userService, jwtService)
	profileService := services.NewProfileService(userService)
	activityService := services.NewActivityService(db)
	quotaService := services.NewQuotaService(db)

	authHandler := handlers.NewAuthHandler(cfg, authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	activityHandler := handlers.NewActivityHandler(activityService)
	quotaHandler := handlers.NewQuotaHandler(quotaService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(driftmw.Recovery())
	app.Use(driftmw.CORSWithConfig(driftmw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(driftmw.BodyParser())
	app.Use(authmw.RequestLogger(logger))

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/profile", profileHandler.Get)
	protected.Patch("/profile", profileHandler.Update)
	protected.Delete("/profile", profileHandler.Delete)
	protected.Post("/profile/welcome/complete", profileHandler.CompleteWelcome)
	protected.Post("/profile/additional-info/complete", profileHandler.CompleteAdditionalInformation)

	protected.Get("/activity/feed", activityHandler.GetFeed)
	protected.Get("/activity/conversations", activityHandler.GetConversations)
	protected.Get("/activity/collections", activityHandler.GetCollectionActivities)

	protected.Get("/quota", quotaHandler.Get)
	protected.Get("/quota/events", quotaHandler.GetEvents)
	protected.Get("/quota/check/:definitionUuid", quotaHandler.Check)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := app.Run(addr); err != nil {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
}
