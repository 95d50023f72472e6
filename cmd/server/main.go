package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"schedly-service/internal/app"
	"schedly-service/internal/config"
	"schedly-service/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, logger, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("failed to init migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	appInstance := app.New(pool, logger, cfg)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// OAuth2 callback (Google redirects here, no bearer token)
	router.GET("/oauth2callback", appInstance.GoogleOAuth2CallbackHandler)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", appInstance.RegisterHandler)
			auth.POST("/login", appInstance.LoginHandler)
			auth.POST("/logout", appInstance.LogoutHandler)
			auth.GET("/me", appInstance.AuthMiddleware(), appInstance.MeHandler)
		}

		// Public booking pages: guests carry no token.
		booking := api.Group("/booking")
		{
			booking.GET("/:username/:slug", appInstance.PublicBookingInfoHandler)
			booking.GET("/:username/:slug/slots", appInstance.PublicSlotsHandler)
			booking.POST("/:username/:slug", appInstance.PublicBookHandler)
		}

		authed := api.Group("")
		authed.Use(appInstance.AuthMiddleware())
		{
			authed.GET("/users/:id", appInstance.GetUserHandler)
			authed.PATCH("/users/:id", appInstance.UpdateUserHandler)

			authed.GET("/availability", appInstance.ListAvailabilityHandler)
			authed.POST("/availability", appInstance.CreateAvailabilityHandler)
			authed.PUT("/availability/:id", appInstance.UpdateAvailabilityHandler)
			authed.DELETE("/availability/:id", appInstance.DeleteAvailabilityHandler)

			authed.GET("/calendar-connections", appInstance.ListCalendarConnectionsHandler)
			authed.POST("/calendar-connections", appInstance.CreateCalendarConnectionHandler)
			authed.DELETE("/calendar-connections/:id", appInstance.DeleteCalendarConnectionHandler)

			authed.GET("/meeting-types", appInstance.ListMeetingTypesHandler)
			authed.POST("/meeting-types", appInstance.CreateMeetingTypeHandler)
			authed.PUT("/meeting-types/:id", appInstance.UpdateMeetingTypeHandler)
			authed.DELETE("/meeting-types/:id", appInstance.DeleteMeetingTypeHandler)

			authed.GET("/meetings", appInstance.ListMeetingsHandler)
			authed.POST("/meetings", appInstance.CreateMeetingHandler)
			authed.GET("/meetings/:id", appInstance.GetMeetingHandler)
			authed.PUT("/meetings/:id", appInstance.UpdateMeetingHandler)
			authed.DELETE("/meetings/:id", appInstance.DeleteMeetingHandler)

			authed.GET("/onboarding", appInstance.GetOnboardingHandler)
			authed.PUT("/onboarding", appInstance.UpdateOnboardingHandler)

			authed.GET("/slots", appInstance.GetSlotsHandler)

			calendarGroup := authed.Group("/calendar")
			{
				calendarGroup.GET("/auth", appInstance.GoogleAuthHandler)
				calendarGroup.GET("/events", appInstance.GetGoogleCalendarEvents)
				calendarGroup.GET("/calendars", appInstance.GetGoogleCalendarList)
			}
		}
	}

	logger.Info("starting schedly service",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port))

	if err := server.Run(router, cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
