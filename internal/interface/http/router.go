package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/skymind/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/weather", handler.Forecast)
		api.GET("/weather/city", handler.CityWeather)
		api.GET("/locations/search", handler.SearchLocations)
		api.GET("/locations/reverse", handler.ReverseGeocode)

		api.GET("/assistant/providers", handler.Providers)
		api.POST("/assistant/analysis", handler.Analyze)
		api.POST("/assistant/chat", handler.Chat)

		api.GET("/favorites", handler.ListFavorites)
		api.POST("/favorites", handler.ToggleFavorite)
		api.DELETE("/favorites/:id", handler.RemoveFavorite)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
