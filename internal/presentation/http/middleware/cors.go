package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/atelier-api/internal/config"
)

var (
	defaultOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	defaultMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	defaultHeaders = []string{"Accept", "Content-Type", "Origin", "X-Request-ID", IdempotencyKeyHeader}
)

// CORSMiddleware creates a CORS middleware for the admin panel and storefront
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:  orDefault(cfg.AllowedOrigins, defaultOrigins),
		AllowMethods:  orDefault(cfg.AllowedMethods, defaultMethods),
		AllowHeaders:  orDefault(cfg.AllowedHeaders, defaultHeaders),
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", "X-Idempotency-Replayed", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	if slices.Contains(corsConfig.AllowOrigins, "*") {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowCredentials = true
	}
	if !slices.Contains(corsConfig.AllowHeaders, IdempotencyKeyHeader) {
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, IdempotencyKeyHeader)
	}

	return cors.New(corsConfig)
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return slices.Clone(fallback)
	}
	return slices.Clone(values)
}
