// Package server wires the HTTP surface: the sellable-items endpoint,
// health and capability listings, CORS, and Prometheus exposition. The
// surface is a thin wrapper; all decision logic lives in pkg/marketplace.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/logging"
	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/marketplace"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(agg *marketplace.Aggregator, appName string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORS())

	h := &Handler{
		aggregator: agg,
		appName:    appName,
		logger:     logging.NewLogger("http"),
	}

	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("/user/:userId/sellable-items", h.SellableItems)

	return router
}

// CORS allows browser frontends on other origins to call the read-only API.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Requested-With"},
	})
}
