package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantlab/sandbox-backend-go/internal/config"
	"github.com/quantlab/sandbox-backend-go/internal/database"
	"github.com/quantlab/sandbox-backend-go/internal/handler"
	"github.com/quantlab/sandbox-backend-go/internal/heatmap"
	"github.com/quantlab/sandbox-backend-go/internal/middleware"
	"github.com/quantlab/sandbox-backend-go/internal/repository"
	"github.com/quantlab/sandbox-backend-go/internal/service"
	"github.com/quantlab/sandbox-backend-go/pkg/metrics"
)

// SetupRouter wires repositories, services and handlers onto the gin engine
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// CORS for the sandbox UI
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	db := database.GetDB()
	sweepRepo := repository.NewSweepRepository(db)
	resultRepo := repository.NewResultRepository(db)

	sweepService := service.NewSweepService(sweepRepo, resultRepo, cfg.SweepSeed)
	heatmapService := service.NewHeatMapService(sweepRepo, resultRepo, heatmap.New())

	sweepHandler := handler.NewSweepHandler(sweepService)
	heatmapHandler := handler.NewHeatMapHandler(heatmapService)
	authHandler := handler.NewAuthHandler(cfg.JWTSecret)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Strategy Sandbox API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(120, time.Minute))
	{
		api.POST("/auth/login", authHandler.Login)

		authed := api.Group("")
		authed.Use(middleware.Auth(cfg.JWTSecret))
		{
			sweeps := authed.Group("/sweeps")
			{
				sweeps.POST("", sweepHandler.CreateSweep)
				sweeps.GET("", sweepHandler.ListSweeps)
				sweeps.GET("/:id", sweepHandler.GetSweep)
				sweeps.DELETE("/:id", sweepHandler.DeleteSweep)
				sweeps.GET("/:id/results", sweepHandler.GetSweepResults)
				sweeps.POST("/:id/heatmap", heatmapHandler.BuildHeatMap)
			}
		}
	}

	return r
}
