package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/brightlines/interference-tracker/internal/http/handlers"
)

type RouterConfig struct {
	AllowOrigins    []string
	HealthHandler   *handlers.HealthHandler
	ConfigHandler   *handlers.ConfigHandler
	IncidentHandler *handlers.IncidentHandler
	AdminHandler    *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/config", cfg.ConfigHandler.GetConfig)
		api.GET("/meta", cfg.IncidentHandler.GetMeta)
		api.GET("/incidents", cfg.IncidentHandler.ListIncidents)
		api.GET("/ingest/runs", cfg.IncidentHandler.ListIngestRuns)
	}

	admin := router.Group("/api/admin")
	{
		admin.PUT("/incidents/:postID", cfg.AdminHandler.UpsertIncident)
		admin.DELETE("/incidents/:postID", cfg.AdminHandler.DeleteIncident)
	}

	return router
}
