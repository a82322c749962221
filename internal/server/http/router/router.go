package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/NarekMan21/test-deploy-crm/internal/config"
	"github.com/NarekMan21/test-deploy-crm/internal/server/http/handlers"
	"github.com/NarekMan21/test-deploy-crm/internal/server/http/middleware"
	"github.com/NarekMan21/test-deploy-crm/internal/uploads"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CRMFacade, cfg *config.Config, store *uploads.Store, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "reupholstery CRM API"})
	})
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	engine.GET("/uploads/:name", func(c *gin.Context) {
		path, err := store.Open(c.Param("name"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "file not found"})
			return
		}
		c.File(path)
	})

	api := engine.Group("/api")
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.GET("/auth/me", authHandler.Me)

	orders := authed.Group("/orders")
	orders.GET("", orderHandler.List)
	orders.POST("", orderHandler.Create)
	orders.GET("/:id", orderHandler.Get)
	orders.PUT("/:id", orderHandler.Update)
	orders.DELETE("/:id", orderHandler.Delete)
	orders.POST("/:id/submit", orderHandler.Submit)
	orders.POST("/:id/confirm", orderHandler.Confirm)
	orders.PUT("/:id/details", orderHandler.Details)
	orders.POST("/:id/complete", orderHandler.Complete)
	orders.POST("/:id/ready", orderHandler.Deliver)
	orders.GET("/:id/history", orderHandler.History)

	return engine
}
