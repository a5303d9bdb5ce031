package app

import (
	"github.com/oriana-monaldi/Hamster-habits/internal/auth"
	"github.com/oriana-monaldi/Hamster-habits/internal/cache"
	"github.com/oriana-monaldi/Hamster-habits/internal/config"
	"github.com/oriana-monaldi/Hamster-habits/internal/handlers"
	"github.com/oriana-monaldi/Hamster-habits/internal/live"
	"github.com/oriana-monaldi/Hamster-habits/internal/repo"
	"github.com/oriana-monaldi/Hamster-habits/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, broker *live.Broker) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	sessionStore := auth.NewStore(rdb, cfg.Auth.SessionTTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc, cfg.Auth.VerboseErrors)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireSession(sessionStore))
	habitRepo := repo.NewPGHabitRepo(db)
	habitCache := cache.NewHabitCache(rdb, cfg.Redis.DefaultTTL.Duration())
	habitSvc := service.NewHabitService(habitRepo, habitCache, broker)
	habitHandler := handlers.NewHabitHandler(habitSvc)
	streamHandler := handlers.NewStreamHandler(habitSvc, broker)
	registerHabitRoutes(protected, habitHandler, streamHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Hamster Habits API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerHabitRoutes(api *gin.RouterGroup, h *handlers.HabitHandler, s *handlers.StreamHandler) {
	api.POST("/habits", h.Create)
	api.GET("/habits", h.List)
	api.GET("/habits/search", h.Search)
	api.GET("/habits/stream", s.Subscribe)
	api.GET("/habits/:id", h.GetByID)
	api.PATCH("/habits/:id", h.Update)
	api.DELETE("/habits/:id", h.Delete)
	api.POST("/habits/:id/complete", h.Complete)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
}
