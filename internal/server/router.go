package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/zen-task-api/internal/config"
	"github.com/yukikurage/zen-task-api/internal/constants"
	"github.com/yukikurage/zen-task-api/internal/handlers"
	"github.com/yukikurage/zen-task-api/internal/middleware"
	"github.com/yukikurage/zen-task-api/internal/services"
)

// Dependencies are the services the router exposes over HTTP
type Dependencies struct {
	AuthService *services.AuthService
	TaskService *services.TaskService
	Logger      zerolog.Logger
}

// NewSessionStore builds the cookie or redis backed session store
func NewSessionStore(cfg config.SessionConfig, secure bool) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.Store {
	case config.SessionStoreRedis:
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		s, err := redisStore.NewStore(
			10,    // pool size
			"tcp", // network type
			redisAddr,
			"", // password
			[]byte(cfg.Secret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis session store: %w", err)
		}
		store = s
	default:
		store = cookie.NewStore([]byte(cfg.Secret))
	}

	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = constants.DefaultSessionAge
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// NewRouter wires middleware, handlers and routes
func NewRouter(deps Dependencies, store sessions.Store) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	taskHandler := handlers.NewTaskHandler(deps.TaskService)
	userHandler := handlers.NewUserHandler(deps.AuthService)
	requireAuth := middleware.RequireAuth(deps.AuthService, deps.Logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Zen Task API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		// Auth routes (public except status)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/status", requireAuth, authHandler.Status)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/dashboard", taskHandler.Dashboard)
			tasks.GET("/weekly", taskHandler.WeeklyView)
			tasks.GET("/weekly/:date", taskHandler.WeeklyView)
			tasks.POST("/suggest", taskHandler.SuggestTasks)
			tasks.GET("/:id", middleware.RequireTaskID(), taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequireTaskID(), taskHandler.UpdateTask)
			tasks.PATCH("/:id/move", middleware.RequireTaskID(), taskHandler.MoveTask)
			tasks.PATCH("/:id/status", middleware.RequireTaskID(), taskHandler.UpdateStatus)
			tasks.DELETE("/:id", middleware.RequireTaskID(), taskHandler.DeleteTask)
		}

		// User routes (admin only, checked by the service)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.PATCH("/:id/role", userHandler.UpdateRole)
		}
	}

	return r
}
