package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/zen-task-api/internal/auth"
	"github.com/yukikurage/zen-task-api/internal/config"
	"github.com/yukikurage/zen-task-api/internal/constants"
	"github.com/yukikurage/zen-task-api/internal/database"
	"github.com/yukikurage/zen-task-api/internal/middleware"
	"github.com/yukikurage/zen-task-api/internal/models"
	"github.com/yukikurage/zen-task-api/internal/repository"
	"github.com/yukikurage/zen-task-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	authService *services.AuthService
	taskService *services.TaskService
	router      *gin.Engine
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := database.Connect(&config.Config{
		Env: config.EnvProd,
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: ":memory:",
		},
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })

	logger := zerolog.Nop()
	authService := services.NewAuthService(
		repository.NewUserRepository(db),
		auth.NewPasswordHasher(bcrypt.MinCost),
		auth.NewTokenManager(auth.TokenConfig{
			Secret:     "test-secret",
			Issuer:     "zen-task-api",
			Expiration: time.Hour,
		}),
		logger,
	)
	taskService := services.NewTaskService(repository.NewTaskRepository(db), nil, logger)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)
	userHandler := NewUserHandler(authService)
	requireAuth := middleware.RequireAuth(authService, logger)

	api := r.Group("/api/v1")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/status", requireAuth, authHandler.Status)

	tasks := api.Group("/tasks", requireAuth)
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

	api.PATCH("/users/:id/role", requireAuth, userHandler.UpdateRole)

	return testEnv{
		db:          db,
		authService: authService,
		taskService: taskService,
		router:      r,
	}
}

// registerAndLogin creates a user and returns a bearer token for it
func (env testEnv) registerAndLogin(t *testing.T, username string) (*models.User, string) {
	t.Helper()

	user, err := env.authService.Register(context.Background(), services.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	result, err := env.authService.Login(context.Background(), services.LoginInput{
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)

	return user, result.Token.Value
}

func (env testEnv) do(t *testing.T, method, url string, payload interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type errorBody struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details"`
	Errors    map[string]string `json:"errors"`
	Timestamp time.Time         `json:"timestamp"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decodeBody(t, w, &body)
	require.False(t, body.Timestamp.IsZero(), "error envelope must carry a timestamp")
	return body
}

func dateString(daysFromToday int) string {
	return models.Today().AddDate(0, 0, daysFromToday).Format(models.DateLayout)
}
