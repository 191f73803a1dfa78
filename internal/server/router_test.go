package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/zen-task-api/internal/auth"
	"github.com/yukikurage/zen-task-api/internal/config"
	"github.com/yukikurage/zen-task-api/internal/database"
	"github.com/yukikurage/zen-task-api/internal/models"
	"github.com/yukikurage/zen-task-api/internal/repository"
	"github.com/yukikurage/zen-task-api/internal/services"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Env: config.EnvProd,
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: ":memory:",
		},
		Session: config.SessionConfig{
			Store:  config.SessionStoreCookie,
			Secret: "session-secret",
		},
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.MigrateDatabase(db, zerolog.Nop()))
	t.Cleanup(func() { database.Close(db) })

	logger := zerolog.Nop()
	authService := services.NewAuthService(
		repository.NewUserRepository(db),
		auth.NewPasswordHasher(bcrypt.MinCost),
		auth.NewTokenManager(auth.TokenConfig{Secret: "jwt-secret", Issuer: "zen-task-api", Expiration: time.Hour}),
		logger,
	)
	taskService := services.NewTaskService(repository.NewTaskRepository(db), nil, logger)

	store, err := NewSessionStore(cfg.Session, false)
	require.NoError(t, err)

	return NewRouter(Dependencies{
		AuthService: authService,
		TaskService: taskService,
		Logger:      logger,
	}, store)
}

func send(t *testing.T, h http.Handler, method, url string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, url, &body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := send(t, r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestSessionFlow(t *testing.T) {
	r := newTestRouter(t)

	w := send(t, r, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "sessionuser",
		"email":    "session@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = send(t, r, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "sessionuser",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	due := models.Today().AddDate(0, 0, 1).Format(models.DateLayout)
	w = send(t, r, http.MethodPost, "/api/v1/tasks", map[string]interface{}{
		"title":       "Session task",
		"description": "Created with the session cookie",
		"dueDate":     due,
		"isImportant": true,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"quadrant":"SCHEDULE"`)

	w = send(t, r, http.MethodGet, "/api/v1/tasks/dashboard", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = send(t, r, http.MethodPost, "/api/v1/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/auth/status"},
		{http.MethodGet, "/api/v1/tasks"},
		{http.MethodPost, "/api/v1/tasks"},
		{http.MethodGet, "/api/v1/tasks/dashboard"},
		{http.MethodGet, "/api/v1/tasks/weekly/2030-01-01"},
		{http.MethodPost, "/api/v1/tasks/suggest"},
		{http.MethodGet, "/api/v1/tasks/1"},
		{http.MethodPatch, "/api/v1/tasks/1/move"},
		{http.MethodDelete, "/api/v1/tasks/1"},
		{http.MethodPatch, "/api/v1/users/00000000-0000-0000-0000-000000000000/role"},
	}

	for _, route := range routes {
		w := send(t, r, route.method, route.path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
		assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
	}
}

func TestNewSessionStore_DefaultMaxAge(t *testing.T) {
	store, err := NewSessionStore(config.SessionConfig{Store: config.SessionStoreCookie, Secret: "s"}, true)
	require.NoError(t, err)
	assert.NotNil(t, store)
}
