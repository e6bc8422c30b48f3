package integration

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-videochat-be/internal/bootstrap"
	"ai-videochat-be/internal/config"
	"ai-videochat-be/internal/dto"
	"ai-videochat-be/internal/server"
	"ai-videochat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

// apiResponse mirrors the envelope every handler wraps its payload in.
type apiResponse struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestAuthFlow(t *testing.T) {
	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	email := "authflow-" + uuid.New().String() + "@example.com"
	password := "s3cret-password"

	defer func() {
		db.Exec("DELETE FROM users WHERE email = ?", email)
	}()

	var token string

	t.Run("Register", func(t *testing.T) {
		body := `{"email":"` + email + `","password":"` + password + `","full_name":"Auth Flow User"}`
		req := httptest.NewRequest("POST", "/api/auth/v1/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var envelope apiResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
		assert.True(t, envelope.Success)

		var data dto.RegisterResponse
		assert.NoError(t, json.Unmarshal(envelope.Data, &data))
		assert.Equal(t, email, data.Email)
	})

	t.Run("Register duplicate is rejected", func(t *testing.T) {
		body := `{"email":"` + email + `","password":"` + password + `","full_name":"Auth Flow User"}`
		req := httptest.NewRequest("POST", "/api/auth/v1/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Login", func(t *testing.T) {
		body := `{"email":"` + email + `","password":"` + password + `"}`
		req := httptest.NewRequest("POST", "/api/auth/v1/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var envelope apiResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

		var data dto.LoginResponse
		assert.NoError(t, json.Unmarshal(envelope.Data, &data))
		assert.NotEmpty(t, data.AccessToken)
		token = data.AccessToken
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		body := `{"email":"` + email + `","password":"wrong-password"}`
		req := httptest.NewRequest("POST", "/api/auth/v1/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Profile requires token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/v1/profile", nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Profile", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/v1/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var envelope apiResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

		var data dto.UserProfileResponse
		assert.NoError(t, json.Unmarshal(envelope.Data, &data))
		assert.Equal(t, email, data.Email)
	})
}
