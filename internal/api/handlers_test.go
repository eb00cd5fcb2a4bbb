package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roobaroo/internal/api"
	"roobaroo/internal/config"
	"roobaroo/internal/model"
	"roobaroo/internal/ratelimit"
	"roobaroo/internal/repository"
	"roobaroo/internal/service"
	"roobaroo/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:         "5000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			Environment:  "test",
		},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
		},
	}
}

func newTestApp(t *testing.T, repo repository.Repository, registerMax int) *fiber.App {
	t.Helper()

	cfg := testConfig()
	svc := service.NewRegistrationService(repo, validator.New())

	global := ratelimit.NewMemory(ratelimit.Config{Max: 1000, Window: 15 * time.Minute})
	register := ratelimit.NewMemory(ratelimit.Config{Max: registerMax, Window: 15 * time.Minute})

	return api.NewApp(cfg,
		api.NewRegistrationHandler(svc, cfg),
		api.NewHealthHandler(repo, cfg),
		global, register)
}

func postRegistration(t *testing.T, app *fiber.App, payload validator.Payload) (*http.Response, map[string]any) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestRegister_Success(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryRepository(), 5)

	resp, body := postRegistration(t, app, validator.Payload{
		Name:   "Jo",
		Email:  "jo@x.co",
		Phone:  "123-456-7890",
		Status: "Single",
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Registration submitted successfully!", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "Jo", data["name"])
	assert.Equal(t, "jo@x.co", data["email"])
	assert.Equal(t, "single", data["status"])
	assert.NotEmpty(t, data["registrationDate"])
	assert.NotEmpty(t, data["submittedAt"])
}

func TestRegister_ValidationFailure(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryRepository(), 5)

	resp, body := postRegistration(t, app, validator.Payload{
		Name:   "A",
		Email:  "bad",
		Phone:  "12",
		Status: "solo",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation failed", body["error"])
	assert.Equal(t, []any{
		"Name must be at least 2 characters long",
		"Please provide a valid email address",
		"Phone number must be exactly 10 digits",
		`Status must be either "single" or "couple"`,
	}, body["details"])
}

func TestRegister_MissingFields(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryRepository(), 5)

	resp, body := postRegistration(t, app, validator.Payload{Name: "Jo"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", body["error"])
	assert.Equal(t, []any{
		"Email is required",
		"Phone number is required",
		"Status is required",
	}, body["details"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryRepository(), 5)

	resp, _ := postRegistration(t, app, validator.Payload{
		Name:   "Jo",
		Email:  "jo@x.co",
		Phone:  "9876543210",
		Status: "single",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Same identity after normalization, different casing.
	resp, body := postRegistration(t, app, validator.Payload{
		Name:   "Jo Again",
		Email:  "JO@X.CO",
		Phone:  "9876543210",
		Status: "couple",
	})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "DUPLICATE_EMAIL", body["code"])
	assert.Equal(t, "This email is already registered for the event", body["error"])
}

func TestRegister_RateLimited(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryRepository(), 5)

	emails := []string{"a@x.co", "b@x.co", "c@x.co", "d@x.co", "e@x.co", "f@x.co"}
	for i, email := range emails {
		resp, body := postRegistration(t, app, validator.Payload{
			Name:   "Jo",
			Email:  email,
			Phone:  "9876543210",
			Status: "single",
		})

		if i < 5 {
			assert.Equal(t, http.StatusCreated, resp.StatusCode, "attempt %d", i+1)
			continue
		}

		// 6th valid, unique payload from the same address.
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["code"])
	}
}

func TestRegister_MalformedJSON(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryRepository(), 5)

	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDescribeAPI(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryRepository(), 5)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/register", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "POST", body["method"])
	assert.Equal(t, "/api/register", body["endpoint"])
	assert.Equal(t, []any{"name", "email", "phone", "status"}, body["requiredFields"])
	assert.Equal(t, []any{"single", "couple"}, body["statusOptions"])
}

func TestStats(t *testing.T) {
	repo := repository.NewMemoryRepository()
	app := newTestApp(t, repo, 10)

	registrations := []validator.Payload{
		{Name: "One", Email: "one@x.co", Phone: "1111111111", Status: "single"},
		{Name: "Two", Email: "two@x.co", Phone: "2222222222", Status: "single"},
		{Name: "Three", Email: "three@x.co", Phone: "3333333333", Status: "couple"},
	}
	for _, p := range registrations {
		resp, _ := postRegistration(t, app, p)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	stats, ok := body["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), stats["totalRegistrations"])
	assert.Equal(t, float64(2), stats["singleRegistrations"])
	assert.Equal(t, float64(1), stats["coupleRegistrations"])
	assert.Equal(t, float64(3), stats["todayRegistrations"])
	assert.NotEmpty(t, stats["lastUpdated"])
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryRepository(), 5)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.Equal(t, "Connected", body["database"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotEmpty(t, body["message"])
}

func TestTestDB_Success(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryRepository(), 5)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/test-db", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["totalRegistrations"])
}

// brokenRepo simulates a store whose backend is unreachable.
type brokenRepo struct{}

func (brokenRepo) CreateRegistration(context.Context, model.Registration) (model.Registration, error) {
	return model.Registration{}, repository.ErrConnection
}

func (brokenRepo) GetRegistrationByEmail(context.Context, string) (model.Registration, error) {
	return model.Registration{}, repository.ErrConnection
}

func (brokenRepo) CountRegistrations(context.Context, repository.Filter) (int64, error) {
	return 0, repository.ErrConnection
}

func (brokenRepo) EnsureIndexes(context.Context) error { return repository.ErrConnection }

func (brokenRepo) HealthCheck(context.Context) error { return errors.New("no reachable servers") }

func TestTestDB_Failure(t *testing.T) {
	app := newTestApp(t, brokenRepo{}, 5)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/test-db", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Database connection failed", body["error"])
	assert.NotEmpty(t, body["troubleshooting"])
}

func TestRegister_StorageFailure(t *testing.T) {
	app := newTestApp(t, brokenRepo{}, 5)

	resp, body := postRegistration(t, app, validator.Payload{
		Name:   "Jo",
		Email:  "jo@x.co",
		Phone:  "9876543210",
		Status: "single",
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.Equal(t, "Registration failed. Please try again later.", body["error"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	app := newTestApp(t, brokenRepo{}, 5)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Disconnected", body["database"])
}

func TestUnmatchedRoute(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryRepository(), 5)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}
