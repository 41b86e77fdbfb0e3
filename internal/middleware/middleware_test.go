package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourismoam/backoffice/internal/dto"
	"go.uber.org/zap"
)

// --- Mock PackageChecker ---

type mockPackages struct {
	existsFn func(ctx context.Context, id uint) (bool, error)
}

func (m *mockPackages) Exists(ctx context.Context, id uint) (bool, error) {
	return m.existsFn(ctx, id)
}

func newTestServer() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	e.Validator = RequestValidator{}
	return e
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) dto.Envelope {
	t.Helper()
	var env dto.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// --- Tests ---

func TestErrorHandler_HTTPError(t *testing.T) {
	e := newTestServer()
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields: full_name")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Missing required fields: full_name", env.Message)
}

func TestErrorHandler_PlainErrorIs500(t *testing.T) {
	e := newTestServer()
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("connection reset")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "connection reset", decodeEnvelope(t, rec).Message)
}

func TestErrorHandler_MethodNotAllowed(t *testing.T) {
	e := newTestServer()
	e.GET("/files/*", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/files/a.pdf", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", decodeEnvelope(t, rec).Message)
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	e := newTestServer()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found", decodeEnvelope(t, rec).Message)
}

func TestRequestValidator_MissingFields(t *testing.T) {
	err := RequestValidator{}.Validate(&dto.LoginRequest{})

	require.Error(t, err)
	assert.Equal(t, "Missing required fields: username, password", err.Error())
}

func TestRateLimit_Blocks(t *testing.T) {
	e := newTestServer()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RateLimit(2, zap.NewNop()))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.7:5000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_PerIP(t *testing.T) {
	e := newTestServer()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RateLimit(1, zap.NewNop()))

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_ForgetsIdleClients(t *testing.T) {
	e := newTestServer()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, rateLimit(1, 20*time.Millisecond, zap.NewNop()))

	login := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, login("10.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, login("10.0.0.1:1"))

	time.Sleep(60 * time.Millisecond)
	// Another client's request sweeps the idle limiter away.
	assert.Equal(t, http.StatusOK, login("10.0.0.2:1"))
	assert.Equal(t, http.StatusOK, login("10.0.0.1:1"))
}

func TestRequirePackage(t *testing.T) {
	checker := &mockPackages{
		existsFn: func(ctx context.Context, id uint) (bool, error) {
			return id == 1, nil
		},
	}
	e := newTestServer()
	e.GET("/api/packages/:id/tours", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequirePackage(checker))

	cases := map[string]int{
		"/api/packages/1/tours":   http.StatusOK,
		"/api/packages/2/tours":   http.StatusNotFound,
		"/api/packages/abc/tours": http.StatusBadRequest,
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestRequirePackage_MethodMismatchIs405(t *testing.T) {
	checker := &mockPackages{
		existsFn: func(ctx context.Context, id uint) (bool, error) {
			t.Fatalf("package lookup must not run for an unmatched method")
			return false, nil
		},
	}
	e := newTestServer()
	e.GET("/api/packages/:id/tours", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequirePackage(checker))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/packages/1/tours", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", decodeEnvelope(t, rec).Message)
}
