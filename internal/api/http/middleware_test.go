package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/credit-service/internal/observability"
	apperrors "github.com/spec-kit/credit-service/pkg/util"
)

type envelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		StatusCode int    `json:"statusCode"`
		Timestamp  string `json:"timestamp"`
		Path       string `json:"path"`
		Method     string `json:"method"`
		Stack      string `json:"stack"`
	} `json:"error"`
}

func envelopeApp(production bool) *fiber.App {
	app := fiber.New()
	app.Use(errorEnvelopeMiddleware(zap.NewNop(), observability.NewMetrics(), production))
	app.Get("/forbidden", func(c *fiber.Ctx) error {
		return apperrors.NewForbidden("OWNERSHIP_DENIED", "Você não tem permissão para acessar este recurso")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return apperrors.NewInternalError(errors.New("pool exhausted"))
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("unexpected")
	})
	app.Get("/fiber-error", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	return app
}

func getEnvelope(t *testing.T, app *fiber.App, target string) (int, envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return resp.StatusCode, env
}

func TestErrorEnvelopeShape(t *testing.T) {
	app := envelopeApp(true)

	status, env := getEnvelope(t, app, "/forbidden")
	require.Equal(t, http.StatusForbidden, status)
	require.False(t, env.Success)
	require.Equal(t, "OWNERSHIP_DENIED", env.Error.Code)
	require.Equal(t, "Você não tem permissão para acessar este recurso", env.Error.Message)
	require.Equal(t, http.StatusForbidden, env.Error.StatusCode)
	require.Equal(t, "/forbidden", env.Error.Path)
	require.Equal(t, http.MethodGet, env.Error.Method)
	require.NotEmpty(t, env.Error.Timestamp)
}

func TestErrorEnvelopeHidesCauseInProduction(t *testing.T) {
	status, env := getEnvelope(t, envelopeApp(true), "/boom")
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	require.Equal(t, "Erro interno do servidor", env.Error.Message)
	require.Empty(t, env.Error.Stack)

	_, env = getEnvelope(t, envelopeApp(false), "/boom")
	require.Equal(t, "pool exhausted", env.Error.Stack)
}

func TestErrorEnvelopeRecoversPanics(t *testing.T) {
	status, env := getEnvelope(t, envelopeApp(true), "/panic")
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	require.Equal(t, "Erro interno do servidor", env.Error.Message)
}

func TestErrorEnvelopeMapsFiberErrors(t *testing.T) {
	status, env := getEnvelope(t, envelopeApp(true), "/fiber-error")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestErrorEnvelopeLeavesSuccessAlone(t *testing.T) {
	app := envelopeApp(true)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestTimeoutReachesUserContext(t *testing.T) {
	app := fiber.New()
	app.Use(requestTimeoutMiddleware(time.Minute))

	var deadline time.Time
	var hasDeadline bool
	app.Get("/deadline", func(c *fiber.Ctx) error {
		deadline, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/deadline", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, hasDeadline, "handlers must see the configured deadline")
	require.WithinDuration(t, time.Now().Add(time.Minute), deadline, 10*time.Second)
}

func TestNotFoundFallback(t *testing.T) {
	app := fiber.New()
	RegisterNotFound(app)

	status, env := getEnvelope(t, app, "/no/such/route")
	require.Equal(t, http.StatusNotFound, status)
	require.False(t, env.Success)
	require.Equal(t, "Route GET /no/such/route not found", env.Error.Message)
	require.Equal(t, http.StatusNotFound, env.Error.StatusCode)
}
