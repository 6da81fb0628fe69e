package http

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"github.com/spec-kit/credit-service/internal/config"
	"github.com/spec-kit/credit-service/internal/observability"
	apperrors "github.com/spec-kit/credit-service/pkg/util"
)

// RegisterMiddlewares attaches the global middleware chain. Order matters:
// the sanitizer runs last so every later stage reads trimmed input.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, cfg *config.Config) {
	app.Use(helmet.New())
	app.Use(newCORS(cfg.CORS))
	app.Use(compress.New())

	// The original deployment rate-limits only in production; development
	// traffic (and health probes) stays unlimited.
	if cfg.App.IsProduction() {
		app.Use(limiter.New(limiter.Config{
			Max:        100,
			Expiration: 15 * time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/health" || strings.HasPrefix(c.Path(), "/health/")
			},
		}))
	}

	if timeout := cfg.App.RequestTimeout(); timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorEnvelopeMiddleware(logger, metrics, cfg.App.IsProduction()))
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(SanitizeInput())
}

// RegisterNotFound installs the fallback route. Call it after all routes.
func RegisterNotFound(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"message":    fmt.Sprintf("Route %s %s not found", c.Method(), c.OriginalURL()),
				"statusCode": http.StatusNotFound,
				"timestamp":  time.Now().UTC().Format(time.RFC3339),
				"path":       c.OriginalURL(),
				"method":     c.Method(),
			},
		})
	})
}

func newCORS(cfg config.CORSConfig) fiber.Handler {
	corsCfg := cors.Config{
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Content-Type,Authorization,X-Request-ID,Accept",
	}
	if len(cfg.Origins) > 0 {
		corsCfg.AllowOrigins = strings.Join(cfg.Origins, ",")
		corsCfg.AllowCredentials = true
	}
	return cors.New(corsCfg)
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorEnvelopeMiddleware converts every error into the uniform envelope
// {"success":false,"error":{...}} consumed by the frontend toast rendering.
// Internal errors are logged with their cause; clients get a generic message.
func errorEnvelopeMiddleware(logger *zap.Logger, metrics *observability.Metrics, production bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}

			domainErr := toEnvelopeError(err)
			metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
			if domainErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Error("request failed",
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.Error(domainErr))
			}

			errBody := fiber.Map{
				"code":       domainErr.Code,
				"message":    domainErr.Message,
				"statusCode": domainErr.HTTPStatus,
				"timestamp":  time.Now().UTC().Format(time.RFC3339),
				"path":       c.OriginalURL(),
				"method":     c.Method(),
			}
			if len(domainErr.Details) > 0 {
				errBody["details"] = domainErr.Details
			}
			if !production && domainErr.Err != nil {
				errBody["stack"] = domainErr.Err.Error()
			}

			c.Status(domainErr.HTTPStatus)
			_ = c.JSON(fiber.Map{"success": false, "error": errBody})
			err = nil
		}()
		return c.Next()
	}
}

func toEnvelopeError(err error) *apperrors.DomainError {
	if fiberErr, ok := err.(*fiber.Error); ok {
		return apperrors.NewDomainError(codeForStatus(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	}
	return apperrors.ToDomainError(err)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_FAILED"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return "INTERNAL_ERROR"
	}
}
