package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// userIDContextKey is the echo context key holding the authenticated user ID.
const userIDContextKey = "fk.userID"

// requestLogger logs request metadata only, never payloads.
func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			log.Info("http",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("dur", time.Since(start)),
				zap.String("remote", c.RealIP()),
			)
			return err
		}
	}
}

// requireAuth extracts "Authorization: Bearer <JWT>", verifies HS256 and
// stores the subject user ID on the context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tok, err := bearerToken(c.Request().Header.Get("Authorization"))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "no auth")
		}

		var claims jwt.RegisteredClaims
		parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return s.signKey, nil
		})
		if err != nil || !parsed.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		v := jwt.NewValidator(jwt.WithLeeway(30 * time.Second))
		if err := v.Validate(&claims); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "token expired or not valid yet")
		}

		id, err := uuid.FromString(claims.Subject)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "bad subject")
		}

		c.Set(userIDContextKey, id)
		return next(c)
	}
}

// authedUserID returns the user ID stored by requireAuth.
func authedUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(userIDContextKey).(uuid.UUID)
	return id, ok
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if len(header) >= 7 && strings.EqualFold(header[:7], "bearer ") {
		if t := strings.TrimSpace(header[7:]); t != "" {
			return t, nil
		}
	}
	return "", errors.New("no bearer token")
}

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
