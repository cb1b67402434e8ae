package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/freshkeep/freshkeep/internal/errs"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	UserID string `json:"userId"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
}

// handleRegister creates a new user account.
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty username/password")
	}

	userID, err := s.auth.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return echo.NewHTTPError(http.StatusConflict, "username taken")
		}
		s.log.Error("register failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
	}
	return c.JSON(http.StatusCreated, registerResponse{UserID: userID})
}

// handleLogin authenticates a user and returns an access token.
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request body")
	}

	tok, u, err := s.auth.LoginWithIP(c.Request().Context(), req.Username, req.Password, c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUnauthorized):
			return echo.NewHTTPError(http.StatusUnauthorized, "bad credentials")
		case errors.Is(err, errs.ErrRateLimited):
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
		default:
			s.log.Error("login failed", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
		}
	}
	return c.JSON(http.StatusOK, loginResponse{
		UserID:      u.ID.String(),
		AccessToken: tok.AccessToken,
	})
}
