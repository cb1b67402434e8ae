package httpapi

import (
	"errors"
	"net/http"

	"github.com/gofrs/uuid/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/freshkeep/freshkeep/internal/errs"
	"github.com/freshkeep/freshkeep/internal/model"
)

// handleListNotifications returns all of the user's notifications.
func (s *Server) handleListNotifications(c echo.Context) error {
	userID, ok := authedUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no auth")
	}
	list, err := s.notifications.List(c.Request().Context(), userID)
	if err != nil {
		s.log.Error("list notifications failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "list failed")
	}
	return c.JSON(http.StatusOK, nonNil(list))
}

// handleListUnreadNotifications returns the user's unread notifications.
func (s *Server) handleListUnreadNotifications(c echo.Context) error {
	userID, ok := authedUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no auth")
	}
	list, err := s.notifications.ListUnread(c.Request().Context(), userID)
	if err != nil {
		s.log.Error("list unread notifications failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "list failed")
	}
	return c.JSON(http.StatusOK, nonNil(list))
}

// handleMarkNotificationRead flips the read flag of one notification.
func (s *Server) handleMarkNotificationRead(c echo.Context) error {
	userID, ok := authedUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no auth")
	}
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad id")
	}
	if err := s.notifications.MarkRead(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		s.log.Error("mark notification read failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "mark read failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// handleMarkAllNotificationsRead flips the read flag of all notifications.
func (s *Server) handleMarkAllNotificationsRead(c echo.Context) error {
	userID, ok := authedUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no auth")
	}
	if err := s.notifications.MarkAllRead(c.Request().Context(), userID); err != nil {
		s.log.Error("mark all notifications read failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "mark all read failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// nonNil keeps empty lists serializing as [] instead of null.
func nonNil(list []model.Notification) []model.Notification {
	if list == nil {
		return []model.Notification{}
	}
	return list
}
