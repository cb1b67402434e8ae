// Package httpapi exposes the REST API and the push WebSocket endpoint.
package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/freshkeep/freshkeep/internal/server/ws"
	"github.com/freshkeep/freshkeep/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	echo          *echo.Echo
	auth          service.AuthService
	ingredients   service.IngredientService
	notifications service.NotificationService
	signKey       []byte
	log           *zap.Logger
}

// New constructs the HTTP server with injected services and the WebSocket
// push handler.
func New(
	auth service.AuthService,
	ingredients service.IngredientService,
	notifications service.NotificationService,
	pushHandler *ws.Handler,
	signKey []byte,
	log *zap.Logger,
) *Server {
	s := &Server{
		echo:          echo.New(),
		auth:          auth,
		ingredients:   ingredients,
		notifications: notifications,
		signKey:       signKey,
		log:           log,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(echomw.Recover())
	s.echo.Use(requestLogger(log))

	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// The push channel is addressed by the userId query parameter; it is not
	// authenticated here.
	s.echo.GET("/ws", pushHandler.Serve)

	api := s.echo.Group("/api")
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)

	authed := api.Group("", s.requireAuth)
	authed.GET("/ingredients", s.handleListIngredients)
	authed.POST("/ingredients", s.handleCreateIngredient)
	authed.GET("/ingredients/:id", s.handleGetIngredient)
	authed.PUT("/ingredients/:id", s.handleUpdateIngredient)
	authed.DELETE("/ingredients/:id", s.handleDeleteIngredient)

	authed.GET("/notifications", s.handleListNotifications)
	authed.GET("/notifications/unread", s.handleListUnreadNotifications)
	authed.PUT("/notifications/:id/read", s.handleMarkNotificationRead)
	authed.PUT("/notifications/read-all", s.handleMarkAllNotificationsRead)

	return s
}

// Start begins serving on addr and blocks until shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := contextWithTimeout(timeout)
	defer cancel()
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying router, used by handler tests.
func (s *Server) Echo() *echo.Echo { return s.echo }
