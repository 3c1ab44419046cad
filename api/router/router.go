package router

import (
	"github.com/brpaz/echozap"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	billingapi "github.com/gymdesk/gymdesk-backend/api/services/billing/api"
	gymapi "github.com/gymdesk/gymdesk-backend/api/services/gym/api"
)

// New builds the HTTP engine and mounts both service surfaces under /api/v1.
// The billing webhook is the only route left outside token authentication.
func New(logger *zap.Logger, billing billingapi.API, gym gymapi.API, authn echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(echozap.ZapLogger(logger.Named("http")))
	e.Pre(middleware.RemoveTrailingSlash())

	v1 := e.Group("/api/v1")
	billing.Register(v1.Group("/billing"), authn)
	gym.Register(v1.Group("/gym"), authn)

	return e
}
