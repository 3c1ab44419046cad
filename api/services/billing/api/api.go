package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/gymdesk/gymdesk-backend/api/auth"
	"github.com/gymdesk/gymdesk-backend/api/services/billing/app"
)

// API exposes the billing service over HTTP.
type API struct {
	logger  *zap.Logger
	service app.Service
}

func New(logger *zap.Logger, service app.Service) API {
	return API{
		logger:  logger.Named("billing-api"),
		service: service,
	}
}

// Register mounts the billing routes. The webhook route is deliberately not
// token-authenticated: it is a gateway-to-server callback verified by MAC.
func (h API) Register(g *echo.Group, authn echo.MiddlewareFunc) {
	g.GET("/plans", h.ListPlans, authn)
	g.GET("/subscription", h.CurrentSubscription, authn)
	g.POST("/payments", h.CreatePayment, authn)
	g.POST("/webhook", h.ReceiveWebhook)
}

type createPaymentRequest struct {
	PlanID string `json:"plan_id"`
}

// CreatePayment issues a payment request for a plan and returns the redirect
// URL for the buyer.
func (h API) CreatePayment(c echo.Context) error {
	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if req.PlanID == "" {
		return c.JSON(http.StatusBadRequest, errorBody("plan_id is required"))
	}

	resp, err := h.service.CreatePayment(c.Request().Context(), auth.GetIdentity(c), req.PlanID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ReceiveWebhook handles the gateway's asynchronous payment notification.
// Non-2xx statuses make the gateway retry per its own policy, so only
// signature mismatches, unresolved subscriptions and write failures are
// reported as errors; failed payments are acknowledged with 200.
func (h API) ReceiveWebhook(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return c.String(http.StatusBadRequest, "bad form data")
	}
	fields := make(map[string]string, len(params))
	for k := range params {
		fields[k] = params.Get(k)
	}

	_, err = h.service.HandleWebhook(c.Request().Context(), fields)
	switch {
	case err == nil:
		return c.String(http.StatusOK, "Webhook received")
	case errors.Is(err, app.ErrInvalidSignature):
		h.logger.Warn("webhook rejected", zap.Error(err))
		return c.String(http.StatusBadRequest, "Invalid MAC")
	case errors.Is(err, app.ErrNotFound):
		h.logger.Error("webhook for unknown payment request", zap.Error(err))
		return c.String(http.StatusNotFound, "Subscription not found")
	default:
		h.logger.Error("webhook processing failed", zap.Error(err))
		return c.String(http.StatusInternalServerError, "Update failed")
	}
}

// ListPlans returns the plan catalogue, cheapest first.
func (h API) ListPlans(c echo.Context) error {
	plans, err := h.service.ListPlans(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, plans)
}

// CurrentSubscription returns the caller's active subscription, or 404 when
// none is active.
func (h API) CurrentSubscription(c echo.Context) error {
	sub, err := h.service.CurrentSubscription(c.Request().Context(), auth.GetIdentity(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func (h API) respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, errorBody(err.Error()))
	case errors.Is(err, app.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, app.ErrGateway):
		h.logger.Error("gateway call failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, errorBody(err.Error()))
	default:
		h.logger.Error("request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
}
