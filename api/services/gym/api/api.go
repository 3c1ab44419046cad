package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/gymdesk/gymdesk-backend/api/auth"
	"github.com/gymdesk/gymdesk-backend/api/services/gym/app"
)

// API exposes gym management over HTTP. Every route is scoped to the
// authenticated owner's gym.
type API struct {
	logger  *zap.Logger
	service app.Service
}

func New(logger *zap.Logger, service app.Service) API {
	return API{
		logger:  logger.Named("gym-api"),
		service: service,
	}
}

func (h API) Register(g *echo.Group, authn echo.MiddlewareFunc) {
	g.Use(authn)
	g.POST("", h.RegisterGym)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/analytics", h.Analytics)
	g.GET("/members", h.ListMembers)
	g.POST("/members", h.AddMember)
	g.GET("/members/:id", h.GetMember)
	g.PUT("/members/:id", h.UpdateMember)
	g.DELETE("/members/:id", h.DeleteMember)
	g.GET("/plans", h.ListPlans)
	g.POST("/plans", h.AddPlan)
	g.DELETE("/plans/:id", h.DeletePlan)
	g.POST("/payments", h.RecordPayment)
}

// RegisterGym onboards a freshly signed-up owner: one gym_owners row, one
// gyms row.
func (h API) RegisterGym(c echo.Context) error {
	var params app.RegisterGymParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	gym, err := h.service.RegisterGym(c.Request().Context(), auth.GetIdentity(c), params)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, gym)
}

func (h API) Dashboard(c echo.Context) error {
	resp, err := h.service.Dashboard(c.Request().Context(), auth.GetIdentity(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h API) Analytics(c echo.Context) error {
	resp, err := h.service.Analytics(c.Request().Context(), auth.GetIdentity(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h API) ListMembers(c echo.Context) error {
	filter := app.MemberFilter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	}
	members, err := h.service.ListMembers(c.Request().Context(), auth.GetIdentity(c), filter)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, members)
}

func (h API) GetMember(c echo.Context) error {
	member, err := h.service.GetMember(c.Request().Context(), auth.GetIdentity(c), c.Param("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, member)
}

func (h API) AddMember(c echo.Context) error {
	var params app.AddMemberParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	member, err := h.service.AddMember(c.Request().Context(), auth.GetIdentity(c), params)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, member)
}

func (h API) UpdateMember(c echo.Context) error {
	var params app.UpdateMemberParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if err := h.service.UpdateMember(c.Request().Context(), auth.GetIdentity(c), c.Param("id"), params); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h API) DeleteMember(c echo.Context) error {
	if err := h.service.DeleteMember(c.Request().Context(), auth.GetIdentity(c), c.Param("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h API) ListPlans(c echo.Context) error {
	plans, err := h.service.ListPlans(c.Request().Context(), auth.GetIdentity(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, plans)
}

func (h API) AddPlan(c echo.Context) error {
	var params app.AddPlanParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	plan, err := h.service.AddPlan(c.Request().Context(), auth.GetIdentity(c), params)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, plan)
}

func (h API) DeletePlan(c echo.Context) error {
	if err := h.service.DeletePlan(c.Request().Context(), auth.GetIdentity(c), c.Param("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RecordPayment records a collected fee against a member and returns the
// rolled-forward member.
func (h API) RecordPayment(c echo.Context) error {
	var params app.RecordPaymentParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	member, err := h.service.RecordPayment(c.Request().Context(), auth.GetIdentity(c), params)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, member)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func (h API) respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, errorBody(err.Error()))
	case errors.Is(err, app.ErrInvalid):
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, app.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, app.ErrConflict):
		return c.JSON(http.StatusConflict, errorBody(err.Error()))
	default:
		h.logger.Error("request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
}
