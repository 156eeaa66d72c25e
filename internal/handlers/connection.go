package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/GabrielASF2/lead-cental/internal/services/connection"
	"github.com/GabrielASF2/lead-cental/pkg/tracing"
)

// ConnectionHandler serves the connection configuration and dashboard data
type ConnectionHandler struct {
	service *connection.Service
}

// NewConnectionHandler creates the connection handler
func NewConnectionHandler(service *connection.Service) *ConnectionHandler {
	return &ConnectionHandler{service: service}
}

// RegisterRoutes registers the connection and dashboard routes
func (h *ConnectionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/connection", h.Configure)
	g.GET("/connection", h.Get)
	g.GET("/leads", h.Leads)
}

// Configure detects and saves the user's connection. A detection that works
// but cannot be saved still returns 200 with saved=false.
func (h *ConnectionHandler) Configure(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ConnectionHandler.Configure")
	defer span.End()

	req, err := BindRequest[connection.ConfigureRequest](c)
	if err != nil {
		return err
	}

	result, err := h.service.Configure(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Get returns the stored connection with its detected schema
func (h *ConnectionHandler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ConnectionHandler.Get")
	defer span.End()

	info, err := h.service.Get(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, info)
}

// Leads returns the rendered dynamic table and KPIs
func (h *ConnectionHandler) Leads(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ConnectionHandler.Leads")
	defer span.End()

	dashboard, err := h.service.Leads(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dashboard)
}
