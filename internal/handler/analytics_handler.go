package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/service"
)

type AnalyticsHandler struct {
	svc service.AnalyticsService
}

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/overview", h.Overview)
	g.GET("/sales", h.Sales)
	g.GET("/sales/monthly", h.Monthly)
	g.GET("/sales/quarterly", h.Quarterly)
	g.GET("/sales/yearly", h.Yearly)
	g.GET("/sales/by-airline", h.ByAirline)
	g.GET("/sales/by-destination", h.ByDestination)
	g.GET("/activity", h.Activity)
}

func (h *AnalyticsHandler) Overview(c echo.Context) error {
	overview, err := h.svc.Overview(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, overview, "")
}

func (h *AnalyticsHandler) Sales(c echo.Context) error {
	var filter dto.SalesFilter
	if err := bind(c, &filter); err != nil {
		return err
	}

	report, err := h.svc.Sales(c.Request().Context(), &filter)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, report, "")
}

func (h *AnalyticsHandler) Monthly(c echo.Context) error {
	var q dto.PeriodQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	report, err := h.svc.Monthly(c.Request().Context(), &q)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, report, "")
}

func (h *AnalyticsHandler) Quarterly(c echo.Context) error {
	var q dto.PeriodQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	report, err := h.svc.Quarterly(c.Request().Context(), &q)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, report, "")
}

func (h *AnalyticsHandler) Yearly(c echo.Context) error {
	var q dto.PeriodQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	report, err := h.svc.Yearly(c.Request().Context(), &q)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, report, "")
}

func (h *AnalyticsHandler) ByAirline(c echo.Context) error {
	var q dto.GroupQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	report, err := h.svc.ByAirline(c.Request().Context(), &q)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, report, "")
}

func (h *AnalyticsHandler) ByDestination(c echo.Context) error {
	var q dto.GroupQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	report, err := h.svc.ByDestination(c.Request().Context(), &q)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, report, "")
}

func (h *AnalyticsHandler) Activity(c echo.Context) error {
	var q dto.ActivityQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	activities, err := h.svc.Activity(c.Request().Context(), q.Limit)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, activities, "")
}
