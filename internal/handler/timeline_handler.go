package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/service"
)

type TimelineHandler struct {
	svc service.TimelineService
}

func NewTimelineHandler(svc service.TimelineService) *TimelineHandler {
	return &TimelineHandler{svc: svc}
}

func (h *TimelineHandler) RegisterRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.GET("/timeline", h.GetTimeline, m...)
	g.POST("/timeline/steps", h.SetSteps, m...)
	g.GET("/timeline/steps/:stepName", h.GetStep, m...)
	g.PATCH("/timeline/steps/:stepName", h.UpdateStep, m...)
}

// stepName returns the decoded :stepName; step names contain spaces.
func stepName(c echo.Context) string {
	name := c.Param("stepName")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

func (h *TimelineHandler) GetTimeline(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}

	view, err := h.svc.Get(c.Request().Context(), pkgID)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, view, "")
}

// SetSteps seeds the default checklist, or upserts the listed steps when a body is sent.
func (h *TimelineHandler) SetSteps(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}
	var req dto.TimelineInitRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	view, err := h.svc.SetSteps(c.Request().Context(), pkgID, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, view, "Timeline steps initialized successfully")
}

func (h *TimelineHandler) GetStep(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}

	step, err := h.svc.GetStep(c.Request().Context(), pkgID, stepName(c))
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, step, "")
}

func (h *TimelineHandler) UpdateStep(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}
	var req dto.TimelineStepUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	step, err := h.svc.UpdateStep(c.Request().Context(), pkgID, stepName(c), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, step, "Timeline step updated successfully")
}
