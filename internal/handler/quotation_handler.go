package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/service"
)

type QuotationHandler struct {
	svc service.QuotationService
}

func NewQuotationHandler(svc service.QuotationService) *QuotationHandler {
	return &QuotationHandler{svc: svc}
}

func (h *QuotationHandler) RegisterRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/quotations", h.Generate, m...)
	g.GET("/quotations", h.List, m...)
	g.GET("/quotations/:itemId", h.Get, m...)
	g.GET("/quotations/:itemId/pdf", h.DownloadPDF, m...)
	g.POST("/quotations/:itemId/send", h.Send, m...)
	g.PATCH("/quotations/:itemId/status", h.UpdateStatus, m...)
}

func quotationIDs(c echo.Context) (uint, uint, error) {
	pkgID, err := packageID(c)
	if err != nil {
		return 0, 0, err
	}
	id, err := parseID(c, "itemId", "quotation")
	if err != nil {
		return 0, 0, err
	}
	return pkgID, id, nil
}

func (h *QuotationHandler) Generate(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}
	var req dto.QuotationCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	q, err := h.svc.Generate(c.Request().Context(), pkgID, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, q, "Quotation generated successfully")
}

func (h *QuotationHandler) List(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}

	quotations, err := h.svc.List(c.Request().Context(), pkgID)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, quotations, "")
}

func (h *QuotationHandler) Get(c echo.Context) error {
	pkgID, id, err := quotationIDs(c)
	if err != nil {
		return err
	}

	q, err := h.svc.Get(c.Request().Context(), pkgID, id)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, q, "")
}

func (h *QuotationHandler) DownloadPDF(c echo.Context) error {
	pkgID, id, err := quotationIDs(c)
	if err != nil {
		return err
	}

	path, err := h.svc.PDFPath(c.Request().Context(), pkgID, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.File(path)
}

func (h *QuotationHandler) Send(c echo.Context) error {
	pkgID, id, err := quotationIDs(c)
	if err != nil {
		return err
	}

	q, err := h.svc.Send(c.Request().Context(), pkgID, id)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, q, "Quotation sent successfully")
}

func (h *QuotationHandler) UpdateStatus(c echo.Context) error {
	pkgID, id, err := quotationIDs(c)
	if err != nil {
		return err
	}
	var req dto.QuotationStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	q, err := h.svc.UpdateStatus(c.Request().Context(), pkgID, id, req.Status)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, q, "Status updated successfully")
}
