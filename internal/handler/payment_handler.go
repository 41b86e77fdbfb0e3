package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/service"
)

type PaymentHandler struct {
	svc   service.PaymentService
	files service.FileService
}

func NewPaymentHandler(svc service.PaymentService, files service.FileService) *PaymentHandler {
	return &PaymentHandler{svc: svc, files: files}
}

func (h *PaymentHandler) RegisterRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/payments", h.Record, m...)
	g.GET("/payments", h.List, m...)
	g.GET("/payments/:itemId", h.Get, m...)
	g.PUT("/payments/:itemId", h.Update, m...)
	g.DELETE("/payments/:itemId", h.Delete, m...)
	g.POST("/payments/:itemId/receipt", h.UploadReceipt, m...)
	g.GET("/payments/:itemId/receipt", h.GetReceipt, m...)
}

func paymentIDs(c echo.Context) (uint, uint, error) {
	pkgID, err := packageID(c)
	if err != nil {
		return 0, 0, err
	}
	id, err := parseID(c, "itemId", "payment")
	if err != nil {
		return 0, 0, err
	}
	return pkgID, id, nil
}

func (h *PaymentHandler) Record(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}
	var req dto.PaymentInput
	if err := bind(c, &req); err != nil {
		return err
	}

	payment, err := h.svc.Record(c.Request().Context(), pkgID, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, payment, "Payment created successfully")
}

func (h *PaymentHandler) List(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}

	list, err := h.svc.List(c.Request().Context(), pkgID)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, list, "")
}

func (h *PaymentHandler) Get(c echo.Context) error {
	pkgID, id, err := paymentIDs(c)
	if err != nil {
		return err
	}

	payment, err := h.svc.Get(c.Request().Context(), pkgID, id)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, payment, "")
}

func (h *PaymentHandler) Update(c echo.Context) error {
	pkgID, id, err := paymentIDs(c)
	if err != nil {
		return err
	}
	var req dto.PaymentUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	payment, err := h.svc.Update(c.Request().Context(), pkgID, id, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, payment, "Payment updated successfully")
}

func (h *PaymentHandler) Delete(c echo.Context) error {
	pkgID, id, err := paymentIDs(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), pkgID, id); err != nil {
		return toHTTPError(err)
	}
	return deleted(c, "Payment deleted successfully")
}

func (h *PaymentHandler) UploadReceipt(c echo.Context) error {
	pkgID, id, err := paymentIDs(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.svc.Get(ctx, pkgID, id); err != nil {
		return toHTTPError(err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	stored, err := h.files.Store(service.KindReceipts, fh)
	if err != nil {
		return toHTTPError(err)
	}
	if _, err := h.svc.SetReceipt(ctx, pkgID, id, stored.Path); err != nil {
		return toHTTPError(err)
	}

	return success(c, http.StatusOK, map[string]any{
		"payment_id":         id,
		"receipt_image_path": stored.Path,
		"image_url":          stored.URL,
	}, "Payment receipt uploaded successfully")
}

func (h *PaymentHandler) GetReceipt(c echo.Context) error {
	pkgID, id, err := paymentIDs(c)
	if err != nil {
		return err
	}

	payment, err := h.svc.Get(c.Request().Context(), pkgID, id)
	if err != nil {
		return toHTTPError(err)
	}
	return serveStored(c, h.files, payment.ReceiptImagePath, "receipt_image_path")
}
