package handler

import (
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tourismoam/backoffice/internal/service"
)

// UploadHandler accepts standalone uploads and serves stored documents.
type UploadHandler struct {
	files    service.FileService
	guests   service.GuestService
	payments service.PaymentService
}

func NewUploadHandler(files service.FileService, guests service.GuestService, payments service.PaymentService) *UploadHandler {
	return &UploadHandler{files: files, guests: guests, payments: payments}
}

func (h *UploadHandler) RegisterRoutes(uploads, files *echo.Group) {
	uploads.POST("/passport", h.UploadPassport)
	uploads.POST("/receipt", h.UploadReceipt)
	files.GET("/*", h.ServeFile)
}

// UploadPassport stores the file and, when guest_id is given, attaches it to that guest.
func (h *UploadHandler) UploadPassport(c echo.Context) error {
	ctx := c.Request().Context()
	var guestID uint
	if raw := c.QueryParam("guest_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid guest id")
		}
		if _, err := h.guests.Get(ctx, uint(id)); err != nil {
			return toHTTPError(err)
		}
		guestID = uint(id)
	}

	stored, err := h.store(c, service.KindPassports)
	if err != nil {
		return err
	}
	if guestID != 0 {
		if err := h.guests.SetPassport(ctx, guestID, stored.Path); err != nil {
			return toHTTPError(err)
		}
	}
	return success(c, http.StatusOK, uploadResult(stored), "File uploaded successfully")
}

// UploadReceipt stores the file and, when payment_id is given, attaches it to that payment.
func (h *UploadHandler) UploadReceipt(c echo.Context) error {
	ctx := c.Request().Context()
	var paymentID, pkgID uint
	if raw := c.QueryParam("payment_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payment id")
		}
		payment, err := h.payments.FindAnyByID(ctx, uint(id))
		if err != nil {
			return toHTTPError(err)
		}
		paymentID, pkgID = payment.ID, payment.PackageID
	}

	stored, err := h.store(c, service.KindReceipts)
	if err != nil {
		return err
	}
	if paymentID != 0 {
		if _, err := h.payments.SetReceipt(ctx, pkgID, paymentID, stored.Path); err != nil {
			return toHTTPError(err)
		}
	}
	return success(c, http.StatusOK, uploadResult(stored), "File uploaded successfully")
}

func (h *UploadHandler) store(c echo.Context, kind string) (*service.StoredFile, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	stored, err := h.files.Store(kind, fh)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return stored, nil
}

// ServeFile looks the requested name up by base name only.
func (h *UploadHandler) ServeFile(c echo.Context) error {
	path, mimeType, err := h.files.Resolve(c.Param("*"))
	if err != nil {
		return toHTTPError(err)
	}
	c.Response().Header().Set(echo.HeaderContentType, mimeType)
	return c.File(path)
}

func uploadResult(stored *service.StoredFile) map[string]any {
	return map[string]any{
		"file_path": stored.Path,
		"file_url":  stored.URL,
		"mime_type": stored.MIMEType,
		"size":      stored.Size,
	}
}

// serveStored streams an attached document, or describes it when the file is missing.
func serveStored(c echo.Context, files service.FileService, path *string, key string) error {
	if path == nil || *path == "" {
		return success(c, http.StatusOK, map[string]any{key: nil, "image_url": nil}, "")
	}
	if info, err := os.Stat(*path); err == nil && info.Mode().IsRegular() {
		return c.File(*path)
	}
	return success(c, http.StatusOK, map[string]any{key: *path, "image_url": files.URL(*path)}, "")
}
