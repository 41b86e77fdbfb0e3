package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/service"
)

type GuestHandler struct {
	svc   service.GuestService
	files service.FileService
}

func NewGuestHandler(svc service.GuestService, files service.FileService) *GuestHandler {
	return &GuestHandler{svc: svc, files: files}
}

func (h *GuestHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateGuest)
	g.GET("", h.ListGuests)
	g.GET("/:id", h.GetGuest)
	g.PUT("/:id", h.UpdateGuest)
	g.DELETE("/:id", h.DeleteGuest)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.POST("/:id/passport", h.UploadPassport)
	g.GET("/:id/passport", h.GetPassport)
	g.GET("/:id/packages", h.ListPackages)
	g.GET("/:id/payment-info", h.PaymentInfo)
}

func guestID(c echo.Context) (uint, error) {
	return parseID(c, "id", "guest")
}

func (h *GuestHandler) CreateGuest(c echo.Context) error {
	var req dto.GuestInput
	if err := bind(c, &req); err != nil {
		return err
	}

	guest, err := h.svc.Create(c.Request().Context(), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, guest, "Guest created successfully")
}

func (h *GuestHandler) ListGuests(c echo.Context) error {
	var filter dto.GuestFilter
	if err := bind(c, &filter); err != nil {
		return err
	}
	filter.Normalize()

	guests, total, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, dto.PageResponse{
		Data:       guests,
		Pagination: dto.NewPagination(filter.PageQuery, total),
	}, "")
}

func (h *GuestHandler) GetGuest(c echo.Context) error {
	id, err := guestID(c)
	if err != nil {
		return err
	}

	guest, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, guest, "")
}

func (h *GuestHandler) UpdateGuest(c echo.Context) error {
	id, err := guestID(c)
	if err != nil {
		return err
	}
	var req dto.GuestUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	guest, err := h.svc.Update(c.Request().Context(), id, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, guest, "Guest updated successfully")
}

func (h *GuestHandler) DeleteGuest(c echo.Context) error {
	id, err := guestID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return deleted(c, "Guest deleted successfully")
}

func (h *GuestHandler) UpdateStatus(c echo.Context) error {
	id, err := guestID(c)
	if err != nil {
		return err
	}
	var req dto.GuestStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	guest, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, guest, "Status updated successfully")
}

func (h *GuestHandler) UploadPassport(c echo.Context) error {
	id, err := guestID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.svc.Get(ctx, id); err != nil {
		return toHTTPError(err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	stored, err := h.files.Store(service.KindPassports, fh)
	if err != nil {
		return toHTTPError(err)
	}
	if err := h.svc.SetPassport(ctx, id, stored.Path); err != nil {
		return toHTTPError(err)
	}

	return success(c, http.StatusOK, map[string]any{
		"guest_id":            id,
		"passport_image_path": stored.Path,
		"image_url":           stored.URL,
	}, "Passport image uploaded successfully")
}

// GetPassport streams the stored image, or describes it when the file is gone.
func (h *GuestHandler) GetPassport(c echo.Context) error {
	id, err := guestID(c)
	if err != nil {
		return err
	}

	guest, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return serveStored(c, h.files, guest.PassportImagePath, "passport_image_path")
}

func (h *GuestHandler) ListPackages(c echo.Context) error {
	id, err := guestID(c)
	if err != nil {
		return err
	}

	packages, err := h.svc.Packages(c.Request().Context(), id, c.QueryParam("status"))
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, packages, "")
}

func (h *GuestHandler) PaymentInfo(c echo.Context) error {
	id, err := guestID(c)
	if err != nil {
		return err
	}

	info, err := h.svc.PaymentInfo(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, info, "")
}
