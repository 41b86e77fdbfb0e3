package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/service"
)

type PackageHandler struct {
	svc    service.PackageService
	wizard service.WizardService
}

func NewPackageHandler(svc service.PackageService, wizard service.WizardService) *PackageHandler {
	return &PackageHandler{svc: svc, wizard: wizard}
}

func (h *PackageHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreatePackage)
	g.GET("", h.ListPackages)
	g.POST("/wizard", h.CreateWizard)
	g.GET("/:id", h.GetPackage)
	g.PUT("/:id", h.UpdatePackage)
	g.DELETE("/:id", h.DeletePackage)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.PUT("/:id/wizard", h.ReplaceWizard)
	g.GET("/:id/total-cost", h.TotalCost)
	g.POST("/:id/recalculate", h.Recalculate)
}

func (h *PackageHandler) CreatePackage(c echo.Context) error {
	var req dto.PackageCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	pkg, err := h.svc.Create(c.Request().Context(), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, pkg, "Package created successfully")
}

func (h *PackageHandler) ListPackages(c echo.Context) error {
	var filter dto.PackageFilter
	if err := bind(c, &filter); err != nil {
		return err
	}
	filter.Normalize()

	packages, total, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, dto.PageResponse{
		Data:       packages,
		Pagination: dto.NewPagination(filter.PageQuery, total),
	}, "")
}

func (h *PackageHandler) GetPackage(c echo.Context) error {
	id, err := packageID(c)
	if err != nil {
		return err
	}

	pkg, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, pkg, "")
}

func (h *PackageHandler) UpdatePackage(c echo.Context) error {
	id, err := packageID(c)
	if err != nil {
		return err
	}
	var req dto.PackageUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	pkg, err := h.svc.Update(c.Request().Context(), id, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, pkg, "Package updated successfully")
}

func (h *PackageHandler) DeletePackage(c echo.Context) error {
	id, err := packageID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return deleted(c, "Package deleted successfully")
}

func (h *PackageHandler) UpdateStatus(c echo.Context) error {
	id, err := packageID(c)
	if err != nil {
		return err
	}
	var req dto.PackageStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	pkg, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, pkg, "Status updated successfully")
}

func (h *PackageHandler) CreateWizard(c echo.Context) error {
	var req dto.WizardCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	pkg, err := h.wizard.Create(c.Request().Context(), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, pkg, "Package created successfully")
}

func (h *PackageHandler) ReplaceWizard(c echo.Context) error {
	id, err := packageID(c)
	if err != nil {
		return err
	}
	var req dto.WizardUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	pkg, err := h.wizard.Replace(c.Request().Context(), id, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, pkg, "Package updated successfully")
}

func (h *PackageHandler) TotalCost(c echo.Context) error {
	id, err := packageID(c)
	if err != nil {
		return err
	}

	view, err := h.svc.TotalCost(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, view, "")
}

func (h *PackageHandler) Recalculate(c echo.Context) error {
	id, err := packageID(c)
	if err != nil {
		return err
	}

	view, err := h.svc.Recalculate(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, view, "Total cost recalculated")
}
