package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/service"
)

type ContractHandler struct {
	svc service.ContractService
}

func NewContractHandler(svc service.ContractService) *ContractHandler {
	return &ContractHandler{svc: svc}
}

func (h *ContractHandler) RegisterRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/contracts", h.Generate, m...)
	g.GET("/contracts", h.Get, m...)
	g.GET("/contracts/pdf", h.DownloadPDF, m...)
	g.POST("/contracts/send", h.Send, m...)
	g.PATCH("/contracts/confirm", h.Confirm, m...)
	g.PATCH("/contracts/status", h.UpdateStatus, m...)
}

func (h *ContractHandler) Generate(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}
	var req dto.ContractCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	contract, err := h.svc.Generate(c.Request().Context(), pkgID, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, contract, "Contract generated successfully")
}

func (h *ContractHandler) Get(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}

	contract, err := h.svc.Get(c.Request().Context(), pkgID)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, contract, "")
}

func (h *ContractHandler) DownloadPDF(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}

	path, err := h.svc.PDFPath(c.Request().Context(), pkgID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.File(path)
}

func (h *ContractHandler) Send(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}

	contract, err := h.svc.Send(c.Request().Context(), pkgID)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, contract, "Contract sent successfully")
}

func (h *ContractHandler) Confirm(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}
	var req dto.ContractConfirmRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Confirmed == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields: confirmed")
	}

	contract, err := h.svc.Confirm(c.Request().Context(), pkgID, *req.Confirmed)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, contract, "Contract confirmed successfully")
}

func (h *ContractHandler) UpdateStatus(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}
	var req dto.ContractStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	contract, err := h.svc.UpdateStatus(c.Request().Context(), pkgID, req.Status)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, contract, "Status updated successfully")
}
