package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/service"
)

// ItineraryHandler serves the cost-bearing components of a package. Routes are
// mounted on a /packages/:id group that has already checked the package exists.
type ItineraryHandler struct {
	svc service.ItineraryService
}

func NewItineraryHandler(svc service.ItineraryService) *ItineraryHandler {
	return &ItineraryHandler{svc: svc}
}

func (h *ItineraryHandler) RegisterRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/air-travel", h.SetAirTravel, m...)
	g.GET("/air-travel", h.GetAirTravel, m...)
	g.PUT("/air-travel", h.UpdateAirTravel, m...)
	g.DELETE("/air-travel", h.DeleteAirTravel, m...)

	itemEndpoints[dto.AccommodationInput, dto.AccommodationUpdate]{
		entity: "accommodation",
		label:  "Accommodation",
		add:    adapt(h.svc.AddAccommodation),
		list:   adaptList(h.svc.ListAccommodations),
		get:    adaptGet(h.svc.GetAccommodation),
		update: adaptUpdate(h.svc.UpdateAccommodation),
		remove: h.svc.DeleteAccommodation,
	}.register(g, "/accommodations", m...)

	itemEndpoints[dto.TourInput, dto.TourUpdate]{
		entity: "tour",
		label:  "Tour",
		add:    adapt(h.svc.AddTour),
		list:   adaptList(h.svc.ListTours),
		get:    adaptGet(h.svc.GetTour),
		update: adaptUpdate(h.svc.UpdateTour),
		remove: h.svc.DeleteTour,
	}.register(g, "/tours", m...)

	itemEndpoints[dto.VisaInput, dto.VisaUpdate]{
		entity: "visa",
		label:  "Visa",
		add:    adapt(h.svc.AddVisa),
		list:   adaptList(h.svc.ListVisas),
		get:    adaptGet(h.svc.GetVisa),
		update: adaptUpdate(h.svc.UpdateVisa),
		remove: h.svc.DeleteVisa,
	}.register(g, "/visas", m...)
}

func (h *ItineraryHandler) SetAirTravel(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}
	var req dto.AirTravelInput
	if err := bind(c, &req); err != nil {
		return err
	}

	air, err := h.svc.SetAirTravel(c.Request().Context(), pkgID, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, air, "Air travel created successfully")
}

func (h *ItineraryHandler) GetAirTravel(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}

	air, err := h.svc.GetAirTravel(c.Request().Context(), pkgID)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, air, "")
}

func (h *ItineraryHandler) UpdateAirTravel(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}
	var req dto.AirTravelUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	air, err := h.svc.UpdateAirTravel(c.Request().Context(), pkgID, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, air, "Air travel updated successfully")
}

func (h *ItineraryHandler) DeleteAirTravel(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteAirTravel(c.Request().Context(), pkgID); err != nil {
		return toHTTPError(err)
	}
	return deleted(c, "Air travel entry deleted successfully")
}

// itemEndpoints wires the five CRUD routes of one package collection.
type itemEndpoints[In, Up any] struct {
	entity string
	label  string
	add    func(ctx context.Context, packageID uint, in *In) (any, error)
	list   func(ctx context.Context, packageID uint) (any, error)
	get    func(ctx context.Context, packageID, id uint) (any, error)
	update func(ctx context.Context, packageID, id uint, u *Up) (any, error)
	remove func(ctx context.Context, packageID, id uint) error
}

func (e itemEndpoints[In, Up]) register(g *echo.Group, path string, m ...echo.MiddlewareFunc) {
	g.POST(path, e.create, m...)
	g.GET(path, e.index, m...)
	g.GET(path+"/:itemId", e.show, m...)
	g.PUT(path+"/:itemId", e.modify, m...)
	g.DELETE(path+"/:itemId", e.destroy, m...)
}

func (e itemEndpoints[In, Up]) ids(c echo.Context) (uint, uint, error) {
	pkgID, err := packageID(c)
	if err != nil {
		return 0, 0, err
	}
	id, err := parseID(c, "itemId", e.entity)
	if err != nil {
		return 0, 0, err
	}
	return pkgID, id, nil
}

func (e itemEndpoints[In, Up]) create(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}
	var req In
	if err := bind(c, &req); err != nil {
		return err
	}

	item, err := e.add(c.Request().Context(), pkgID, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, item, e.label+" created successfully")
}

func (e itemEndpoints[In, Up]) index(c echo.Context) error {
	pkgID, err := packageID(c)
	if err != nil {
		return err
	}

	items, err := e.list(c.Request().Context(), pkgID)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, items, "")
}

func (e itemEndpoints[In, Up]) show(c echo.Context) error {
	pkgID, id, err := e.ids(c)
	if err != nil {
		return err
	}

	item, err := e.get(c.Request().Context(), pkgID, id)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, item, "")
}

func (e itemEndpoints[In, Up]) modify(c echo.Context) error {
	pkgID, id, err := e.ids(c)
	if err != nil {
		return err
	}
	var req Up
	if err := bind(c, &req); err != nil {
		return err
	}

	item, err := e.update(c.Request().Context(), pkgID, id, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, item, e.label+" updated successfully")
}

func (e itemEndpoints[In, Up]) destroy(c echo.Context) error {
	pkgID, id, err := e.ids(c)
	if err != nil {
		return err
	}

	if err := e.remove(c.Request().Context(), pkgID, id); err != nil {
		return toHTTPError(err)
	}
	return deleted(c, e.label+" deleted successfully")
}

// The adapters erase the concrete result type so one endpoint set serves every collection.

func adapt[In, T any](f func(context.Context, uint, *In) (*T, error)) func(context.Context, uint, *In) (any, error) {
	return func(ctx context.Context, packageID uint, in *In) (any, error) {
		return f(ctx, packageID, in)
	}
}

func adaptList[T any](f func(context.Context, uint) ([]T, error)) func(context.Context, uint) (any, error) {
	return func(ctx context.Context, packageID uint) (any, error) {
		return f(ctx, packageID)
	}
}

func adaptGet[T any](f func(context.Context, uint, uint) (*T, error)) func(context.Context, uint, uint) (any, error) {
	return func(ctx context.Context, packageID, id uint) (any, error) {
		return f(ctx, packageID, id)
	}
}

func adaptUpdate[Up, T any](f func(context.Context, uint, uint, *Up) (*T, error)) func(context.Context, uint, uint, *Up) (any, error) {
	return func(ctx context.Context, packageID, id uint, u *Up) (any, error) {
		return f(ctx, packageID, id, u)
	}
}
