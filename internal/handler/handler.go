package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/service"
)

// ScopedRoutes is a handler mounted under /packages/:id.
type ScopedRoutes interface {
	RegisterRoutes(g *echo.Group, m ...echo.MiddlewareFunc)
}

// MountPackages registers /packages and the collections under /packages/:id.
// requirePkg runs per route so a method mismatch still answers 405.
func MountPackages(api *echo.Group, packages *PackageHandler, requirePkg echo.MiddlewareFunc, children ...ScopedRoutes) {
	packages.RegisterRoutes(api.Group("/packages"))
	scoped := api.Group("/packages/:id")
	for _, h := range children {
		h.RegisterRoutes(scoped, requirePkg)
	}
}

// toHTTPError maps service errors onto status codes.
func toHTTPError(err error) error {
	var ve *service.ValidationError
	var nf *service.NotFoundError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
	case errors.As(err, &nf):
		return echo.NewHTTPError(http.StatusNotFound, nf.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, service.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func parseID(c echo.Context, param, entity string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+entity+" id")
	}
	return uint(id), nil
}

func packageID(c echo.Context) (uint, error) {
	return parseID(c, "id", "package")
}

// bind decodes the request into req and runs its validate tags.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return toHTTPError(err)
	}
	return nil
}

func success(c echo.Context, code int, data any, message string) error {
	return c.JSON(code, dto.OK(data, message))
}

func deleted(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, dto.OK(map[string]string{"message": message}, ""))
}
