package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type PackageChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// RequirePackage rejects requests whose :id does not name an existing package.
func RequirePackage(packages PackageChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := strconv.ParseUint(c.Param("id"), 10, 64)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid package id")
			}
			ok, err := packages.Exists(c.Request().Context(), uint(id))
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			if !ok {
				return echo.NewHTTPError(http.StatusNotFound, "Package not found")
			}
			return next(c)
		}
	}
}
