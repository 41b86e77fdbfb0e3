package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/service"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RegisterRoutes mounts the auth endpoints. loginLimiter guards POST /login.
func (h *AuthHandler) RegisterRoutes(g *echo.Group, loginLimiter echo.MiddlewareFunc) {
	g.POST("/login", h.Login, loginLimiter)
	g.POST("/register", h.Register)
	g.GET("/me", h.Me)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.svc.Login(c.Request().Context(), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, result, "Login successful")
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Register(c.Request().Context(), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, user, "User registered successfully")
}

func (h *AuthHandler) Me(c echo.Context) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	user, err := h.svc.Me(c.Request().Context(), strings.TrimSpace(token))
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, user, "")
}
