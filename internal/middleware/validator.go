package middleware

import "github.com/tourismoam/backoffice/internal/service"

// RequestValidator plugs the service validation rules into echo.Context.Validate.
type RequestValidator struct{}

func (RequestValidator) Validate(i any) error {
	return service.ValidateStruct(i)
}
