package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opencity/tender-marketplace/internal/core/domain"
	"github.com/opencity/tender-marketplace/internal/core/ports"
)

// ctxCaller extracts the auth claims injected by the Auth middleware into an
// explicit ports.Caller and performs a fast-fail check before any service
// call: a role claim proves the middleware ran, and a token without a subject
// is structurally valid but operationally unusable, so both reject with 401.
func ctxCaller(c echo.Context) (ports.Caller, error) {
	raw, _ := c.Get("role").(string)
	if raw == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role, err := domain.ParseRole(raw)
	if err != nil {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "unknown role claim")
	}

	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
	}

	username, _ := c.Get("username").(string)
	organization, _ := c.Get("organization").(string)

	return ports.Caller{
		UserID:       userID,
		Username:     username,
		Role:         role,
		Organization: organization,
	}, nil
}
