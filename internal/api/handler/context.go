package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/course-management/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty user id and
// a valid role prove the middleware ran. A request reaching a handler without
// them has bypassed authentication and is rejected outright.
func ctxIdentity(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get("user_id").(string)
	role, _ = c.Get("role").(domain.Role)
	if userID == "" || !role.Valid() {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, role, nil
}
