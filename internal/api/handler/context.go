package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the identity injected by the Auth middleware. A missing
// user_id means the middleware did not run or the token carried no subject;
// either way the request is unauthenticated.
func ctxClaims(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role, _ = c.Get("role").(string)
	return userID, role, nil
}
