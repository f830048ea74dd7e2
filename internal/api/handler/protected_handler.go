package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ProtectedHandler serves the identity echo endpoint used by clients to check
// whether their bearer token is still valid.
type ProtectedHandler struct{}

func NewProtectedHandler() *ProtectedHandler {
	return &ProtectedHandler{}
}

// Me returns the identity decoded from the caller's access token.
//
// @Summary      Current identity
// @Tags         protected
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identityResponse
// @Failure      401  {object}  errorResponse
// @Router       /protected/me [get]
func (h *ProtectedHandler) Me(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	resp := identityResponse{Message: "Access granted!"}
	resp.User.UserID = userID
	resp.User.Role = role
	return c.JSON(http.StatusOK, resp)
}
