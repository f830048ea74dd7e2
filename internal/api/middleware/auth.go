package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ragevaluator/account-service/internal/core/domain"
	"github.com/ragevaluator/account-service/internal/core/service"
)

// Auth validates the bearer token and injects the decoded identity into the
// request context under "user_id" and "role".
func Auth(tokens *service.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.VerifyAccess(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrMissingSubject) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token payload")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}
