package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/service"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth validates the Bearer token and stashes the caller's identity on the
// echo context for handlers to read via ActorID/ActorRole.
func JWTAuth(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			var claims service.Claims
			token, err := jwt.ParseWithClaims(
				strings.TrimPrefix(header, "Bearer "),
				&claims,
				func(t *jwt.Token) (any, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return key, nil
				},
			)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}

// RequireRole gates a route to the given roles; runs after JWTAuth.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorRole(c)
			for _, r := range roles {
				if actor == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}

func ActorID(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}

func ActorRole(c echo.Context) models.Role {
	role, _ := c.Get(ctxRole).(models.Role)
	return role
}

// SetActor is a test hook mirroring what JWTAuth stores.
func SetActor(c echo.Context, id string, role models.Role) {
	c.Set(ctxUserID, id)
	c.Set(ctxRole, role)
}
