package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

// Auth validates the bearer JWT, checks it against the server-side session
// store, and injects the caller's identity into context. A token whose jti no
// longer matches the stored session has been revoked (logout, re-login, or
// account deletion) and is rejected. The role comes from the stored session,
// not the token, so role changes take effect without reissuing tokens.
func Auth(jwtSecret string, sessions ports.SessionStore) echo.MiddlewareFunc {
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

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, _ := claims["sub"].(string)
			tokenID, _ := claims["jti"].(string)
			if userID == "" || tokenID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			session, err := sessions.Get(c.Request().Context(), userID)
			if err != nil || session.TokenID != tokenID {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			c.Set("user_id", userID)
			c.Set("role", string(session.Role))

			return next(c)
		}
	}
}
