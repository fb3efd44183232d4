package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// RequireLogin resolves the signed-in user from the accessToken cookie or an
// Authorization bearer header and stores the id in the echo context.
func RequireLogin(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}

			userID, err := parseUserID(raw, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("userID", userID)
			return next(c)
		}
	}
}

// UserID returns the id RequireLogin stored for this request.
func UserID(c echo.Context) (uint, bool) {
	v, ok := c.Get("userID").(uint)
	return v, ok
}

// OptionalUserID recovers the signed-in user when a valid token is present
// and returns 0 otherwise. Used where the request body may carry its own
// user_id.
func OptionalUserID(c echo.Context, secret []byte) uint {
	if id, ok := UserID(c); ok {
		return id
	}
	raw := tokenFromRequest(c)
	if raw == "" {
		return 0
	}
	id, err := parseUserID(raw, secret)
	if err != nil {
		return 0
	}
	return id
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func parseUserID(tokenString string, secret []byte) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	subRaw, ok := claims["sub"].(float64)
	if !ok || subRaw <= 0 {
		return 0, fmt.Errorf("invalid subject claim")
	}

	return uint(subRaw), nil
}
