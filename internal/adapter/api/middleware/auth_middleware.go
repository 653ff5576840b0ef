package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"snaptext/internal/domain/service"
	"snaptext/pkg/errors"
	"snaptext/pkg/logger"
)

const UserIDKey = "uid"

type AuthMiddleware struct {
	verifier service.TokenVerifier
}

func NewAuthMiddleware(verifier service.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return errors.Unauthenticated("Unauthorized: No token provided", nil)
		}

		scheme, idToken, found := strings.Cut(authHeader, " ")
		if !found || scheme != "Bearer" || idToken == "" {
			return errors.Unauthenticated("Unauthorized: No token provided", nil)
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), idToken)
		if err != nil {
			logger.Error("Error verifying token: %v", err)
			return errors.Unauthenticated("Unauthorized: Invalid token", err)
		}

		c.Set(UserIDKey, uid)

		return next(c)
	}
}

// UserID returns the id Authenticate stored on the context.
func UserID(c echo.Context) string {
	uid, _ := c.Get(UserIDKey).(string)
	return uid
}
