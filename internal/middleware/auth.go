package middleware

import (
	"errors"

	"taskflow/internal/apierror"
	"taskflow/internal/auth"
	"taskflow/internal/models"
	"taskflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// UseToken authenticates the bearer token and stores its claims in locals.
func UseToken(issuer *auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := issuer.Authenticate(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			logger.SecurityLogger.Warn("Unauthorized request",
				zap.String("method", c.Method()), zap.String("url", c.OriginalURL()), zap.Error(err))
			return apierror.Respond(c, apierror.Unauthorized(authMessage(err)))
		}
		c.Locals(claimsKey, claims)
		logger.ContextLogger.Debug("Request authenticated",
			zap.String("user_id", claims.ID), zap.String("role", string(claims.Role)),
			zap.String("method", c.Method()), zap.String("url", c.OriginalURL()))
		return c.Next()
	}
}

// RequireRoles must run after UseToken.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if err := auth.AuthorizeRoles(claims, roles...); err != nil {
			if errors.Is(err, auth.ErrMissingAuth) {
				return apierror.Respond(c, apierror.Unauthorized("Missing auth"))
			}
			logger.SecurityLogger.Warn("Forbidden",
				zap.String("user_id", claims.ID), zap.String("role", string(claims.Role)), zap.String("url", c.OriginalURL()))
			return apierror.Respond(c, apierror.Forbidden("Forbidden"))
		}
		return c.Next()
	}
}

// Claims returns the claims stored by UseToken, or nil.
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingAuth):
		return "Missing auth"
	case errors.Is(err, auth.ErrBadFormat):
		return "Bad auth format"
	default:
		return "Invalid token"
	}
}
