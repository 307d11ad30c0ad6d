package middleware

import (
	"grocerylist-api/internal/errors"
	"grocerylist-api/internal/handlers"
	"grocerylist-api/internal/models"
	"grocerylist-api/internal/repositories"
	"grocerylist-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// authContext is the identity extracted from a validated access token.
type authContext struct {
	userID      uuid.UUID
	email       string
	displayName string
	role        string
}

// authenticate validates the bearer token on the request and resolves it to
// an identity. A nil error response from SendError is returned directly when
// the token is missing, malformed, expired, revoked, or carries a bad subject.
func authenticate(c echo.Context, tokenService services.TokenServiceInterface, blacklist repositories.BlacklistedTokenRepositoryInterface) (*authContext, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, handlers.SendError(c, errors.AuthMissingToken)
	}

	token, err := tokenService.ExtractTokenFromHeader(authHeader)
	if err != nil {
		return nil, handlers.SendError(c, errors.AuthInvalidTokenFormat)
	}

	claims, err := tokenService.ValidateAccessToken(token)
	if err != nil {
		if err == services.ErrExpiredToken {
			return nil, handlers.SendError(c, errors.AuthExpiredToken)
		}
		return nil, handlers.SendError(c, errors.AuthInvalidTokenFormat)
	}

	// Tokens revoked through logout remain in the blacklist until they
	// expire, so a hit here means the token must not be honored.
	if revoked, err := blacklist.IsBlacklisted(claims.ID); err == nil && revoked {
		return nil, handlers.SendError(c, errors.AuthInvalidTokenFormat, errors.WithDetails("Token has been revoked"))
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, handlers.SendError(c, errors.AuthInvalidTokenFormat, errors.WithDetails("Invalid user ID in token"))
	}

	return &authContext{
		userID:      userID,
		email:       claims.Email,
		displayName: claims.DisplayName,
		role:        claims.Role,
	}, nil
}

// RequireAuth rejects requests without a valid, non-blacklisted access token
// and stores the caller's identity in the request context for handlers.
func RequireAuth(tokenService services.TokenServiceInterface, blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := authenticate(c, tokenService, blacklistedTokenRepo)
			if identity == nil {
				return err
			}

			c.Set("user_id", identity.userID)
			c.Set("user_email", identity.email)
			c.Set("display_name", identity.displayName)
			c.Set("user_role", identity.role)
			c.Set("is_admin", identity.role == models.RoleAdmin)

			return next(c)
		}
	}
}

// RequireRole allows the request through only when the authenticated caller
// holds one of the given roles. Must run after RequireAuth.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("user_role").(string)
			if !ok {
				return handlers.SendError(c, errors.AuthInvalidTokenFormat, errors.WithDetails("User role not found in token"))
			}

			for _, allowed := range allowedRoles {
				if role == allowed {
					return next(c)
				}
			}

			return handlers.SendError(c, errors.AuthInsufficientPermission)
		}
	}
}

// RequireAdmin restricts the route to admin users.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin)
}
