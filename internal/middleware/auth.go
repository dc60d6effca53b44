package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/vmilosev/ledara-api/internal/services"
)

const (
	UserUUIDKey  = "user_uuid"
	UserEmailKey = "user_email"
	UserRolesKey = "user_roles"
)

// Auth verifies the bearer access token and stores the identity claims on
// the request context. Registration, login, refresh and the OAuth entry
// points are the only routes mounted without it.
func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		userUUID, err := claims.UserUUID()
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(UserUUIDKey, userUUID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRolesKey, claims.Roles)

		c.Next()
	}
}

func GetUserUUID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(UserUUIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

func GetUserEmail(c *drift.Context) string {
	if email, ok := c.Get(UserEmailKey); ok {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}

func GetUserRoles(c *drift.Context) []string {
	if roles, ok := c.Get(UserRolesKey); ok {
		if r, ok := roles.([]string); ok {
			return r
		}
	}
	return nil
}
