package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/pkg/token"
)

// Locals keys set by AuthRequired.
const (
	LocalUserID    = "user_id"
	LocalRole      = "role"
	LocalClearance = "clearance"
)

// Cookie names for the token pair.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// AuthRequired validates the access token and stores the caller's identity
// in c.Locals. The token is read from the access cookie, falling back to a
// Bearer header for non-browser clients.
func AuthRequired(issuer *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(AccessCookie)
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenString = strings.TrimSpace(parts[1])
			}
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "authentication required"})
		}
		claims, err := issuer.Parse(tokenString, token.TypeAccess)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "invalid or expired token"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalClearance, claims.Clearance)
		return c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allow list. Must run
// after AuthRequired.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "insufficient role"})
	}
}

// GetUserID returns the authenticated user's ID from the context.
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole returns the authenticated user's role from the context.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetClearance returns the authenticated user's clearance from the context.
func GetClearance(c *fiber.Ctx) int {
	n, _ := c.Locals(LocalClearance).(int)
	return n
}
