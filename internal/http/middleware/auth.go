package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"chef/internal/auth"
)

const (
	// UserIDLocalKey holds the authenticated user's id.
	UserIDLocalKey = "user_id"
	// UsernameLocalKey holds the authenticated user's name.
	UsernameLocalKey = "username"
	// TokenCookie carries the access token for browser clients.
	TokenCookie = "chef_token"
)

// TokenParser validates access tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// UserID returns the authenticated user's id, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDLocalKey).(string)
	return id
}

func bearerToken(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return c.Cookies(TokenCookie)
}

// authenticate stores the caller's identity in locals and reports whether a valid token was present.
func authenticate(c *fiber.Ctx, tokens TokenParser) bool {
	raw := bearerToken(c)
	if raw == "" {
		return false
	}
	claims, err := tokens.Parse(raw)
	if err != nil {
		return false
	}
	c.Locals(UserIDLocalKey, claims.Subject)
	c.Locals(UsernameLocalKey, claims.Username)
	return true
}

// RequireAuth rejects requests without a valid token with 401.
func RequireAuth(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authenticate(c, tokens) {
			rid, _ := c.Locals(RequestIDLocalKey).(string)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"request_id": rid,
				"error": fiber.Map{
					"code":    "UNAUTHORIZED",
					"message": "authentication required",
				},
			})
		}
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets everyone through.
func OptionalAuth(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authenticate(c, tokens)
		return c.Next()
	}
}
