package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"chef/internal/http/middleware"
	"chef/internal/model"
	"chef/internal/service"
)

type credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *model.User `json:"user"`
}

// Register creates an account.
//
// @Summary Register
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   body body credentials true "credentials"
// @Success 201 {object} model.User
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router  /auth/register [post]
func Register(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in credentials
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		user, err := auth.Register(c.UserContext(), in.Username, in.Password)
		if err != nil {
			return writeServiceError(c, err, "")
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// Login exchanges credentials for an access token, also set as an HttpOnly cookie.
//
// @Summary Log in
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   body body credentials true "credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {object} errorPayload
// @Router  /auth/login [post]
func Login(auth service.AuthService, opts CookieOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in credentials
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		token, user, err := auth.Login(c.UserContext(), in.Username, in.Password)
		if err != nil {
			return writeServiceError(c, err, "")
		}

		c.Cookie(&fiber.Cookie{
			Name:     middleware.TokenCookie,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(opts.TTL),
			HTTPOnly: true,
			Secure:   opts.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.JSON(loginResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(opts.TTL.Seconds()),
			User:        user,
		})
	}
}

// Logout clears the token cookie and the session.
func Logout(sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.ClearCookie(middleware.TokenCookie)
		sess, err := sessions.Get(c)
		if err != nil {
			return err
		}
		if err := sess.Destroy(); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
