package handlers

import (
	"strings"
	"time"

	"campgo/internal/apperr"
	"campgo/internal/log"
	"campgo/internal/services"
	"campgo/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type authResult struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := bind(c, &in); err != nil {
		return err
	}
	if !validate.Password(in.Password) {
		return apperr.Validation("password needs upper and lower case letters, a digit and a symbol")
	}
	u, tok, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			log.Security(c, "auth.register.fail", map[string]any{"email": in.Email, "reason": "duplicate"})
		}
		return err
	}
	log.Audit(c, "auth.register.success", map[string]any{"user_id": u.ID})
	return created(c, "Registered successfully", authResult{User: u, Token: tok})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("malformed request body")
	}
	email, valid := validate.Email(in.Email)
	if !valid || in.Password == "" {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "bad_format"})
		return services.ErrBadCreds
	}

	u, tok, err := h.Auth.Login(c.UserContext(), email, in.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return err
	}
	log.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})

	// The server-rendered admin page authenticates with a cookie.
	c.Cookie(&fiber.Cookie{
		Name:     tokenCookie,
		Value:    tok,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   strings.EqualFold(c.Protocol(), "https"),
		Expires:  time.Now().Add(h.Auth.TTL),
	})
	return ok(c, "Logged in successfully", authResult{User: u, Token: tok})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, err := h.Auth.Me(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return ok(c, "OK", u)
}
