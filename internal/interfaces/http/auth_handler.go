package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nurudeen19/rag-fortress/internal/application/auth"
	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/pkg/config"
)

// AuthHandler register, login, refresh and logout. Tokens travel only in
// httpOnly cookies; response bodies carry the user profile.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	jwt config.JWTConfig
}

// NewAuthHandler builds the auth handler.
func NewAuthHandler(uc *auth.AuthUseCase, jwt config.JWTConfig) *AuthHandler {
	return &AuthHandler{uc: uc, jwt: jwt}
}

// Register godoc
// @Summary      Register an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "username, email, password, department_id"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	if in.Username == "" || in.Email == "" || in.Password == "" || in.DepartmentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username, email, password and department_id are required"})
	}
	if len(in.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "password must be at least 8 characters"})
	}
	user, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Log in and receive the token cookies
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	if in.Username == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username and password are required"})
	}
	out, pair, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	h.setTokenCookies(c, pair)
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Rotate the token pair
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.LoginResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(RefreshCookie)
	if refreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "refresh cookie required"})
	}
	out, pair, err := h.uc.Refresh(c.UserContext(), refreshToken)
	if err != nil {
		h.clearTokenCookies(c)
		return fail(c, err)
	}
	h.setTokenCookies(c, pair)
	return c.JSON(out)
}

// Logout godoc
// @Summary      Revoke the session and clear cookies
// @Tags         auth
// @Success      204
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if refreshToken := c.Cookies(RefreshCookie); refreshToken != "" {
		if err := h.uc.Logout(c.UserContext(), refreshToken); err != nil {
			return fail(c, err)
		}
	}
	h.clearTokenCookies(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) setTokenCookies(c *fiber.Ctx, pair *dto.TokenPair) {
	c.Cookie(h.cookie(AccessCookie, pair.AccessToken, "/", h.jwt.AccessTTL()))
	// The refresh cookie is scoped to the auth endpoints only.
	c.Cookie(h.cookie(RefreshCookie, pair.RefreshToken, "/v1/auth", h.jwt.RefreshTTL()))
}

func (h *AuthHandler) clearTokenCookies(c *fiber.Ctx) {
	c.Cookie(h.cookie(AccessCookie, "", "/", -time.Hour))
	c.Cookie(h.cookie(RefreshCookie, "", "/v1/auth", -time.Hour))
}

func (h *AuthHandler) cookie(name, value, path string, ttl time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   h.jwt.CookieDomain,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   h.jwt.CookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}
