package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Semerokozlyat/drom-de/internal/application/auth"
	"github.com/Semerokozlyat/drom-de/internal/application/dto"
)

// AuthHandler maneja login y logout.
type AuthHandler struct {
	authn    *auth.Authenticator
	sessions *auth.Sessions
	gate     auth.GateConfig
	cookie   CookieConfig
	log      zerolog.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(authn *auth.Authenticator, sessions *auth.Sessions, gate auth.GateConfig, cookie CookieConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authn: authn, sessions: sessions, gate: gate, cookie: cookie, log: log}
}

// Page godoc
// @Summary      Estado de la página de login
// @Tags         auth
// @Produce      json
// @Param        callbackUrl  query  string  false  "ruta a la que volver tras el login"
// @Success      200  {object}  dto.LoginPageResponse
// @Router       /login [get]
func (h *AuthHandler) Page(c *fiber.Ctx) error {
	return c.JSON(dto.LoginPageResponse{CallbackURL: h.safeCallback(c.Query("callbackUrl"))})
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password, callbackUrl"
// @Success      303
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	res, err := h.authn.Login(c.Context(), auth.Credentials{Email: in.Email, Password: in.Password})
	if err != nil {
		return err
	}
	switch res.Kind {
	case auth.KindInvalidCredentials:
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: res.Message()})
	case auth.KindUnexpected:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "UNEXPECTED", Message: res.Message()})
	}

	setSessionCookie(c, h.cookie, res.Token)
	return c.Redirect(h.safeCallback(in.CallbackURL), fiber.StatusSeeOther)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Success      303
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(h.cookie.name()); token != "" {
		if err := h.sessions.Revoke(c.Context(), token); err != nil {
			// La cookie se borra igual; el token expira solo.
			h.log.Warn().Err(err).Msg("revocar sesión en logout")
		}
	}
	clearSessionCookie(c, h.cookie)
	return c.Redirect(h.gate.LoginPath, fiber.StatusSeeOther)
}

// safeCallback solo acepta rutas locales; cualquier otra cosa vuelve al dashboard.
func (h *AuthHandler) safeCallback(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return h.gate.DashboardPath
	}
	return raw
}
