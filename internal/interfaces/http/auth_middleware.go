package http

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Semerokozlyat/drom-de/internal/application/auth"
	"github.com/Semerokozlyat/drom-de/pkg/jwt"
)

// LocalSession key de la sesión verificada en c.Locals.
const LocalSession = "session"

// CookieConfig cookie que transporta el token de sesión.
type CookieConfig struct {
	Name       string
	Secure     bool
	Expiration time.Duration
}

func (cc CookieConfig) name() string {
	if cc.Name == "" {
		return "session"
	}
	return cc.Name
}

// AccessGate evalúa el gate antes de cualquier handler: lee la cookie de sesión, la verifica
// (firma, expiración, revocación) y redirige a login o al dashboard según la decisión.
// Un token inválido cuenta como sesión ausente y se borra la cookie.
func AccessGate(gate *auth.Gate, sessions *auth.Sessions, cookie CookieConfig, log zerolog.Logger) fiber.Handler {
	cfg := gate.Config()
	return func(c *fiber.Ctx) error {
		var sess *jwt.Session
		if token := c.Cookies(cookie.name()); token != "" {
			s, err := sessions.Verify(c.Context(), token)
			if err != nil {
				log.Debug().Err(err).Str("path", c.Path()).Msg("sesión descartada")
				clearSessionCookie(c, cookie)
			} else {
				sess = s
			}
		}

		switch gate.Decide(sess != nil, c.Path()) {
		case auth.RedirectToLogin:
			return c.Redirect(cfg.LoginPath+"?callbackUrl="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
		case auth.RedirectToDashboard:
			return c.Redirect(cfg.DashboardPath, fiber.StatusFound)
		}

		if sess != nil {
			c.Locals(LocalSession, sess)
		}
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto (después de AccessGate) o nil.
func GetSession(c *fiber.Ctx) *jwt.Session {
	s, _ := c.Locals(LocalSession).(*jwt.Session)
	return s
}

func setSessionCookie(c *fiber.Ctx, cookie CookieConfig, token string) {
	ck := &fiber.Cookie{
		Name:     cookie.name(),
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	// Sin Expiration queda como cookie de sesión del navegador.
	if cookie.Expiration > 0 {
		ck.Expires = time.Now().Add(cookie.Expiration)
	}
	c.Cookie(ck)
}

func clearSessionCookie(c *fiber.Ctx, cookie CookieConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     cookie.name(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
