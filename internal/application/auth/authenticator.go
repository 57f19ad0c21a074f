// Package auth contiene la autenticación por credenciales, la verificación de sesiones
// y la decisión de acceso por ruta.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
	"github.com/Semerokozlyat/drom-de/pkg/jwt"
)

// Mensajes mostrados en la página de login.
const (
	MsgInvalidCredentials = "Invalid credentials."
	MsgUnexpected         = "Something went wrong."
)

// Config configuración de sesión, fijada al arrancar la aplicación.
type Config struct {
	Secret     string
	Issuer     string
	ExpMinutes int
}

// Credentials datos crudos del formulario de login.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Principal usuario autenticado. Nunca lleva el hash de la contraseña.
type Principal struct {
	ID    string
	Name  string
	Email string
}

// LoginKind categoría del resultado de un intento de login.
type LoginKind int

const (
	// KindNone login correcto.
	KindNone LoginKind = iota
	// KindInvalidCredentials usuario inexistente, contraseña incorrecta o formato inválido.
	KindInvalidCredentials
	// KindUnexpected fallo del almacén de usuarios.
	KindUnexpected
)

// LoginResult resultado de Login. Principal y Token solo se rellenan con KindNone.
type LoginResult struct {
	Kind      LoginKind
	Principal *Principal
	Token     string
}

// Message texto para el usuario según Kind; vacío si el login fue correcto.
func (r LoginResult) Message() string {
	switch r.Kind {
	case KindInvalidCredentials:
		return MsgInvalidCredentials
	case KindUnexpected:
		return MsgUnexpected
	default:
		return ""
	}
}

// Authenticator valida credenciales contra el almacén de usuarios.
type Authenticator struct {
	users     repository.UserRepository
	cfg       Config
	validate  *validator.Validate
	dummyHash []byte
	log       zerolog.Logger
}

// NewAuthenticator construye el autenticador.
func NewAuthenticator(users repository.UserRepository, cfg Config, log zerolog.Logger) *Authenticator {
	// Hash de relleno para que un email inexistente cueste lo mismo que uno existente.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("drom-de-placeholder"), bcrypt.DefaultCost)
	return &Authenticator{
		users:     users,
		cfg:       cfg,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		dummyHash: dummy,
		log:       log,
	}
}

// Authorize devuelve el principal si las credenciales son válidas y (nil, nil) en cualquier
// otro caso: formato inválido, usuario inexistente o contraseña incorrecta dan el mismo resultado.
// Solo un fallo de la búsqueda del usuario se devuelve como error.
func (a *Authenticator) Authorize(ctx context.Context, c Credentials) (*Principal, error) {
	c.Email = strings.TrimSpace(c.Email)
	if err := a.validate.Struct(c); err != nil {
		return nil, nil
	}

	user, err := a.users.FindByEmail(ctx, c.Email)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(c.Password))
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(c.Password)); err != nil {
		return nil, nil
	}
	return &Principal{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// Login autentica y emite el token de sesión. El error solo se devuelve para fallos fuera
// de la taxonomía de login (ej. no se pudo firmar el token).
func (a *Authenticator) Login(ctx context.Context, c Credentials) (LoginResult, error) {
	p, err := a.Authorize(ctx, c)
	if err != nil {
		a.log.Error().Err(err).Msg("login: fallo inesperado")
		return LoginResult{Kind: KindUnexpected}, nil
	}
	if p == nil {
		a.log.Info().Msg("login: credenciales inválidas")
		return LoginResult{Kind: KindInvalidCredentials}, nil
	}

	token, err := jwt.Generate(a.cfg.Secret, a.cfg.Issuer, a.cfg.ExpMinutes, p.ID, p.Name, p.Email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: emitir token: %w", err)
	}
	a.log.Info().Str("user_id", p.ID).Msg("login correcto")
	return LoginResult{Kind: KindNone, Principal: p, Token: token}, nil
}
