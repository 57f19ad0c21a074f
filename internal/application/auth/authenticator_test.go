package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Semerokozlyat/drom-de/internal/application/auth"
	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/pkg/jwt"
)

const testSecret = "test-secret"

type fakeUserRepo struct {
	users   map[string]*entity.User
	err     error
	lookups int
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.lookups++
	if r.err != nil {
		return nil, r.err
	}
	return r.users[email], nil
}

func newUsers(t *testing.T) *fakeUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeUserRepo{users: map[string]*entity.User{
		"user@nextmail.com": {ID: "u1", Name: "User", Email: "user@nextmail.com", PasswordHash: string(hash)},
	}}
}

func newAuthenticator(users *fakeUserRepo) *auth.Authenticator {
	return auth.NewAuthenticator(users, auth.Config{Secret: testSecret, Issuer: "drom-de", ExpMinutes: 60}, zerolog.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Authorize
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorize_CredencialesValidas(t *testing.T) {
	a := newAuthenticator(newUsers(t))

	p, err := a.Authorize(context.Background(), auth.Credentials{Email: "user@nextmail.com", Password: "123456"})

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, auth.Principal{ID: "u1", Name: "User", Email: "user@nextmail.com"}, *p)
}

func TestAuthorize_FormatoInvalido_SinBusqueda(t *testing.T) {
	users := newUsers(t)
	a := newAuthenticator(users)

	for _, c := range []auth.Credentials{
		{Email: "no-es-email", Password: "123456"},
		{Email: "user@nextmail.com", Password: "12345"},
		{Email: "", Password: ""},
	} {
		p, err := a.Authorize(context.Background(), c)
		assert.NoError(t, err)
		assert.Nil(t, p, "%+v", c)
	}
	assert.Zero(t, users.lookups, "el formato inválido no debe consultar el almacén")
}

func TestAuthorize_UsuarioInexistenteYPasswordIncorrecta_Indistinguibles(t *testing.T) {
	a := newAuthenticator(newUsers(t))

	p1, err1 := a.Authorize(context.Background(), auth.Credentials{Email: "nadie@nextmail.com", Password: "123456"})
	p2, err2 := a.Authorize(context.Background(), auth.Credentials{Email: "user@nextmail.com", Password: "otra-clave"})

	assert.Nil(t, p1)
	assert.Nil(t, p2)
	assert.Equal(t, err1, err2)
	assert.NoError(t, err1)
}

func TestAuthorize_FalloDelAlmacen(t *testing.T) {
	users := newUsers(t)
	users.err = errors.New("connection reset")
	a := newAuthenticator(users)

	p, err := a.Authorize(context.Background(), auth.Credentials{Email: "user@nextmail.com", Password: "123456"})

	assert.Nil(t, p)
	assert.ErrorIs(t, err, users.err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EmiteTokenVerificable(t *testing.T) {
	a := newAuthenticator(newUsers(t))

	res, err := a.Login(context.Background(), auth.Credentials{Email: "user@nextmail.com", Password: "123456"})

	require.NoError(t, err)
	assert.Equal(t, auth.KindNone, res.Kind)
	assert.Empty(t, res.Message())
	sess, err := jwt.Parse(testSecret, "drom-de", res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
}

func TestLogin_Taxonomia(t *testing.T) {
	a := newAuthenticator(newUsers(t))
	res, err := a.Login(context.Background(), auth.Credentials{Email: "nadie@nextmail.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, auth.KindInvalidCredentials, res.Kind)
	assert.Equal(t, "Invalid credentials.", res.Message())
	assert.Empty(t, res.Token)

	broken := newUsers(t)
	broken.err = errors.New("timeout")
	res, err = newAuthenticator(broken).Login(context.Background(), auth.Credentials{Email: "user@nextmail.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, auth.KindUnexpected, res.Kind)
	assert.Equal(t, "Something went wrong.", res.Message())
}

func TestLogin_SinSecret_Propaga(t *testing.T) {
	a := auth.NewAuthenticator(newUsers(t), auth.Config{ExpMinutes: 60}, zerolog.Nop())

	_, err := a.Login(context.Background(), auth.Credentials{Email: "user@nextmail.com", Password: "123456"})

	assert.Error(t, err)
}
