package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Semerokozlyat/drom-de/pkg/jwt"
)

// ErrSessionRevoked el token fue invalidado con logout.
var ErrSessionRevoked = errors.New("sesión revocada")

// SessionRevoker lista de tokens revocados hasta su expiración natural.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Sessions verifica y revoca tokens de sesión.
type Sessions struct {
	secret  string
	issuer  string
	revoker SessionRevoker
}

// NewSessions construye el verificador. Sólo acepta tokens emitidos por issuer.
// revoker puede ser nil (sin logout del lado servidor).
func NewSessions(secret, issuer string, revoker SessionRevoker) *Sessions {
	return &Sessions{secret: secret, issuer: issuer, revoker: revoker}
}

// Verify devuelve la sesión si el token es válido, no expiró y no fue revocado.
func (s *Sessions) Verify(ctx context.Context, token string) (*jwt.Session, error) {
	sess, err := jwt.Parse(s.secret, s.issuer, token)
	if err != nil {
		return nil, err
	}
	if s.revoker != nil && sess.TokenID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, sess.TokenID)
		if err != nil {
			return nil, fmt.Errorf("sesión: consultar revocación: %w", err)
		}
		if revoked {
			return nil, ErrSessionRevoked
		}
	}
	return sess, nil
}

// Revoke invalida el token hasta su expiración. Un token ya inválido no es error.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	if s.revoker == nil {
		return nil
	}
	sess, err := jwt.Parse(s.secret, s.issuer, token)
	if err != nil || sess.TokenID == "" {
		return nil
	}
	return s.revoker.Revoke(ctx, sess.TokenID, sess.ExpiresAt)
}
