package repository

import (
	"context"

	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
)

// UserRepository define el puerto de lectura de usuarios para auth.
type UserRepository interface {
	// FindByEmail devuelve (nil, nil) si no existe el usuario.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
