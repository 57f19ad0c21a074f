package backendapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
)

// UserRepo implementa repository.UserRepository sobre el API REST.
type UserRepo struct {
	c *Client
}

var _ repository.UserRepository = (*UserRepo)(nil)

// NewUserRepo construye el repositorio.
func NewUserRepo(c *Client) *UserRepo {
	return &UserRepo{c: c}
}

// FindByEmail GET /users?email=; (nil, nil) si no hay coincidencia exacta.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var users []*entity.User
	if err := r.c.do(ctx, http.MethodGet, "/users", url.Values{"email": {email}}, nil, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}
