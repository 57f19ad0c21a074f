package backendapi

import (
	"context"
	"net/http"

	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
)

// RevenueRepo implementa repository.RevenueRepository sobre el API REST.
type RevenueRepo struct {
	c *Client
}

var _ repository.RevenueRepository = (*RevenueRepo)(nil)

// NewRevenueRepo construye el repositorio.
func NewRevenueRepo(c *Client) *RevenueRepo {
	return &RevenueRepo{c: c}
}

// List GET /revenue.
func (r *RevenueRepo) List(ctx context.Context) ([]*entity.Revenue, error) {
	var out []*entity.Revenue
	if err := r.c.do(ctx, http.MethodGet, "/revenue", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
