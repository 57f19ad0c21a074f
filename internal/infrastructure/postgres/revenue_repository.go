package postgres

import (
	"context"
	"fmt"

	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
)

var _ repository.RevenueRepository = (*RevenueRepo)(nil)

// RevenueRepo ingresos mensuales.
type RevenueRepo struct {
	q Querier
}

// NewRevenueRepository construye el adaptador.
func NewRevenueRepository(q Querier) *RevenueRepo {
	return &RevenueRepo{q: q}
}

// List devuelve los ingresos en el orden de inserción.
func (r *RevenueRepo) List(ctx context.Context) ([]*entity.Revenue, error) {
	rows, err := r.q.Query(ctx, `SELECT month, revenue FROM revenue`)
	if err != nil {
		return nil, fmt.Errorf("list revenue: %w", err)
	}
	defer rows.Close()
	var out []*entity.Revenue
	for rows.Next() {
		var rv entity.Revenue
		if err := rows.Scan(&rv.Month, &rv.Revenue); err != nil {
			return nil, fmt.Errorf("scan revenue: %w", err)
		}
		out = append(out, &rv)
	}
	return out, rows.Err()
}
