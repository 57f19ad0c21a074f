package repository

import (
	"context"

	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
)

// RevenueRepository lectura de ingresos mensuales.
type RevenueRepository interface {
	List(ctx context.Context) ([]*entity.Revenue, error)
}
