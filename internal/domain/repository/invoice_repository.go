package repository

import (
	"context"

	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
)

// InvoiceFilter criterio de búsqueda y página de la tabla de facturas.
type InvoiceFilter struct {
	Query  string
	Limit  int
	Offset int
}

// InvoiceRepository define el puerto de persistencia para Invoice.
// Create no fija ID: el backend lo asigna. Update/Delete devuelven domain.ErrNotFound si no existe.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
	// GetByID devuelve (nil, nil) si la factura no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	ListFiltered(ctx context.Context, filter InvoiceFilter) ([]*entity.InvoiceRow, error)
	CountFiltered(ctx context.Context, query string) (int, error)
	ListLatest(ctx context.Context, limit int) ([]*entity.InvoiceRow, error)
	// Totals devuelve número de facturas y sumas por estado (centavos).
	Totals(ctx context.Context) (count int, paid, pending int64, err error)
}
