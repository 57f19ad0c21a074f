package repository

import (
	"context"

	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
)

// CustomerRepository define el puerto de lectura para Customer.
type CustomerRepository interface {
	// ListAll devuelve todos los clientes ordenados por nombre.
	ListAll(ctx context.Context) ([]*entity.Customer, error)
	// ListSummaries filtra por nombre/email (sin distinguir mayúsculas) e incluye totales.
	ListSummaries(ctx context.Context, query string) ([]*entity.CustomerSummary, error)
	Count(ctx context.Context) (int, error)
	// GetByID devuelve (nil, nil) si el cliente no existe.
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}
