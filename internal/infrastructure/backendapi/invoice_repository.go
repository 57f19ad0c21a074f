package backendapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/Semerokozlyat/drom-de/internal/domain"
	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
)

// InvoiceRepo implementa repository.InvoiceRepository sobre el API REST.
// El API no hace joins: las filas con datos de cliente se arman aquí a partir de
// /invoices y /customers.
type InvoiceRepo struct {
	c *Client
}

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// NewInvoiceRepo construye el repositorio.
func NewInvoiceRepo(c *Client) *InvoiceRepo {
	return &InvoiceRepo{c: c}
}

// Create POST /invoices. El ID lo asigna el backend y se copia de vuelta si viene en la respuesta.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	var created entity.Invoice
	if err := r.c.do(ctx, http.MethodPost, "/invoices", nil, inv, &created); err != nil {
		return err
	}
	if created.ID != "" {
		inv.ID = created.ID
	}
	return nil
}

// Update PUT /invoices/{id}.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	return r.c.do(ctx, http.MethodPut, "/invoices/"+url.PathEscape(inv.ID), nil, inv, nil)
}

// Delete DELETE /invoices/{id}.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, "/invoices/"+url.PathEscape(id), nil, nil, nil)
}

// GetByID GET /invoices/{id}; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.c.do(ctx, http.MethodGet, "/invoices/"+url.PathEscape(id), nil, nil, &inv)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListFiltered filtra por nombre, email, importe, fecha o estado (sin distinguir mayúsculas),
// ordenado por fecha descendente.
func (r *InvoiceRepo) ListFiltered(ctx context.Context, f repository.InvoiceFilter) ([]*entity.InvoiceRow, error) {
	rows, err := r.rows(ctx)
	if err != nil {
		return nil, err
	}
	rows = filterRows(rows, f.Query)
	return page(rows, f.Offset, f.Limit), nil
}

// CountFiltered total de filas que coinciden con query.
func (r *InvoiceRepo) CountFiltered(ctx context.Context, query string) (int, error) {
	rows, err := r.rows(ctx)
	if err != nil {
		return 0, err
	}
	return len(filterRows(rows, query)), nil
}

// ListLatest las limit facturas más recientes.
func (r *InvoiceRepo) ListLatest(ctx context.Context, limit int) ([]*entity.InvoiceRow, error) {
	rows, err := r.rows(ctx)
	if err != nil {
		return nil, err
	}
	return page(rows, 0, limit), nil
}

// Totals número de facturas y sumas por estado.
func (r *InvoiceRepo) Totals(ctx context.Context) (count int, paid, pending int64, err error) {
	invoices, err := r.list(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	for _, inv := range invoices {
		switch inv.Status {
		case entity.InvoiceStatusPaid:
			paid += inv.Amount
		case entity.InvoiceStatusPending:
			pending += inv.Amount
		}
	}
	return len(invoices), paid, pending, nil
}

func (r *InvoiceRepo) list(ctx context.Context) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	if err := r.c.do(ctx, http.MethodGet, "/invoices", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	return out, nil
}

// rows une facturas con sus clientes, ordenadas por fecha descendente.
func (r *InvoiceRepo) rows(ctx context.Context) ([]*entity.InvoiceRow, error) {
	invoices, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := listCustomers(ctx, r.c)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	rows := make([]*entity.InvoiceRow, 0, len(invoices))
	for _, inv := range invoices {
		row := &entity.InvoiceRow{
			ID:         inv.ID,
			CustomerID: inv.CustomerID,
			Amount:     inv.Amount,
			Status:     inv.Status,
			Date:       inv.Date,
		}
		if c, ok := byID[inv.CustomerID]; ok {
			row.Name, row.Email, row.ImageURL = c.Name, c.Email, c.ImageURL
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return rows[i].ID < rows[j].ID
	})
	return rows, nil
}
