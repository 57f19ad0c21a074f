package backendapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/Semerokozlyat/drom-de/internal/domain"
	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
)

// CustomerRepo implementa repository.CustomerRepository sobre el API REST.
type CustomerRepo struct {
	c *Client
}

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// NewCustomerRepo construye el repositorio.
func NewCustomerRepo(c *Client) *CustomerRepo {
	return &CustomerRepo{c: c}
}

// ListAll GET /customers ordenado por nombre.
func (r *CustomerRepo) ListAll(ctx context.Context) ([]*entity.Customer, error) {
	return listCustomers(ctx, r.c)
}

// Count número de clientes.
func (r *CustomerRepo) Count(ctx context.Context) (int, error) {
	list, err := listCustomers(ctx, r.c)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// GetByID GET /customers/{id}; (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(id), nil, nil, &c)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListSummaries clientes cuyo nombre o email contiene query, con totales por estado.
func (r *CustomerRepo) ListSummaries(ctx context.Context, query string) ([]*entity.CustomerSummary, error) {
	customers, err := listCustomers(ctx, r.c)
	if err != nil {
		return nil, err
	}
	var invoices []*entity.Invoice
	if err := r.c.do(ctx, http.MethodGet, "/invoices", nil, nil, &invoices); err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	byID := make(map[string]*entity.CustomerSummary, len(customers))
	out := make([]*entity.CustomerSummary, 0, len(customers))
	for _, c := range customers {
		if q != "" && !containsAny(q, c.Name, c.Email) {
			continue
		}
		s := &entity.CustomerSummary{Customer: *c}
		byID[c.ID] = s
		out = append(out, s)
	}
	for _, inv := range invoices {
		s, ok := byID[inv.CustomerID]
		if !ok {
			continue
		}
		s.TotalInvoices++
		switch inv.Status {
		case entity.InvoiceStatusPaid:
			s.TotalPaid += inv.Amount
		case entity.InvoiceStatusPending:
			s.TotalPending += inv.Amount
		}
	}
	return out, nil
}

func listCustomers(ctx context.Context, c *Client) ([]*entity.Customer, error) {
	var out []*entity.Customer
	if err := c.do(ctx, http.MethodGet, "/customers", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
