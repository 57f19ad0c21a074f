package billing

import (
	"context"
	"fmt"
	"math"

	"github.com/Semerokozlyat/drom-de/internal/application/dto"
	"github.com/Semerokozlyat/drom-de/internal/domain"
	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
	"github.com/Semerokozlyat/drom-de/pkg/money"
)

// ItemsPerPage filas por página en la tabla de facturas.
const ItemsPerPage = 6

// MaxPage página más alta que se consulta; el offset resultante cabe en int32.
const MaxPage = math.MaxInt32/ItemsPerPage + 1

// ClampPage normaliza la página pedida al rango [1, MaxPage].
func ClampPage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	}
	return page
}

// InvoiceQueries casos de uso de lectura de facturas. Los errores de lectura se propagan
// tal cual al handler: no hay una vista degradada definida para ellos.
type InvoiceQueries struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
}

// NewInvoiceQueries construye el caso de uso.
func NewInvoiceQueries(invoices repository.InvoiceRepository, customers repository.CustomerRepository) *InvoiceQueries {
	return &InvoiceQueries{invoices: invoices, customers: customers}
}

// FilteredInvoices devuelve la página solicitada (base 1) de facturas que coinciden con query.
func (q *InvoiceQueries) FilteredInvoices(ctx context.Context, query string, page int) (*dto.InvoiceListResponse, error) {
	page = ClampPage(page)
	rows, err := q.invoices.ListFiltered(ctx, repository.InvoiceFilter{
		Query:  query,
		Limit:  ItemsPerPage,
		Offset: (page - 1) * ItemsPerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("facturas: listar: %w", err)
	}
	pages, err := q.InvoicePages(ctx, query)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Query:        query,
		Invoices:     make([]dto.InvoiceRowResponse, 0, len(rows)),
		PageResponse: dto.PageResponse{Page: page, TotalPages: pages},
	}
	for _, r := range rows {
		out.Invoices = append(out.Invoices, toInvoiceRowResponse(r))
	}
	return out, nil
}

// InvoicePages número total de páginas para query.
func (q *InvoiceQueries) InvoicePages(ctx context.Context, query string) (int, error) {
	total, err := q.invoices.CountFiltered(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("facturas: contar: %w", err)
	}
	return (total + ItemsPerPage - 1) / ItemsPerPage, nil
}

// InvoiceForEdit carga en paralelo la factura y la lista de clientes para el formulario de edición.
// Devuelve domain.ErrNotFound si la factura no existe. El importe vuelve a unidades mayores.
func (q *InvoiceQueries) InvoiceForEdit(ctx context.Context, id string) (*dto.InvoiceEditResponse, error) {
	type invoiceResult struct {
		inv *entity.Invoice
		err error
	}
	type customersResult struct {
		list []*entity.Customer
		err  error
	}
	invCh := make(chan invoiceResult, 1)
	custCh := make(chan customersResult, 1)

	go func() {
		inv, err := q.invoices.GetByID(ctx, id)
		invCh <- invoiceResult{inv, err}
	}()
	go func() {
		list, err := q.customers.ListAll(ctx)
		custCh <- customersResult{list, err}
	}()

	inv := <-invCh
	cust := <-custCh

	if inv.err != nil {
		return nil, fmt.Errorf("facturas: obtener %s: %w", id, inv.err)
	}
	if inv.inv == nil {
		return nil, domain.ErrNotFound
	}
	if cust.err != nil {
		return nil, fmt.Errorf("clientes: listar: %w", cust.err)
	}

	return &dto.InvoiceEditResponse{
		Invoice: dto.InvoiceFormValues{
			ID:         inv.inv.ID,
			CustomerID: inv.inv.CustomerID,
			Amount:     money.FromCents(inv.inv.Amount),
			Status:     inv.inv.Status,
		},
		Customers: toCustomerResponses(cust.list),
	}, nil
}

func toInvoiceRowResponse(r *entity.InvoiceRow) dto.InvoiceRowResponse {
	return dto.InvoiceRowResponse{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Name:       r.Name,
		Email:      r.Email,
		ImageURL:   r.ImageURL,
		Amount:     r.Amount,
		Status:     r.Status,
		Date:       r.Date,
	}
}
