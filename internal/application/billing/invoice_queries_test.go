package billing_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Semerokozlyat/drom-de/internal/application/billing"
	"github.com/Semerokozlyat/drom-de/internal/application/dto"
	"github.com/Semerokozlyat/drom-de/internal/domain"
	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
)

func seedInvoices(store *fakeInvoiceStore, n int) {
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("inv-%02d", i)
		store.invoices[id] = &entity.Invoice{ID: id, CustomerID: "c1", Amount: int64(i * 100), Status: "pending", Date: "2026-01-01"}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// InvoiceQueries
// ──────────────────────────────────────────────────────────────────────────────

func TestFilteredInvoices_Paginacion(t *testing.T) {
	store := newFakeInvoiceStore()
	seedInvoices(store, 13)
	q := billing.NewInvoiceQueries(store, &fakeCustomerRepo{})

	first, err := q.FilteredInvoices(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Len(t, first.Invoices, billing.ItemsPerPage)
	assert.Equal(t, dto.PageResponse{Page: 1, TotalPages: 3}, first.PageResponse)

	last, err := q.FilteredInvoices(context.Background(), "", 3)
	require.NoError(t, err)
	assert.Len(t, last.Invoices, 1)
}

func TestFilteredInvoices_PaginaInvalidaEsLaPrimera(t *testing.T) {
	store := newFakeInvoiceStore()
	seedInvoices(store, 2)
	q := billing.NewInvoiceQueries(store, &fakeCustomerRepo{})

	res, err := q.FilteredInvoices(context.Background(), "", 0)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Len(t, res.Invoices, 2)
}

func TestFilteredInvoices_PaginaEnormeSeAcota(t *testing.T) {
	store := newFakeInvoiceStore()
	seedInvoices(store, 13)
	q := billing.NewInvoiceQueries(store, &fakeCustomerRepo{})

	for _, page := range []int{math.MaxInt, math.MaxInt/billing.ItemsPerPage + 2, billing.MaxPage + 1} {
		res, err := q.FilteredInvoices(context.Background(), "", page)
		require.NoError(t, err)
		assert.Empty(t, res.Invoices, "page=%d no devuelve filas de la primera página", page)
		assert.Equal(t, billing.MaxPage, res.Page)
	}
	for _, f := range store.filters {
		if f.Limit != billing.ItemsPerPage {
			continue // conteo de páginas
		}
		assert.Equal(t, (billing.MaxPage-1)*billing.ItemsPerPage, f.Offset)
		assert.Positive(t, f.Offset)
		assert.LessOrEqual(t, f.Offset, math.MaxInt32)
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, billing.ClampPage(-5))
	assert.Equal(t, 1, billing.ClampPage(0))
	assert.Equal(t, 7, billing.ClampPage(7))
	assert.Equal(t, billing.MaxPage, billing.ClampPage(math.MaxInt))
}

func TestFilteredInvoices_ErrorDelBackend(t *testing.T) {
	store := newFakeInvoiceStore()
	store.fail = errBackendDown
	q := billing.NewInvoiceQueries(store, &fakeCustomerRepo{})

	_, err := q.FilteredInvoices(context.Background(), "x", 1)

	assert.ErrorIs(t, err, errBackendDown)
}

func TestInvoicePages_SinResultados(t *testing.T) {
	q := billing.NewInvoiceQueries(newFakeInvoiceStore(), &fakeCustomerRepo{})

	pages, err := q.InvoicePages(context.Background(), "nada")

	require.NoError(t, err)
	assert.Zero(t, pages)
}

func TestInvoiceForEdit_ImporteEnUnidadesMayores(t *testing.T) {
	store := newFakeInvoiceStore()
	store.invoices["inv-1"] = &entity.Invoice{ID: "inv-1", CustomerID: "c1", Amount: 1234, Status: "paid", Date: "2026-01-01"}
	customers := &fakeCustomerRepo{customers: []*entity.Customer{{ID: "c1", Name: "Lee Robinson"}}}
	q := billing.NewInvoiceQueries(store, customers)

	res, err := q.InvoiceForEdit(context.Background(), "inv-1")

	require.NoError(t, err)
	assert.True(t, res.Invoice.Amount.Equal(decimal.RequireFromString("12.34")), "got %s", res.Invoice.Amount)
	assert.Equal(t, "paid", res.Invoice.Status)
	assert.Equal(t, []dto.CustomerResponse{{ID: "c1", Name: "Lee Robinson"}}, res.Customers)
}

func TestInvoiceForEdit_NoExiste(t *testing.T) {
	q := billing.NewInvoiceQueries(newFakeInvoiceStore(), &fakeCustomerRepo{})

	_, err := q.InvoiceForEdit(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// CustomerUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomerFiltered_FormateaTotales(t *testing.T) {
	repo := &fakeCustomerRepo{summaries: []*entity.CustomerSummary{
		{Customer: entity.Customer{ID: "c1", Name: "Delba de Oliveira", Email: "delba@oliveira.com"}, TotalInvoices: 2, TotalPending: 17625, TotalPaid: 123456789},
		{Customer: entity.Customer{ID: "c2", Name: "Lee Robinson", Email: "lee@robinson.com"}},
	}}
	uc := billing.NewCustomerUseCase(repo)

	res, err := uc.Filtered(context.Background(), "DELBA")

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "$176.25", res[0].TotalPending)
	assert.Equal(t, "$1,234,567.89", res[0].TotalPaid)
	assert.Equal(t, 2, res[0].TotalInvoices)
}

func TestCustomerList_Error(t *testing.T) {
	uc := billing.NewCustomerUseCase(&fakeCustomerRepo{err: errBackendDown})

	_, err := uc.List(context.Background())

	assert.ErrorIs(t, err, errBackendDown)
}

// ──────────────────────────────────────────────────────────────────────────────
// PDFUseCase
// ──────────────────────────────────────────────────────────────────────────────

type capturePDF struct{ got billing.InvoicePDFData }

func (c *capturePDF) GenerateInvoicePDF(_ context.Context, in billing.InvoicePDFData) ([]byte, error) {
	c.got = in
	return []byte("%PDF-1.3"), nil
}

func TestDownloadInvoicePDF(t *testing.T) {
	store := newFakeInvoiceStore()
	store.invoices["inv-1"] = &entity.Invoice{ID: "inv-1", CustomerID: "c1", Amount: 17625, Status: "paid", Date: "2026-01-01"}
	gen := &capturePDF{}
	uc := billing.NewPDFUseCase(store, &fakeCustomerRepo{customers: []*entity.Customer{{ID: "c1", Name: "Delba"}}}, gen, "Acme")

	out, name, err := uc.DownloadInvoicePDF(context.Background(), "inv-1")

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), out)
	assert.Equal(t, "invoice_inv-1.pdf", name)
	assert.Equal(t, "$176.25", gen.got.AmountText)
	assert.Equal(t, "Delba", gen.got.Customer.Name)
	assert.Equal(t, "Acme", gen.got.Issuer)
}

func TestDownloadInvoicePDF_NoExiste(t *testing.T) {
	uc := billing.NewPDFUseCase(newFakeInvoiceStore(), &fakeCustomerRepo{}, &capturePDF{}, "Acme")

	_, _, err := uc.DownloadInvoicePDF(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
