package billing_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Semerokozlyat/drom-de/internal/domain"
	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
)

var errBackendDown = errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")

// fakeInvoiceStore almacén en memoria que cuenta las llamadas al backend.
type fakeInvoiceStore struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
	seq      int
	fail     error

	createCalls int
	updateCalls int
	deleteCalls int
	created     []*entity.Invoice
	updated     []*entity.Invoice
	filters     []repository.InvoiceFilter
}

var _ repository.InvoiceRepository = (*fakeInvoiceStore)(nil)

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{invoices: map[string]*entity.Invoice{}}
}

func (s *fakeInvoiceStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCalls + s.updateCalls + s.deleteCalls
}

func (s *fakeInvoiceStore) Create(_ context.Context, inv *entity.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.fail != nil {
		return s.fail
	}
	sent := *inv
	s.created = append(s.created, &sent)
	s.seq++
	stored := *inv
	stored.ID = fmt.Sprintf("inv-%d", s.seq)
	s.invoices[stored.ID] = &stored
	return nil
}

func (s *fakeInvoiceStore) Update(_ context.Context, inv *entity.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.fail != nil {
		return s.fail
	}
	if _, ok := s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	s.updated = append(s.updated, &cp)
	s.invoices[inv.ID] = &cp
	return nil
}

func (s *fakeInvoiceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if s.fail != nil {
		return s.fail
	}
	if _, ok := s.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.invoices, id)
	return nil
}

func (s *fakeInvoiceStore) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	inv, ok := s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (s *fakeInvoiceStore) ListFiltered(_ context.Context, f repository.InvoiceFilter) ([]*entity.InvoiceRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = append(s.filters, f)
	if s.fail != nil {
		return nil, s.fail
	}
	var rows []*entity.InvoiceRow
	for _, inv := range s.invoices {
		if f.Query != "" && !strings.Contains(inv.Status+inv.CustomerID, f.Query) {
			continue
		}
		rows = append(rows, &entity.InvoiceRow{ID: inv.ID, CustomerID: inv.CustomerID, Amount: inv.Amount, Status: inv.Status, Date: inv.Date})
	}
	if f.Offset >= len(rows) {
		return nil, nil
	}
	end := f.Offset + f.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[f.Offset:end], nil
}

func (s *fakeInvoiceStore) CountFiltered(ctx context.Context, query string) (int, error) {
	rows, err := s.ListFiltered(ctx, repository.InvoiceFilter{Query: query, Limit: 1 << 20})
	return len(rows), err
}

func (s *fakeInvoiceStore) ListLatest(ctx context.Context, limit int) ([]*entity.InvoiceRow, error) {
	return s.ListFiltered(ctx, repository.InvoiceFilter{Limit: limit})
}

func (s *fakeInvoiceStore) Totals(_ context.Context) (int, int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var paid, pending int64
	for _, inv := range s.invoices {
		if inv.Status == entity.InvoiceStatusPaid {
			paid += inv.Amount
		} else {
			pending += inv.Amount
		}
	}
	return len(s.invoices), paid, pending, nil
}

// fakeViewCache registra cada invalidación.
type fakeViewCache struct {
	mu            sync.Mutex
	invalidations []string
	entries       map[string][]byte
	gens          map[string]int64
	failInvalid   error
}

func newFakeViewCache() *fakeViewCache {
	return &fakeViewCache{entries: map[string][]byte{}, gens: map[string]int64{}}
}

func (c *fakeViewCache) Get(_ context.Context, path, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[path+"?"+key]
	return b, ok, nil
}

func (c *fakeViewCache) Generation(_ context.Context, path string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[path], nil
}

func (c *fakeViewCache) Set(_ context.Context, path, key string, gen int64, body []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[path] != gen {
		return false, nil
	}
	c.entries[path+"?"+key] = body
	return true, nil
}

func (c *fakeViewCache) Invalidate(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations = append(c.invalidations, path)
	if c.failInvalid != nil {
		return c.failInvalid
	}
	c.gens[path]++
	for k := range c.entries {
		if strings.HasPrefix(k, path+"?") {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *fakeViewCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.invalidations)
}

// fakeCustomerRepo clientes fijos.
type fakeCustomerRepo struct {
	customers []*entity.Customer
	summaries []*entity.CustomerSummary
	err       error
}

func (r *fakeCustomerRepo) ListAll(context.Context) ([]*entity.Customer, error) {
	return r.customers, r.err
}

func (r *fakeCustomerRepo) ListSummaries(_ context.Context, query string) ([]*entity.CustomerSummary, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.CustomerSummary
	for _, s := range r.summaries {
		if query == "" || strings.Contains(strings.ToLower(s.Name+s.Email), strings.ToLower(query)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Count(context.Context) (int, error) {
	return len(r.customers), r.err
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}
