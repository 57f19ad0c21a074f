package http_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Semerokozlyat/drom-de/internal/application/analytics"
	"github.com/Semerokozlyat/drom-de/internal/application/auth"
	"github.com/Semerokozlyat/drom-de/internal/application/billing"
	"github.com/Semerokozlyat/drom-de/internal/domain"
	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
	"github.com/Semerokozlyat/drom-de/internal/infrastructure/cache"
	apphttp "github.com/Semerokozlyat/drom-de/internal/interfaces/http"
	pkgjwt "github.com/Semerokozlyat/drom-de/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "drom-de-test"
	testUserID    = "410544b2-4001-4271-9855-fec4b6a6442a"
	testEmail     = "user@nextmail.com"
	testPassword  = "123456"
	cookieName    = "session"
)

var errBackendDown = errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")

// memStore almacén de facturas y clientes en memoria.
type memStore struct {
	mu        sync.Mutex
	invoices  map[string]*entity.Invoice
	customers []*entity.Customer
	seq       int
	fail      error
	writes    int
	onList    func() // se ejecuta en cada ListFiltered, fuera del lock
}

var (
	_ repository.InvoiceRepository  = (*memStore)(nil)
	_ repository.CustomerRepository = customerView{}
)

func newMemStore() *memStore {
	return &memStore{
		invoices: map[string]*entity.Invoice{},
		customers: []*entity.Customer{
			{ID: "cust-1", Name: "Delba de Oliveira", Email: "delba@oliveira.com"},
			{ID: "cust-2", Name: "Lee Robinson", Email: "lee@robinson.com"},
		},
	}
}

func (s *memStore) Create(_ context.Context, inv *entity.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.fail != nil {
		return s.fail
	}
	s.seq++
	cp := *inv
	cp.ID = fmt.Sprintf("inv-%d", s.seq)
	s.invoices[cp.ID] = &cp
	inv.ID = cp.ID
	return nil
}

func (s *memStore) Update(_ context.Context, inv *entity.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.fail != nil {
		return s.fail
	}
	if _, ok := s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	s.invoices[inv.ID] = &cp
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.fail != nil {
		return s.fail
	}
	if _, ok := s.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.invoices, id)
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (s *memStore) rows(query string) []*entity.InvoiceRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.InvoiceRow
	for _, inv := range s.invoices {
		row := &entity.InvoiceRow{ID: inv.ID, CustomerID: inv.CustomerID, Amount: inv.Amount, Status: inv.Status, Date: inv.Date}
		for _, c := range s.customers {
			if c.ID == inv.CustomerID {
				row.Name, row.Email = c.Name, c.Email
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(row.Name+row.Email+row.Status), strings.ToLower(query)) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) ListFiltered(_ context.Context, f repository.InvoiceFilter) ([]*entity.InvoiceRow, error) {
	if s.onList != nil {
		s.onList()
	}
	rows := s.rows(f.Query)
	if f.Offset >= len(rows) {
		return nil, nil
	}
	end := f.Offset + f.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[f.Offset:end], nil
}

func (s *memStore) CountFiltered(_ context.Context, query string) (int, error) {
	return len(s.rows(query)), nil
}

func (s *memStore) ListLatest(ctx context.Context, limit int) ([]*entity.InvoiceRow, error) {
	return s.ListFiltered(ctx, repository.InvoiceFilter{Limit: limit})
}

func (s *memStore) Totals(context.Context) (int, int64, int64, error) {
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

func (s *memStore) ListAll(context.Context) ([]*entity.Customer, error) {
	return s.customers, nil
}

func (s *memStore) ListSummaries(_ context.Context, query string) ([]*entity.CustomerSummary, error) {
	var out []*entity.CustomerSummary
	for _, c := range s.customers {
		if query == "" || strings.Contains(strings.ToLower(c.Name+c.Email), strings.ToLower(query)) {
			out = append(out, &entity.CustomerSummary{Customer: *c})
		}
	}
	return out, nil
}

func (s *memStore) Count(context.Context) (int, error) { return len(s.customers), nil }

func (s *memStore) customer(id string) *entity.Customer {
	for _, c := range s.customers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// customerView adapta memStore al puerto de clientes (GetByID choca con el de facturas).
type customerView struct{ *memStore }

func (v customerView) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return v.customer(id), nil
}

type noRevenue struct{}

func (noRevenue) List(context.Context) ([]*entity.Revenue, error) { return nil, nil }

type memUsers struct {
	hash string
	err  error
}

func (u *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if u.err != nil {
		return nil, u.err
	}
	if email != testEmail {
		return nil, nil
	}
	return &entity.User{ID: testUserID, Name: "User", Email: testEmail, PasswordHash: u.hash}, nil
}

type pdfStub struct{}

func (pdfStub) GenerateInvoicePDF(_ context.Context, d billing.InvoicePDFData) ([]byte, error) {
	return []byte("%PDF-1.7 " + d.Invoice.ID), nil
}

// testEnv aplicación completa con dependencias en memoria.
type testEnv struct {
	app     *fiber.App
	store   *memStore
	users   *memUsers
	cache   *cache.MemoryViewCache
	revoker *cache.MemoryRevoker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	env := &testEnv{
		store:   newMemStore(),
		users:   &memUsers{hash: string(hash)},
		cache:   cache.NewMemoryViewCache(time.Minute),
		revoker: cache.NewMemoryRevoker(),
	}
	customers := customerView{env.store}
	log := zerolog.Nop()

	env.app = fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(env.app, apphttp.RouterDeps{
		Authenticator: auth.NewAuthenticator(env.users, auth.Config{Secret: testJWTSecret, Issuer: testIssuer, ExpMinutes: 60}, log),
		Sessions:      auth.NewSessions(testJWTSecret, testIssuer, env.revoker),
		Gate:          auth.NewGate(auth.DefaultGateConfig()),
		Pipeline:      billing.NewMutationPipeline(env.store, env.cache, log),
		Invoices:      billing.NewInvoiceQueries(env.store, customers),
		CustomerUC:    billing.NewCustomerUseCase(customers),
		InvoicePDF:    billing.NewPDFUseCase(env.store, customers, pdfStub{}, "Acme"),
		DashboardUC:   analytics.NewDashboardUseCase(env.store, customers, noRevenue{}),
		ViewCache:     env.cache,
		Cookie:        apphttp.CookieConfig{Name: cookieName, Expiration: time.Hour},
		Log:           log,
	})
	return env
}

// sessionToken emite un token válido para el usuario de prueba.
func sessionToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, 60, testUserID, "User", testEmail)
	require.NoError(t, err)
	return tok
}

// do lanza la petición; token vacío = sin sesión. body no vacío se envía como formulario.
func (e *testEnv) do(t *testing.T, method, target, token, body string) *http.Response {
	t.Helper()
	return e.send(t, method, target, token, fiber.MIMEApplicationForm, body)
}

// doJSON igual que do pero con body JSON.
func (e *testEnv) doJSON(t *testing.T, method, target, token, body string) *http.Response {
	t.Helper()
	return e.send(t, method, target, token, fiber.MIMEApplicationJSON, body)
}

func (e *testEnv) send(t *testing.T, method, target, token, contentType, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
