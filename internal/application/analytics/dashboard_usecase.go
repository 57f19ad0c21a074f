// Package analytics contiene los casos de uso de la portada del dashboard:
// tarjetas de resumen, gráfico de ingresos y últimas facturas.
package analytics

import (
	"context"
	"fmt"

	"github.com/Semerokozlyat/drom-de/internal/application/dto"
	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
	"github.com/Semerokozlyat/drom-de/pkg/money"
)

const dashboardLatestInvoices = 5 // filas en el widget de últimas facturas

// DashboardUseCase construye la portada del dashboard.
//
// Fuente de datos: repositorios de facturas, clientes e ingresos (solo lectura).
type DashboardUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	revenueRepo  repository.RevenueRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	revenueRepo repository.RevenueRepository,
) *DashboardUseCase {
	return &DashboardUseCase{invoiceRepo: invoiceRepo, customerRepo: customerRepo, revenueRepo: revenueRepo}
}

// GetDashboard construye el DashboardDTO.
//
// Cuatro llamadas en paralelo:
//  1. RevenueRepository.List           → gráfico de ingresos
//  2. InvoiceRepository.ListLatest(5)  → últimas facturas
//  3. InvoiceRepository.Totals         → nº facturas + pagado/pendiente
//  4. CustomerRepository.Count         → nº clientes
//
// Cualquier error se propaga: la portada no tiene vista degradada.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	type revenueResult struct {
		list []*entity.Revenue
		err  error
	}
	type latestResult struct {
		rows []*entity.InvoiceRow
		err  error
	}
	type totalsResult struct {
		count         int
		paid, pending int64
		err           error
	}
	type countResult struct {
		n   int
		err error
	}

	revCh := make(chan revenueResult, 1)
	latestCh := make(chan latestResult, 1)
	totalsCh := make(chan totalsResult, 1)
	custCh := make(chan countResult, 1)

	go func() {
		list, err := uc.revenueRepo.List(ctx)
		revCh <- revenueResult{list, err}
	}()
	go func() {
		rows, err := uc.invoiceRepo.ListLatest(ctx, dashboardLatestInvoices)
		latestCh <- latestResult{rows, err}
	}()
	go func() {
		count, paid, pending, err := uc.invoiceRepo.Totals(ctx)
		totalsCh <- totalsResult{count, paid, pending, err}
	}()
	go func() {
		n, err := uc.customerRepo.Count(ctx)
		custCh <- countResult{n, err}
	}()

	rev := <-revCh
	latest := <-latestCh
	totals := <-totalsCh
	cust := <-custCh

	if rev.err != nil {
		return nil, fmt.Errorf("dashboard: ingresos: %w", rev.err)
	}
	if latest.err != nil {
		return nil, fmt.Errorf("dashboard: últimas facturas: %w", latest.err)
	}
	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: totales: %w", totals.err)
	}
	if cust.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", cust.err)
	}

	out := &dto.DashboardDTO{
		Cards: dto.CardDataDTO{
			NumberOfCustomers:    cust.n,
			NumberOfInvoices:     totals.count,
			TotalPaidInvoices:    money.FormatCents(totals.paid),
			TotalPendingInvoices: money.FormatCents(totals.pending),
		},
		Revenue:        make([]dto.RevenueDTO, 0, len(rev.list)),
		LatestInvoices: make([]dto.LatestInvoiceDTO, 0, len(latest.rows)),
	}
	for _, r := range rev.list {
		out.Revenue = append(out.Revenue, dto.RevenueDTO{Month: r.Month, Revenue: r.Revenue})
	}
	for _, r := range latest.rows {
		out.LatestInvoices = append(out.LatestInvoices, dto.LatestInvoiceDTO{
			ID:       r.ID,
			Name:     r.Name,
			Email:    r.Email,
			ImageURL: r.ImageURL,
			Amount:   money.FormatCents(r.Amount),
		})
	}
	return out, nil
}
