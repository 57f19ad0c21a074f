package billing

import (
	"context"
	"fmt"

	"github.com/Semerokozlyat/drom-de/internal/application/dto"
	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
	"github.com/Semerokozlyat/drom-de/pkg/money"
)

// CustomerUseCase casos de uso de lectura de clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// List lista todos los clientes (para el selector del formulario de factura).
func (uc *CustomerUseCase) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	list, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("clientes: listar: %w", err)
	}
	return toCustomerResponses(list), nil
}

// Filtered lista clientes cuyo nombre o email coincide con query, con totales formateados.
func (uc *CustomerUseCase) Filtered(ctx context.Context, query string) ([]dto.CustomerSummaryResponse, error) {
	list, err := uc.repo.ListSummaries(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("clientes: filtrar: %w", err)
	}
	out := make([]dto.CustomerSummaryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CustomerSummaryResponse{
			CustomerResponse: toCustomerResponse(&c.Customer),
			TotalInvoices:    c.TotalInvoices,
			TotalPending:     money.FormatCents(c.TotalPending),
			TotalPaid:        money.FormatCents(c.TotalPaid),
		})
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:       c.ID,
		Name:     c.Name,
		Email:    c.Email,
		ImageURL: c.ImageURL,
	}
}

func toCustomerResponses(list []*entity.Customer) []dto.CustomerResponse {
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out
}
