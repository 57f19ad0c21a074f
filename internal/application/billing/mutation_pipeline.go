package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Semerokozlyat/drom-de/internal/application/dto"
	"github.com/Semerokozlyat/drom-de/internal/domain"
	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/invoice"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
)

// InvoicesPath vista del listado de facturas: se invalida tras cada mutación confirmada
// y es el destino de navegación de alta y edición.
const InvoicesPath = "/dashboard/invoices"

// Mensajes de resultado de las mutaciones.
const (
	MsgCreateMissingFields = "Missing Fields. Failed to Create Invoice."
	MsgCreateBackendError  = "Backend API Error: failed to create invoice"
	MsgUpdateMissingFields = "Missing Fields. Failed to Update Invoice."
	MsgUpdateBackendError  = "Backend API Error: failed to update invoice"
	MsgUpdateNotFound      = "Invoice not found. Failed to Update Invoice."
	MsgUpdateMissingID     = "Missing invoice id. Failed to Update Invoice."
	MsgDeleteBackendError  = "Backend API Error: failed to delete invoice"
	MsgDeleteMissingID     = "Missing invoice id. Failed to Delete Invoice."
	MsgDeleted             = "Deleted Invoice."
)

// MutationPipeline orquesta alta, edición y borrado de facturas:
// validar → transformar → persistir → invalidar cache → navegar.
//
// Invariantes:
//   - la validación termina antes de cualquier llamada al backend;
//   - la cache solo se invalida después de que el backend confirma el cambio;
//   - todo error se devuelve como dto.MutationResult, nunca como error Go.
type MutationPipeline struct {
	schema *invoice.Schema
	store  repository.InvoiceRepository
	cache  ViewCache
	now    func() time.Time
	log    zerolog.Logger
}

// PipelineOption configura el pipeline.
type PipelineOption func(*MutationPipeline)

// WithClock reemplaza el reloj usado para sellar la fecha de emisión.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *MutationPipeline) { p.now = now }
}

// NewMutationPipeline construye el pipeline.
func NewMutationPipeline(store repository.InvoiceRepository, cache ViewCache, log zerolog.Logger, opts ...PipelineOption) *MutationPipeline {
	p := &MutationPipeline{
		schema: invoice.NewSchema(),
		store:  store,
		cache:  cache,
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Create valida el formulario y crea la factura. prev es el resultado del envío anterior
// del mismo formulario (nil en el primer envío).
func (p *MutationPipeline) Create(ctx context.Context, prev *dto.MutationResult, raw map[string]any) dto.MutationResult {
	if prev != nil && !prev.OK {
		p.log.Debug().Str("previous", prev.Message).Msg("reenvío del formulario de alta")
	}

	v := p.schema.Validate(candidateFields(raw))
	if !v.OK() {
		return dto.MutationResult{FieldErrors: v.Errors, Message: MsgCreateMissingFields}
	}

	inv := p.toInvoice(v.Fields)
	if err := p.store.Create(ctx, inv); err != nil {
		p.log.Warn().Err(err).Str("customer_id", inv.CustomerID).Msg("crear factura en backend")
		return dto.MutationResult{Message: MsgCreateBackendError}
	}

	p.invalidate(ctx)
	return dto.MutationResult{OK: true, RedirectTo: InvoicesPath}
}

// Update valida el formulario y reemplaza la factura id (id llega por la ruta, no por el body).
func (p *MutationPipeline) Update(ctx context.Context, id string, raw map[string]any) dto.MutationResult {
	id = strings.TrimSpace(id)
	if id == "" {
		return dto.MutationResult{Message: MsgUpdateMissingID}
	}

	v := p.schema.Validate(candidateFields(raw))
	if !v.OK() {
		return dto.MutationResult{FieldErrors: v.Errors, Message: MsgUpdateMissingFields}
	}

	inv := p.toInvoice(v.Fields)
	inv.ID = id
	if err := p.store.Update(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return dto.MutationResult{Message: MsgUpdateNotFound}
		}
		p.log.Warn().Err(err).Str("invoice_id", id).Msg("actualizar factura en backend")
		return dto.MutationResult{Message: MsgUpdateBackendError}
	}

	p.invalidate(ctx)
	return dto.MutationResult{OK: true, RedirectTo: InvoicesPath}
}

// Delete borra la factura id. A diferencia de alta/edición no navega: el listado
// se refresca en el lugar.
func (p *MutationPipeline) Delete(ctx context.Context, id string) dto.MutationResult {
	id = strings.TrimSpace(id)
	if id == "" {
		return dto.MutationResult{Message: MsgDeleteMissingID}
	}

	if err := p.store.Delete(ctx, id); err != nil {
		p.log.Warn().Err(err).Str("invoice_id", id).Msg("borrar factura en backend")
		return dto.MutationResult{Message: MsgDeleteBackendError}
	}

	p.invalidate(ctx)
	return dto.MutationResult{OK: true, Message: MsgDeleted}
}

// toInvoice convierte el importe a centavos y sella la fecha de hoy. El ID lo asigna el backend.
func (p *MutationPipeline) toInvoice(f invoice.Fields) *entity.Invoice {
	return &entity.Invoice{
		CustomerID: f.CustomerID,
		Amount:     f.AmountInCents(),
		Status:     f.Status,
		Date:       p.now().Format(entity.DateLayout),
	}
}

// invalidate descarta el listado cacheado. Se llama solo tras un éxito del backend; si la
// invalidación falla el cambio ya está persistido, así que se registra y el resultado sigue OK.
func (p *MutationPipeline) invalidate(ctx context.Context) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Invalidate(ctx, InvoicesPath); err != nil {
		p.log.Error().Err(err).Str("path", InvoicesPath).Msg("invalidar cache de facturas")
	}
}

// candidateFields extrae del formulario solo los campos que el usuario puede enviar.
func candidateFields(raw map[string]any) map[string]any {
	return map[string]any{
		invoice.FieldCustomerID: raw[invoice.FieldCustomerID],
		invoice.FieldAmount:     raw[invoice.FieldAmount],
		invoice.FieldStatus:     raw[invoice.FieldStatus],
	}
}
