package http

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Semerokozlyat/drom-de/internal/application/billing"
	"github.com/Semerokozlyat/drom-de/internal/application/dto"
	"github.com/Semerokozlyat/drom-de/internal/domain"
)

// InvoiceHandler maneja las peticiones HTTP de facturas (protegido por AccessGate).
type InvoiceHandler struct {
	pipeline *billing.MutationPipeline
	queries  *billing.InvoiceQueries
	pdf      *billing.PDFUseCase
	cache    billing.ViewCache
	log      zerolog.Logger
}

// NewInvoiceHandler construye el handler. cache puede ser nil.
func NewInvoiceHandler(pipeline *billing.MutationPipeline, queries *billing.InvoiceQueries, pdf *billing.PDFUseCase, cache billing.ViewCache, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{pipeline: pipeline, queries: queries, pdf: pdf, cache: cache, log: log}
}

// List godoc
// @Summary      Listar facturas (búsqueda + paginación)
// @Tags         invoices
// @Produce      json
// @Param        query  query  string  false  "texto libre"
// @Param        page   query  int     false  "página (base 1)"
// @Success      200  {object}  dto.InvoiceListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /dashboard/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	query := c.Query("query")
	page := billing.ClampPage(c.QueryInt("page", 1))
	key := url.Values{"query": {query}, "page": {strconv.Itoa(page)}}.Encode()

	// la generación se lee antes de consultar: si una mutación invalida en medio, Set no guarda
	var gen int64
	cacheable := h.cache != nil
	if cacheable {
		var err error
		if gen, err = h.cache.Generation(c.Context(), billing.InvoicesPath); err != nil {
			h.log.Warn().Err(err).Msg("leer generación de facturas")
			cacheable = false
		}
	}
	if cacheable {
		body, ok, err := h.cache.Get(c.Context(), billing.InvoicesPath, key)
		if err != nil {
			h.log.Warn().Err(err).Msg("leer cache de facturas")
		} else if ok {
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(body)
		}
	}

	res, err := h.queries.FilteredInvoices(c.Context(), query, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	body, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if cacheable {
		stored, err := h.cache.Set(c.Context(), billing.InvoicesPath, key, gen, body)
		if err != nil {
			h.log.Warn().Err(err).Msg("guardar cache de facturas")
		} else if !stored {
			h.log.Debug().Str("key", key).Msg("vista de facturas descartada: invalidada durante la consulta")
		}
	}
	c.Set("X-Cache", "MISS")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// Create godoc
// @Summary      Crear factura
// @Tags         invoices
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        body  body  dto.InvoiceForm  true  "customerId, amount, status"
// @Success      303
// @Failure      422  {object}  dto.MutationResult
// @Failure      502  {object}  dto.MutationResult
// @Router       /dashboard/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res := h.pipeline.Create(c.Context(), nil, in.Raw())
	h.audit(c, "create", "", res)
	return writeMutation(c, res)
}

// Edit godoc
// @Summary      Datos del formulario de edición
// @Tags         invoices
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceEditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /dashboard/invoices/{id}/edit [get]
func (h *InvoiceHandler) Edit(c *fiber.Ctx) error {
	res, err := h.queries.InvoiceForEdit(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(res)
}

// Update godoc
// @Summary      Actualizar factura
// @Tags         invoices
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        id    path  string           true  "ID de la factura"
// @Param        body  body  dto.InvoiceForm  true  "customerId, amount, status"
// @Success      303
// @Failure      404  {object}  dto.MutationResult
// @Failure      422  {object}  dto.MutationResult
// @Failure      502  {object}  dto.MutationResult
// @Router       /dashboard/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.InvoiceForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res := h.pipeline.Update(c.Context(), c.Params("id"), in.Raw())
	h.audit(c, "update", c.Params("id"), res)
	return writeMutation(c, res)
}

// Delete godoc
// @Summary      Borrar factura
// @Tags         invoices
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.MutationResult
// @Failure      502  {object}  dto.MutationResult
// @Router       /dashboard/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	res := h.pipeline.Delete(c.Context(), c.Params("id"))
	h.audit(c, "delete", c.Params("id"), res)
	return writeMutation(c, res)
}

// DeleteForm borrado desde un formulario HTML: tras el éxito vuelve al listado.
// POST /dashboard/invoices/:id/delete
func (h *InvoiceHandler) DeleteForm(c *fiber.Ctx) error {
	res := h.pipeline.Delete(c.Context(), c.Params("id"))
	h.audit(c, "delete", c.Params("id"), res)
	if res.OK {
		return c.Redirect(billing.InvoicesPath, fiber.StatusSeeOther)
	}
	return writeMutation(c, res)
}

// PDF godoc
// @Summary      Descargar factura en PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /dashboard/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DownloadInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// audit registra quién hizo la mutación y con qué resultado.
func (h *InvoiceHandler) audit(c *fiber.Ctx, op, id string, res dto.MutationResult) {
	ev := h.log.Info()
	if !res.OK {
		ev = h.log.Warn()
	}
	if s := GetSession(c); s != nil {
		ev = ev.Str("user_id", s.UserID)
	}
	ev.Str("op", op).Str("invoice_id", id).Bool("ok", res.OK).Str("message", res.Message).Msg("mutación de factura")
}

// writeMutation traduce un MutationResult a HTTP: éxito con destino → 303, éxito sin destino → 200,
// errores de campo → 422, factura inexistente → 404, id ausente → 400, resto (backend) → 502.
func writeMutation(c *fiber.Ctx, res dto.MutationResult) error {
	switch {
	case res.OK && res.RedirectTo != "":
		return c.Redirect(res.RedirectTo, fiber.StatusSeeOther)
	case res.OK:
		return c.JSON(res)
	case len(res.FieldErrors) > 0:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(res)
	case res.Message == billing.MsgUpdateNotFound:
		return c.Status(fiber.StatusNotFound).JSON(res)
	case res.Message == billing.MsgUpdateMissingID || res.Message == billing.MsgDeleteMissingID:
		return c.Status(fiber.StatusBadRequest).JSON(res)
	default:
		return c.Status(fiber.StatusBadGateway).JSON(res)
	}
}
