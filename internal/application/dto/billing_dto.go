package dto

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MutationResult resultado uniforme de toda operación que modifica facturas.
// OK=true implica que el backend confirmó el cambio; nunca hay éxito parcial.
// RedirectTo no vacío indica la vista a la que transferir el control tras el éxito.
type MutationResult struct {
	OK          bool                `json:"ok"`
	FieldErrors map[string][]string `json:"errors,omitempty"`
	Message     string              `json:"message,omitempty"`
	RedirectTo  string              `json:"redirect_to,omitempty"`
}

// InvoiceForm campos crudos del formulario de factura (application/x-www-form-urlencoded o JSON).
// Amount se deja como texto: la coerción numérica pertenece al esquema de validación.
type InvoiceForm struct {
	CustomerID string     `json:"customerId" form:"customerId"`
	Amount     FormAmount `json:"amount" form:"amount" swaggertype:"string" example:"12.34"`
	Status     string     `json:"status" form:"status"`
}

// FormAmount importe crudo. En JSON acepta texto ("12.34") o número (12.34) y
// conserva el literal tal cual, sin pasar por float64.
type FormAmount string

// UnmarshalJSON acepta string, número o null.
func (a *FormAmount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = FormAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount: se esperaba texto o número: %w", err)
	}
	*a = FormAmount(n)
	return nil
}

// Raw devuelve el mapa campo → valor que consume el esquema de validación.
func (f InvoiceForm) Raw() map[string]any {
	return map[string]any{
		"customerId": f.CustomerID,
		"amount":     string(f.Amount),
		"status":     f.Status,
	}
}

// InvoiceRowResponse fila de la tabla de facturas.
type InvoiceRowResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ImageURL   string `json:"image_url"`
	Amount     int64  `json:"amount"` // centavos
	Status     string `json:"status"`
	Date       string `json:"date"`
}

// InvoiceListResponse respuesta de GET /dashboard/invoices.
type InvoiceListResponse struct {
	Query    string               `json:"query,omitempty"`
	Invoices []InvoiceRowResponse `json:"invoices"`
	PageResponse
}

// InvoiceEditResponse datos para el formulario de edición. Amount en unidades mayores.
type InvoiceEditResponse struct {
	Invoice   InvoiceFormValues  `json:"invoice"`
	Customers []CustomerResponse `json:"customers"`
}

// InvoiceFormValues valores actuales de la factura en edición.
type InvoiceFormValues struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// CustomerSummaryResponse fila de la tabla de clientes con totales formateados.
type CustomerSummaryResponse struct {
	CustomerResponse
	TotalInvoices int    `json:"total_invoices"`
	TotalPending  string `json:"total_pending"`
	TotalPaid     string `json:"total_paid"`
}
