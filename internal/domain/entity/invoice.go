package entity

// Estados válidos de una factura.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// DateLayout formato ISO de fecha de emisión (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Invoice representa una factura tal como se persiste en el backend.
// Amount siempre en unidades menores (centavos); la conversión ocurre una sola vez al enviar el formulario.
type Invoice struct {
	ID         string `json:"id,omitempty"` // asignado por el backend
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
	Date       string `json:"date"`
}

// InvoiceRow fila de la tabla de facturas: factura + datos del cliente.
type InvoiceRow struct {
	ID         string
	CustomerID string
	Name       string
	Email      string
	ImageURL   string
	Amount     int64
	Status     string
	Date       string
}

// IsValidInvoiceStatus indica si el estado pertenece al dominio {pending, paid}.
func IsValidInvoiceStatus(s string) bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}
