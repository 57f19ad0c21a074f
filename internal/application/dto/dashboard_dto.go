package dto

// DashboardDTO respuesta de GET /dashboard: tarjetas, gráfico de ingresos y últimas facturas.
type DashboardDTO struct {
	Cards          CardDataDTO        `json:"cards"`
	Revenue        []RevenueDTO       `json:"revenue"`
	LatestInvoices []LatestInvoiceDTO `json:"latest_invoices"`
}

// CardDataDTO métricas resumidas; los importes ya vienen formateados como moneda.
type CardDataDTO struct {
	NumberOfCustomers    int    `json:"number_of_customers"`
	NumberOfInvoices     int    `json:"number_of_invoices"`
	TotalPaidInvoices    string `json:"total_paid_invoices"`
	TotalPendingInvoices string `json:"total_pending_invoices"`
}

// RevenueDTO ingreso de un mes (centavos).
type RevenueDTO struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
}

// LatestInvoiceDTO factura reciente con cliente e importe formateado.
type LatestInvoiceDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
	Amount   string `json:"amount"`
}
