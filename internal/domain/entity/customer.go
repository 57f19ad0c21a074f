package entity

// Customer representa un cliente. Solo lectura desde este servicio.
type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// CustomerSummary cliente con totales de facturación (centavos).
type CustomerSummary struct {
	Customer
	TotalInvoices int
	TotalPending  int64
	TotalPaid     int64
}
