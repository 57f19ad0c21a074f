package billing

import "context"

// ViewCache cache de vistas ya construidas (ej. el listado de facturas), indexadas por ruta
// y por clave (query string). Invalidate descarta todas las entradas de la ruta y avanza
// su generación. Set sólo guarda si gen es todavía la generación actual (stored=false si no).
type ViewCache interface {
	Get(ctx context.Context, path, key string) ([]byte, bool, error)
	Generation(ctx context.Context, path string) (int64, error)
	Set(ctx context.Context, path, key string, gen int64, body []byte) (stored bool, err error)
	Invalidate(ctx context.Context, path string) error
}

// InvoicePDFGenerator genera la representación PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, in InvoicePDFData) ([]byte, error)
}
