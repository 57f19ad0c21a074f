package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Semerokozlyat/drom-de/internal/domain"
	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceRowSelect = `
	SELECT i.id, i.customer_id, c.name, c.email, c.image_url, i.amount, i.status, i.date
	FROM invoices i
	JOIN customers c ON i.customer_id = c.id`

const invoiceRowFilter = `
	WHERE c.name ILIKE $1 OR c.email ILIKE $1 OR i.amount::text ILIKE $1
	   OR i.date::text ILIKE $1 OR i.status ILIKE $1`

// Create persiste una factura nueva; el ID se genera aquí (el llamador no lo fija).
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	id := orNewID(inv.ID)
	date, err := parseDate(inv.Date)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO invoices (id, customer_id, amount, status, date)
		VALUES ($1, $2, $3, $4, $5)`,
		id, inv.CustomerID, inv.Amount, inv.Status, date,
	)
	if err != nil {
		return wrapWriteErr("insert invoice", err)
	}
	inv.ID = id
	return nil
}

// Update reemplaza la factura; domain.ErrNotFound si no existe.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	date, err := parseDate(inv.Date)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices SET customer_id = $2, amount = $3, status = $4, date = $5
		WHERE id = $1`,
		inv.ID, inv.CustomerID, inv.Amount, inv.Status, date,
	)
	if err != nil {
		return wrapWriteErr("update invoice", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la factura; domain.ErrNotFound si no existe.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una factura por ID; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	var date time.Time
	err := r.q.QueryRow(ctx, `
		SELECT id, customer_id, amount, status, date FROM invoices WHERE id = $1`, id,
	).Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &inv.Status, &date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.Date = date.Format(entity.DateLayout)
	return &inv, nil
}

// ListFiltered filas que coinciden con el filtro, por fecha descendente.
func (r *InvoiceRepo) ListFiltered(ctx context.Context, f repository.InvoiceFilter) ([]*entity.InvoiceRow, error) {
	rows, err := r.q.Query(ctx, invoiceRowSelect+invoiceRowFilter+`
		ORDER BY i.date DESC, i.id
		LIMIT $2 OFFSET $3`,
		"%"+escapeLike(f.Query)+"%", f.Limit, f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return scanInvoiceRows(rows)
}

// CountFiltered total de filas que coinciden con query.
func (r *InvoiceRepo) CountFiltered(ctx context.Context, query string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM invoices i JOIN customers c ON i.customer_id = c.id`+invoiceRowFilter,
		"%"+escapeLike(query)+"%",
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// ListLatest las limit facturas más recientes.
func (r *InvoiceRepo) ListLatest(ctx context.Context, limit int) ([]*entity.InvoiceRow, error) {
	rows, err := r.q.Query(ctx, invoiceRowSelect+`
		ORDER BY i.date DESC, i.id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("latest invoices: %w", err)
	}
	return scanInvoiceRows(rows)
}

// Totals número de facturas y sumas por estado (centavos).
func (r *InvoiceRepo) Totals(ctx context.Context) (count int, paid, pending int64, err error) {
	err = r.q.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0)
		FROM invoices`,
	).Scan(&count, &paid, &pending)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invoice totals: %w", err)
	}
	return count, paid, pending, nil
}

func scanInvoiceRows(rows pgx.Rows) ([]*entity.InvoiceRow, error) {
	defer rows.Close()
	var out []*entity.InvoiceRow
	for rows.Next() {
		var row entity.InvoiceRow
		var date time.Time
		if err := rows.Scan(&row.ID, &row.CustomerID, &row.Name, &row.Email, &row.ImageURL,
			&row.Amount, &row.Status, &date); err != nil {
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		row.Date = date.Format(entity.DateLayout)
		out = append(out, &row)
	}
	return out, rows.Err()
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func wrapWriteErr(op string, err error) error {
	if isForeignKeyViolation(err) || isCheckViolation(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrInvalidInput, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
