package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// orNewID devuelve id o, si está vacío, un UUID nuevo.
func orNewID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}

// pgCode devuelve el SQLSTATE del error de PostgreSQL, o "" si no lo es.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isForeignKeyViolation 23503: la factura referencia un cliente inexistente.
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

// isCheckViolation 23514: importe o estado fuera de dominio.
func isCheckViolation(err error) bool {
	return pgCode(err) == "23514"
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
