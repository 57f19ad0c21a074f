package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
)

// SeedData datos iniciales. Los usuarios llegan con el hash bcrypt ya calculado.
type SeedData struct {
	Users     []entity.User
	Customers []entity.Customer
	Invoices  []entity.Invoice
	Revenue   []entity.Revenue
}

// SeedCounts filas insertadas por tabla (las existentes se omiten).
type SeedCounts struct {
	Users, Customers, Invoices, Revenue int64
}

// Seed crea el esquema e inserta los datos en una sola transacción. Idempotente:
// los registros ya presentes (misma clave) no se tocan.
func Seed(ctx context.Context, pool *pgxpool.Pool, data SeedData) (SeedCounts, error) {
	var counts SeedCounts
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if err := EnsureSchema(ctx, tx); err != nil {
			return err
		}
		for _, u := range data.Users {
			tag, err := tx.Exec(ctx,
				`INSERT INTO users (id, name, email, password) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
				orNewID(u.ID), u.Name, u.Email, u.PasswordHash)
			if err != nil {
				return fmt.Errorf("usuario %s: %w", u.Email, err)
			}
			counts.Users += tag.RowsAffected()
		}
		for _, c := range data.Customers {
			tag, err := tx.Exec(ctx,
				`INSERT INTO customers (id, name, email, image_url) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
				orNewID(c.ID), c.Name, c.Email, c.ImageURL)
			if err != nil {
				return fmt.Errorf("cliente %s: %w", c.Name, err)
			}
			counts.Customers += tag.RowsAffected()
		}
		for _, inv := range data.Invoices {
			date, err := parseDate(inv.Date)
			if err != nil {
				return fmt.Errorf("factura %s: %w", inv.ID, err)
			}
			tag, err := tx.Exec(ctx,
				`INSERT INTO invoices (id, customer_id, amount, status, date) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
				orNewID(inv.ID), inv.CustomerID, inv.Amount, inv.Status, date)
			if err != nil {
				return wrapWriteErr("factura de "+inv.CustomerID, err)
			}
			counts.Invoices += tag.RowsAffected()
		}
		for _, r := range data.Revenue {
			tag, err := tx.Exec(ctx,
				`INSERT INTO revenue (month, revenue) VALUES ($1, $2) ON CONFLICT (month) DO NOTHING`,
				r.Month, r.Revenue)
			if err != nil {
				return fmt.Errorf("ingreso %s: %w", r.Month, err)
			}
			counts.Revenue += tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return SeedCounts{}, fmt.Errorf("seed: %w", err)
	}
	return counts, nil
}
