package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/infrastructure/postgres"
	"github.com/Semerokozlyat/drom-de/pkg/config"
)

// seedFile formato del JSON de datos iniciales. Las contraseñas vienen en claro
// y se hashean antes de insertar; los importes en centavos.
type seedFile struct {
	Users []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"users"`
	Customers []entity.Customer `json:"customers"`
	Invoices  []entity.Invoice  `json:"invoices"`
	Revenue   []entity.Revenue  `json:"revenue"`
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	var (
		charset string
		cost    int
	)

	cmd := &cobra.Command{
		Use:   "seed <datos.json>",
		Short: "Crea el esquema PostgreSQL y carga usuarios, clientes, facturas e ingresos",
		Long: `Crea las tablas si no existen e inserta los datos del archivo en una transacción.
Los registros ya existentes se omiten, así que puede ejecutarse varias veces.
La conexión se toma de DATABASE_URL o DB_*.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir datos: %w", err)
			}
			defer f.Close()

			data, err := readSeedData(f, charset, cost)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			counts, err := postgres.Seed(ctx, pool, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "usuarios: %d, clientes: %d, facturas: %d, ingresos: %d\n",
				counts.Users, counts.Customers, counts.Invoices, counts.Revenue)
			if opts.Verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "leídos: %d usuarios, %d clientes, %d facturas, %d meses\n",
					len(data.Users), len(data.Customers), len(data.Invoices), len(data.Revenue))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&charset, "charset", "utf-8", "codificación del archivo (utf-8|iso-8859-1)")
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "coste bcrypt para las contraseñas")
	return cmd
}

// readSeedData decodifica el archivo de datos y hashea las contraseñas.
func readSeedData(r io.Reader, charset string, cost int) (postgres.SeedData, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
	case "iso-8859-1", "iso8859-1", "latin1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return postgres.SeedData{}, fmt.Errorf("charset no soportado %q", charset)
	}

	var in seedFile
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return postgres.SeedData{}, fmt.Errorf("decodificar datos: %w", err)
	}

	out := postgres.SeedData{Customers: in.Customers, Invoices: in.Invoices, Revenue: in.Revenue}
	for _, u := range in.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
		if err != nil {
			return postgres.SeedData{}, fmt.Errorf("hash de %s: %w", u.Email, err)
		}
		out.Users = append(out.Users, entity.User{ID: u.ID, Name: u.Name, Email: u.Email, PasswordHash: string(hash)})
	}
	for _, inv := range out.Invoices {
		if !entity.IsValidInvoiceStatus(inv.Status) || inv.Amount <= 0 {
			return postgres.SeedData{}, fmt.Errorf("factura de %s inválida: amount=%d status=%q", inv.CustomerID, inv.Amount, inv.Status)
		}
	}
	return out, nil
}
