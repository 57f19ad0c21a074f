package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/Semerokozlyat/drom-de/internal/application/dto"
	"github.com/Semerokozlyat/drom-de/internal/application/search"
)

type searchOptions struct {
	*rootOptions
	URL    string
	Wait   time.Duration
	Pace   time.Duration
	Fetch  string
	Cookie string
}

func newSearchCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &searchOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Simula el campo de búsqueda: cada línea de stdin es el valor actual del input",
		Long: `Cada línea leída de stdin es el contenido del campo de búsqueda en ese momento.
Las líneas que llegan dentro de la ventana de espera se agrupan y solo la última
actualiza la URL. Cada URL resultante se imprime; con --fetch además se pide el
listado al servicio.

Ejemplo:
  printf 'd\nde\ndelba\n' | adminctl search --pace 100ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.URL, "url", "/dashboard/invoices", "URL inicial (path + query)")
	cmd.Flags().DurationVar(&opts.Wait, "wait", search.DefaultWait, "ventana de espera del debounce")
	cmd.Flags().DurationVar(&opts.Pace, "pace", 0, "pausa entre líneas (simula la velocidad de tecleo)")
	cmd.Flags().StringVar(&opts.Fetch, "fetch", "", "URL base del servicio para pedir cada listado")
	cmd.Flags().StringVar(&opts.Cookie, "cookie", "", "token de sesión para --fetch")
	return cmd
}

func runSearch(cmd *cobra.Command, opts *searchOptions) error {
	out := cmd.OutOrStdout()
	var (
		mu     sync.Mutex
		closed bool
		errs   []error
	)
	client := &http.Client{Timeout: 10 * time.Second}

	s, err := search.NewSync(opts.URL, opts.Wait, func(next string) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		fmt.Fprintln(out, next)
		if opts.Fetch == "" {
			return
		}
		line, err := fetchList(client, opts, next)
		if err != nil {
			errs = append(errs, err)
			return
		}
		fmt.Fprintln(out, "  "+line)
	})
	if err != nil {
		return fmt.Errorf("url inicial: %w", err)
	}

	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		term := strings.TrimRight(sc.Text(), "\r")
		if opts.Verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "input: %q\n", term)
		}
		s.OnInput(term)
		if opts.Pace > 0 {
			time.Sleep(opts.Pace)
		}
	}
	if err := sc.Err(); err != nil {
		s.Close()
		return err
	}

	// Deja correr el último efecto pendiente antes de cerrar.
	time.Sleep(opts.Wait + 50*time.Millisecond)
	s.Close()

	mu.Lock()
	defer mu.Unlock()
	closed = true
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// fetchList pide el listado y resume la respuesta en una línea.
func fetchList(client *http.Client, opts *searchOptions, path string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, strings.TrimRight(opts.Fetch, "/")+path, nil)
	if err != nil {
		return "", err
	}
	if opts.Cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: opts.Cookie})
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("fetch %s: status %d", path, resp.StatusCode)
	}
	var list dto.InvoiceListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", fmt.Errorf("fetch %s: %w", path, err)
	}
	return fmt.Sprintf("%d facturas (página %d de %d)", len(list.Invoices), list.Page, list.TotalPages), nil
}
