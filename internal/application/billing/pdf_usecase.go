package billing

import (
	"context"
	"fmt"

	"github.com/Semerokozlyat/drom-de/internal/domain"
	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
	"github.com/Semerokozlyat/drom-de/pkg/money"
)

// InvoicePDFData datos ya resueltos que necesita el generador de PDF.
type InvoicePDFData struct {
	Issuer   string
	Invoice  entity.Invoice
	Customer entity.Customer
	// AmountText importe formateado como moneda (ej. "$1,234.56").
	AmountText string
}

// PDFUseCase genera la representación PDF de una factura.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	generator    InvoicePDFGenerator
	issuer       string
}

// NewPDFUseCase construye el caso de uso. issuer es el nombre que aparece como emisor.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	generator InvoicePDFGenerator,
	issuer string,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		generator:    generator,
		issuer:       issuer,
	}
}

// DownloadInvoicePDF carga factura y cliente y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	customer, err := uc.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		// Cliente borrado: la factura sigue siendo imprimible.
		customer = &entity.Customer{ID: inv.CustomerID, Name: "Cliente " + inv.CustomerID}
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, InvoicePDFData{
		Issuer:     uc.issuer,
		Invoice:    *inv,
		Customer:   *customer,
		AmountText: money.FormatCents(inv.Amount),
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	return pdfBytes, fmt.Sprintf("invoice_%s.pdf", inv.ID), nil
}
