package backendapi

import (
	"strconv"
	"strings"

	"github.com/Semerokozlyat/drom-de/internal/domain/entity"
)

func filterRows(rows []*entity.InvoiceRow, query string) []*entity.InvoiceRow {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	out := rows[:0:0]
	for _, r := range rows {
		if containsAny(q, r.Name, r.Email, strconv.FormatInt(r.Amount, 10), r.Date, r.Status) {
			out = append(out, r)
		}
	}
	return out
}

func containsAny(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
