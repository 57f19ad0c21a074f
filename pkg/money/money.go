// Package money formatea importes en unidades menores (centavos) para mostrarlos en el panel.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FromCents convierte centavos a unidades mayores sin pasar por float.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatCents devuelve el importe como moneda USD, ej: 17625 → "$176.25".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	f, _ := FromCents(cents).Float64()
	return sign + "$" + printer.Sprint(number.Decimal(f, number.Scale(2)))
}
