// Package invoice contiene el esquema de validación de los formularios de factura
// (alta y edición comparten las mismas restricciones).
package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Nombres de campo tal como llegan en el formulario.
const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

// Mensajes por campo, mostrados junto al input correspondiente.
const (
	MsgCustomerRequired = "Please select a customer."
	MsgAmountPositive   = "Please enter an amount greater than $0."
	MsgAmountTooLarge   = "Please enter a smaller amount."
	MsgStatusInvalid    = "Please select an invoice status."
)

var fieldMessages = map[string]string{
	FieldCustomerID: MsgCustomerRequired,
	FieldAmount:     MsgAmountPositive,
	FieldStatus:     MsgStatusInvalid,
}

// MaxAmountCents mayor importe representable en centavos (columna BIGINT).
const MaxAmountCents = math.MaxInt64

var (
	hundred  = decimal.NewFromInt(100)
	oneCent  = decimal.NewFromInt(1)
	maxCents = decimal.NewFromInt(MaxAmountCents)
)

// Fields formulario ya tipado y normalizado. Amount en unidades mayores (ej. dólares).
type Fields struct {
	CustomerID string          `form:"customerId" validate:"required"`
	Amount     decimal.Decimal `form:"amount" validate:"gt=0"`
	Status     string          `form:"status" validate:"required,oneof=pending paid"`
}

// AmountInCents convierte el importe a unidades menores redondeando al centavo.
// Es la única conversión ×100 del flujo; la lectura nunca vuelve a multiplicar.
func (f Fields) AmountInCents() int64 {
	return f.Amount.Mul(hundred).Round(0).IntPart()
}

// FieldErrors mensajes de validación indexados por nombre de campo.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	for _, m := range e[field] {
		if m == msg {
			return
		}
	}
	e[field] = append(e[field], msg)
}

// Validation resultado discriminado: Errors vacío implica Fields válido.
type Validation struct {
	Fields Fields
	Errors FieldErrors
}

// OK indica si el formulario pasó todas las restricciones.
func (v Validation) OK() bool {
	return len(v.Errors) == 0
}

// Schema valida formularios de factura. Seguro para uso concurrente.
type Schema struct {
	v *validator.Validate
}

// NewSchema construye el esquema registrando el nombre de formulario de cada campo
// y la conversión de decimal.Decimal para las reglas numéricas.
func NewSchema() *Schema {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return &Schema{v: v}
}

// Validate coacciona y valida los campos crudos del formulario. Nunca entra en pánico ni
// devuelve error: cualquier problema queda en Validation.Errors. "id" y "date" se ignoran.
func (s *Schema) Validate(raw map[string]any) Validation {
	errs := FieldErrors{}
	var f Fields

	if id, ok := raw[FieldCustomerID].(string); ok {
		f.CustomerID = strings.TrimSpace(id)
	} else if raw[FieldCustomerID] != nil {
		errs.add(FieldCustomerID, MsgCustomerRequired)
	}

	amount, err := coerceDecimal(raw[FieldAmount])
	if err != nil {
		errs.add(FieldAmount, MsgAmountPositive)
	}
	f.Amount = amount

	if st, ok := raw[FieldStatus].(string); ok {
		f.Status = strings.TrimSpace(st)
	}

	if err := s.v.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		errors.As(err, &verrs)
		for _, fe := range verrs {
			msg, ok := fieldMessages[fe.Field()]
			if !ok {
				msg = fmt.Sprintf("Invalid value for %s.", fe.Field())
			}
			errs.add(fe.Field(), msg)
		}
	}
	if _, bad := errs[FieldAmount]; !bad {
		checkCents(f.Amount, errs)
	}

	if len(errs) > 0 {
		return Validation{Errors: errs}
	}
	return Validation{Fields: f}
}

// checkCents exige que el importe, ya redondeado al centavo, sea al menos 1 centavo y
// quepa en int64. gt=0 solo no basta: 0.004 redondea a 0 y 1e17 desborda.
func checkCents(amount decimal.Decimal, errs FieldErrors) {
	cents := amount.Mul(hundred).Round(0)
	switch {
	case cents.LessThan(oneCent):
		errs.add(FieldAmount, MsgAmountPositive)
	case cents.GreaterThan(maxCents):
		errs.add(FieldAmount, MsgAmountTooLarge)
	}
}

// coerceDecimal acepta los tipos que puede producir un formulario o un body JSON.
// Cadena vacía o ausencia se interpretan como cero (falla luego por gt=0).
func coerceDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(x)
	case json.Number:
		return decimal.NewFromString(x.String())
	case decimal.Decimal:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, fmt.Errorf("amount: %v no es finito", x)
		}
		return decimal.NewFromFloat(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case int32:
		return decimal.NewFromInt32(x), nil
	default:
		return decimal.Zero, fmt.Errorf("amount: tipo no soportado %T", v)
	}
}
