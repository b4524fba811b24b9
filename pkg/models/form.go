package models

import (
	"time"
)

// Field identifies one input of the receipt form
type Field string

const (
	FieldNombre         Field = "nombre"
	FieldApellido       Field = "apellido"
	FieldCelular        Field = "celular"
	FieldFechaEntrada   Field = "fechaEntrada"
	FieldFechaSalida    Field = "fechaSalida"
	FieldTipoHabitacion Field = "tipoHabitacion"
	FieldTotal          Field = "total"
)

// Fields lists every form input in the order it is displayed
var Fields = []Field{
	FieldNombre,
	FieldApellido,
	FieldCelular,
	FieldFechaEntrada,
	FieldFechaSalida,
	FieldTipoHabitacion,
	FieldTotal,
}

var fieldLabels = map[Field]string{
	FieldNombre:         "Nombre:",
	FieldApellido:       "Apellido:",
	FieldCelular:        "Celular:",
	FieldFechaEntrada:   "Fecha de Entrada:",
	FieldFechaSalida:    "Fecha de Salida:",
	FieldTipoHabitacion: "Tipo de Habitación:",
	FieldTotal:          "Total Abonado $",
}

// Label returns the caption shown next to the input
func (f Field) Label() string {
	return fieldLabels[f]
}

// Valid reports whether f is one of the known form inputs
func (f Field) Valid() bool {
	_, ok := fieldLabels[f]
	return ok
}

// ReceiptForm holds the raw values typed into the payment receipt form.
// Values are kept verbatim; nothing is trimmed or coerced.
type ReceiptForm struct {
	Nombre         string `json:"nombre" form:"nombre" validate:"required"`
	Apellido       string `json:"apellido" form:"apellido" validate:"required"`
	Celular        string `json:"celular" form:"celular" validate:"required,min=10"`
	FechaEntrada   string `json:"fechaEntrada" form:"fechaEntrada" validate:"required"`
	FechaSalida    string `json:"fechaSalida" form:"fechaSalida" validate:"required"`
	TipoHabitacion string `json:"tipoHabitacion" form:"tipoHabitacion" validate:"required"`
	Total          string `json:"total" form:"total" validate:"required"`
}

// Value returns the stored value for a field
func (r *ReceiptForm) Value(f Field) string {
	if p := r.slot(f); p != nil {
		return *p
	}
	return ""
}

// SetValue stores value under f. It returns false for unknown fields.
func (r *ReceiptForm) SetValue(f Field, value string) bool {
	p := r.slot(f)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (r *ReceiptForm) slot(f Field) *string {
	switch f {
	case FieldNombre:
		return &r.Nombre
	case FieldApellido:
		return &r.Apellido
	case FieldCelular:
		return &r.Celular
	case FieldFechaEntrada:
		return &r.FechaEntrada
	case FieldFechaSalida:
		return &r.FechaSalida
	case FieldTipoHabitacion:
		return &r.TipoHabitacion
	case FieldTotal:
		return &r.Total
	}
	return nil
}

// Filename is the name given to the downloaded receipt image: first and last
// name joined with no separator and no extension.
func (r *ReceiptForm) Filename() string {
	return r.Nombre + r.Apellido
}

// ErrorMap maps a failing field to the message shown beneath it
type ErrorMap map[Field]string

// Clone returns an independent copy of m
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// RoomType is one of the fixed options of the room selector
type RoomType struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RoomTypes are the options offered by the room selector, in display order
var RoomTypes = []RoomType{
	{Value: "single estandar", Label: "Single Estándar"},
	{Value: "single deluxe", Label: "Single Deluxe"},
	{Value: "doble estandar", Label: "Doble Estándar"},
	{Value: "doble deluxe", Label: "Doble Deluxe"},
	{Value: "triple deluxe", Label: "Triple Deluxe"},
	{Value: "cuadruple deluxe", Label: "Cuádruple Deluxe"},
	{Value: "apart", Label: "Apart"},
}

// RoomTypePlaceholder is the label of the empty selector option
const RoomTypePlaceholder = "Seleccione una opción"

// RoomTypeLabel returns the display label for a room value, or the value
// itself when it is not one of RoomTypes.
func RoomTypeLabel(value string) string {
	for _, rt := range RoomTypes {
		if rt.Value == value {
			return rt.Label
		}
	}
	return value
}

// DateLayout is the wire format of an HTML date input
const DateLayout = "2006-01-02"

// DisplayDate renders a date input value as dd/mm/yyyy. Values that do not
// parse are returned unchanged.
func DisplayDate(value string) string {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return value
	}
	return t.Format("02/01/2006")
}

// DisplayValue returns the text a field shows once rendered
func (r *ReceiptForm) DisplayValue(f Field) string {
	v := r.Value(f)
	switch f {
	case FieldFechaEntrada, FieldFechaSalida:
		return DisplayDate(v)
	case FieldTipoHabitacion:
		if v == "" {
			return RoomTypePlaceholder
		}
		return RoomTypeLabel(v)
	}
	return v
}
