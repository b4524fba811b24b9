package api

import (
	"embed"
	"html/template"

	"hotel-receipt/pkg/models"
	"hotel-receipt/pkg/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded HTML pages
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

var inputTypes = map[models.Field]string{
	models.FieldNombre:       "text",
	models.FieldApellido:     "text",
	models.FieldCelular:      "tel",
	models.FieldFechaEntrada: "date",
	models.FieldFechaSalida:  "date",
	models.FieldTotal:        "number",
}

type fieldView struct {
	Name   string
	Label  string
	Type   string
	Select bool
	Value  string
	Error  string
}

type formPage struct {
	HotelName   string
	HasLogo     bool
	Title       string
	SubmitLabel string
	Placeholder string
	RoomTypes   []models.RoomType
	Fields      []fieldView
}

type receiptPage struct {
	HotelName string
	Title     string
	Filename  string
	ImageURL  template.URL
	ShareURL  string
	ShortURL  string
}

func (h *Handlers) formView(session *services.Session) formPage {
	form := session.Form()
	errs := session.Errors()

	fields := make([]fieldView, 0, len(models.Fields))
	for _, f := range models.Fields {
		fields = append(fields, fieldView{
			Name:   string(f),
			Label:  f.Label(),
			Type:   inputTypes[f],
			Select: f == models.FieldTipoHabitacion,
			Value:  form.Value(f),
			Error:  errs[f],
		})
	}

	return formPage{
		HotelName:   h.config.HotelName,
		HasLogo:     h.config.LogoPath != "",
		Title:       services.FormTitle,
		SubmitLabel: services.SubmitLabel,
		Placeholder: models.RoomTypePlaceholder,
		RoomTypes:   models.RoomTypes,
		Fields:      fields,
	}
}
