package builder

import "github.com/formlane/formlane/pkg/models"

// Template is a named starter form. Steps builds a fresh copy with newly
// generated field ids on every call.
type Template struct {
	Name  string
	build func() []models.Step
}

// Steps materializes the template's steps.
func (t Template) Steps() []models.Step {
	return t.build()
}

// BuiltinTemplates returns the starter templates offered by the palette.
func BuiltinTemplates() []Template {
	return []Template{
		{
			Name: "Contact Form",
			build: func() []models.Step {
				return []models.Step{{
					labeled(models.FieldTypeText, "Full Name", true),
					labeled(models.FieldTypeEmail, "Email Address", true),
					labeled(models.FieldTypePhone, "Phone Number", false),
					labeled(models.FieldTypeTextarea, "Message", true),
				}}
			},
		},
		{
			Name: "Registration Form",
			build: func() []models.Step {
				country := labeled(models.FieldTypeDropdown, "Country", false)
				country.Options = []string{
					"United States", "United Kingdom", "India", "Germany", "Other",
				}

				return []models.Step{
					{
						labeled(models.FieldTypeText, "First Name", true),
						labeled(models.FieldTypeText, "Last Name", true),
						labeled(models.FieldTypeEmail, "Email", true),
					},
					{
						labeled(models.FieldTypePhone, "Phone Number", false),
						labeled(models.FieldTypeDate, "Date of Birth", false),
						country,
					},
				}
			},
		},
	}
}

// TemplateByName looks up a builtin template.
func TemplateByName(name string) (Template, bool) {
	for _, t := range BuiltinTemplates() {
		if t.Name == name {
			return t, true
		}
	}

	return Template{}, false
}

func labeled(fieldType models.FieldType, label string, required bool) *models.Field {
	field := models.DefaultField(fieldType)
	field.Label = label
	field.Required = required

	return field
}
