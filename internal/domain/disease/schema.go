package disease

import "github.com/medrec/api/internal/platform/validation"

var CreateSchema = validation.Schema{
	validation.Field("name", validation.Required(), validation.IsType(validation.String), validation.Length(2, 200)),
	validation.Field("description", validation.IsType(validation.String), validation.MaxLength(2000)),
	validation.Field("icdCode", validation.IsType(validation.String), validation.Pattern(`^[A-Z][0-9]{2}(\.[0-9A-Z]{1,4})?$`)).
		WithMessage("icdCode must be an ICD-10 code such as J10 or E11.9"),
}

var UpdateSchema = CreateSchema.Optional()
