package symptom

import "github.com/medrec/api/internal/platform/validation"

var CreateSchema = validation.Schema{
	validation.Field("name", validation.Required(), validation.IsType(validation.String), validation.Length(2, 200)),
	validation.Field("description", validation.IsType(validation.String), validation.MaxLength(2000)),
	validation.Field("severity", validation.OneOf(Severities...)),
}

var UpdateSchema = CreateSchema.Optional()
