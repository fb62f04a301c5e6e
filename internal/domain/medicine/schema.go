package medicine

import "github.com/medrec/api/internal/platform/validation"

var DosageForms = []any{"TABLET", "CAPSULE", "SYRUP", "INJECTION", "CREAM", "DROPS", "INHALER", "OTHER"}

var CreateSchema = validation.Schema{
	validation.Field("name", validation.Required(), validation.IsType(validation.String), validation.Length(2, 200)),
	validation.Field("description", validation.IsType(validation.String), validation.MaxLength(2000)),
	validation.Field("manufacturer", validation.IsType(validation.String), validation.MaxLength(200)),
	validation.Field("dosageForm", validation.OneOf(DosageForms...)),
	validation.Field("strength", validation.IsType(validation.String), validation.MaxLength(50)),
	validation.Field("price", validation.IsType(validation.Number), validation.Range(0, 99999999.99)),
}

var UpdateSchema = CreateSchema.Optional()
