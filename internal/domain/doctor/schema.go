package doctor

import "github.com/medrec/api/internal/platform/validation"

var CreateSchema = validation.Schema{
	validation.Field("userId", validation.Required(), validation.IsType(validation.Number), validation.Min(1)),
	validation.Field("specialization", validation.Required(), validation.IsType(validation.String), validation.Length(2, 100)),
	validation.Field("licenseNumber", validation.Required(), validation.IsType(validation.String), validation.Pattern(`^[A-Z0-9-]{4,50}$`)).
		WithMessage("licenseNumber must be 4-50 uppercase letters, digits or dashes"),
	validation.Field("phone", validation.IsType(validation.String), validation.Pattern(`^\+?[0-9 ()-]{7,20}$`)),
	validation.Field("yearsOfExperience", validation.IsType(validation.Number), validation.Range(0, 80)),
}

var UpdateSchema = CreateSchema.Optional()
