package patient

import "github.com/medrec/api/internal/platform/validation"

const phonePattern = `^\+?[0-9 ()-]{7,20}$`

// CreateSchema leaves userId optional: patients creating their own profile
// have it filled in, and admins are checked in pinOwner.
var CreateSchema = validation.Schema{
	validation.Field("userId", validation.IsType(validation.Number), validation.Min(1)),
	validation.Field("dateOfBirth", validation.IsType(validation.Date)),
	validation.Field("gender", validation.OneOf(Genders...)),
	validation.Field("phone", validation.IsType(validation.String), validation.Pattern(phonePattern)).
		WithMessage("phone must be a valid phone number"),
	validation.Field("address", validation.IsType(validation.String), validation.MaxLength(500)),
	validation.Field("bloodType", validation.OneOf(BloodTypes...)),
	validation.Field("emergencyContact", validation.IsType(validation.String), validation.MaxLength(255)),
}

var UpdateSchema = CreateSchema.Optional()
