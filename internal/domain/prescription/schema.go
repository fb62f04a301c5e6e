package prescription

import "github.com/medrec/api/internal/platform/validation"

var CreateSchema = validation.Schema{
	validation.Field("patientId", validation.Required(), validation.IsType(validation.Number), validation.Min(1)),
	validation.Field("doctorId", validation.IsType(validation.Number), validation.Min(1)),
	validation.Field("medicineId", validation.Required(), validation.IsType(validation.Number), validation.Min(1)),
	validation.Field("pharmacyId", validation.IsType(validation.Number), validation.Min(1)),
	validation.Field("dosage", validation.Required(), validation.IsType(validation.String), validation.Length(1, 100)),
	validation.Field("frequency", validation.Required(), validation.IsType(validation.String), validation.Length(1, 100)),
	validation.Field("durationDays", validation.IsType(validation.Number), validation.Range(1, 365)),
	validation.Field("instructions", validation.IsType(validation.String), validation.MaxLength(2000)),
	validation.Field("status", validation.OneOf(Statuses...)),
	validation.Field("issuedAt", validation.IsType(validation.Date)),
}

var UpdateSchema = CreateSchema.Optional()
