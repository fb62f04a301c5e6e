package medicalrecord

import "github.com/medrec/api/internal/platform/validation"

var CreateSchema = validation.Schema{
	validation.Field("patientId", validation.Required(), validation.IsType(validation.Number), validation.Min(1)),
	validation.Field("doctorId", validation.IsType(validation.Number), validation.Min(1)),
	validation.Field("diseaseId", validation.IsType(validation.Number), validation.Min(1)),
	validation.Field("diagnosis", validation.Required(), validation.IsType(validation.String), validation.Length(3, 5000)),
	validation.Field("treatment", validation.IsType(validation.String), validation.MaxLength(5000)),
	validation.Field("notes", validation.IsType(validation.String), validation.MaxLength(5000)),
	validation.Field("recordDate", validation.IsType(validation.Date)),
}

var UpdateSchema = CreateSchema.Optional()
