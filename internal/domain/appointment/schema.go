package appointment

import (
	"time"

	"github.com/medrec/api/internal/platform/store"
	"github.com/medrec/api/internal/platform/validation"
)

// inFuture accepts timestamps strictly after now.
func inFuture(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	ts, ok := store.ParseTime(s)
	return ok && ts.After(time.Now())
}

var fields = validation.Schema{
	validation.Field("patientId", validation.IsType(validation.Number), validation.Min(1)),
	validation.Field("doctorId", validation.IsType(validation.Number), validation.Min(1)),
	validation.Field("scheduledAt", validation.Required(), validation.IsType(validation.Date)),
	validation.Field("status", validation.OneOf(Statuses...)),
	validation.Field("reason", validation.IsType(validation.String), validation.MaxLength(500)),
	validation.Field("notes", validation.IsType(validation.String), validation.MaxLength(2000)),
}

// CreateSchema also requires new appointments to lie in the future; past
// ones can still be edited.
var CreateSchema = append(fields[:len(fields):len(fields)],
	validation.Field("scheduledAt", validation.Custom(inFuture)).WithMessage("scheduledAt must be in the future"),
)

var UpdateSchema = fields.Optional()

var StatusSchema = validation.Schema{
	validation.Field("status", validation.Required(), validation.OneOf(Statuses...)),
}
