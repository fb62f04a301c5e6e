package pharmacy

import (
	"math"

	"github.com/medrec/api/internal/platform/validation"
)

var CreateSchema = validation.Schema{
	validation.Field("name", validation.Required(), validation.IsType(validation.String), validation.Length(2, 200)),
	validation.Field("address", validation.Required(), validation.IsType(validation.String), validation.Length(5, 500)),
	validation.Field("phone", validation.IsType(validation.String), validation.Pattern(`^\+?[0-9 ()-]{7,20}$`)),
	validation.Field("email", validation.IsType(validation.Email)),
}

var UpdateSchema = CreateSchema.Optional()

func wholeNumber(v any) bool {
	f, ok := v.(float64)
	return ok && f == math.Trunc(f)
}

var StockSchema = validation.Schema{
	validation.Field("quantity", validation.Required(), validation.IsType(validation.Number), validation.Range(0, math.MaxInt32)),
	validation.Field("quantity", validation.Custom(wholeNumber)).WithMessage("quantity must be a whole number"),
}
