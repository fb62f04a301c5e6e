package user

import (
	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/validation"
)

const minPasswordLen = 8

var CreateSchema = validation.Schema{
	validation.Field("email", validation.Required(), validation.IsType(validation.Email), validation.MaxLength(255)),
	validation.Field("password", validation.Required(), validation.IsType(validation.String), validation.Length(minPasswordLen, 72)),
	validation.Field("firstName", validation.Required(), validation.IsType(validation.String), validation.Length(1, 100)),
	validation.Field("lastName", validation.Required(), validation.IsType(validation.String), validation.Length(1, 100)),
	validation.Field("role", validation.Required(), validation.OneOf(auth.Roles...)),
}

var UpdateSchema = CreateSchema.Optional()

// RegisterSchema omits role; self-registered accounts are always patients.
var RegisterSchema = validation.Schema{
	CreateSchema[0], CreateSchema[1], CreateSchema[2], CreateSchema[3],
}

var LoginSchema = validation.Schema{
	validation.Field("email", validation.Required(), validation.IsType(validation.Email)),
	validation.Field("password", validation.Required(), validation.IsType(validation.String)),
}
