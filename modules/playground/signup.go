package playground

import (
	"github.com/dmitrymomot/formkit/binder"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// SignupRequest is a validated POST /users body.
type SignupRequest struct {
	Email    string             `form:"email"`
	Password string             `form:"password"`
	Avatar   *binder.FileUpload `form:"avatar"`
}

// SignupRules validates the signup body.
var SignupRules = validator.Object{
	"email": {
		validator.String(),
		validator.Message("Invalid email", validator.Email()),
	},
	"password": {
		validator.String(),
		validator.Message("Password must be at least 8 characters", validator.MinLen(8)),
		validator.Message("Password must be at most 256 characters", validator.MaxLen(256)),
	},
	"avatar": {
		validator.Optional(),
		validator.File(),
	},
}
