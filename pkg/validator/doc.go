// Package validator checks decoded request bodies against declarative
// per-field rules.
//
// An Object maps field names to FieldRule lists. Validate evaluates them and
// aggregates failures into ValidationErrors, which satisfies the error
// interface and formkit.IssueProvider, so a handler can return it directly
// and have it rendered as a 422 response.
//
// # Usage
//
//	signup := validator.Object{
//		"email":    {validator.String(), validator.Email()},
//		"password": {validator.String(), validator.MinLen(8), validator.MaxLen(256)},
//		"avatar":   {validator.Optional(), validator.File(), validator.MIMEType("image/*")},
//	}
//
//	http.Handle("POST /users", handler.Validated(createUser, validator.Decode[SignupRequest](signup)))
//
// Default messages can be replaced per rule:
//
//	validator.Message("Invalid email", validator.Email())
//
// Every error carries a TranslationKey such as "validation.email" together
// with TranslationValues, so messages can be localized by the caller.
//
// # Rules
//
// The lower level Rule and Apply helpers evaluate arbitrary boolean checks
// and are useful for cross-field validation after decoding:
//
//	err := validator.Apply(validator.Rule{
//		Check: func() bool { return req.Password != req.Email },
//		Error: validator.ValidationError{Field: "password", Message: "Password must differ from email"},
//	})
package validator
