package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/binder"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Validator checks a decoded body and converts it into T. A returned error
// that exposes issues (formkit.IssueProvider) is a validation failure; any
// other error aborts the request.
type Validator[T any] func(in binder.Input) (T, error)

// Result is the outcome of validating a request body.
type Result[T any] struct {
	Data    T
	Failure formkit.ValidationErrors
	valid   bool
}

// OK reports whether validation succeeded.
func (r Result[T]) OK() bool {
	return r.valid
}

// ReadValidatedBody reads a JSON or urlencoded body and validates it.
// Multipart bodies are rejected with binder.ErrUnsupportedMediaType.
func ReadValidatedBody[T any](r *http.Request, validate Validator[T], opts ...binder.Option) (Result[T], error) {
	if binder.IsMultipart(r) {
		return Result[T]{}, fmt.Errorf("%w: multipart/form-data, use ReadValidatedInput", binder.ErrUnsupportedMediaType)
	}
	in, err := binder.Read(r, opts...)
	if err != nil {
		return Result[T]{}, err
	}
	return runValidator(in, validate)
}

// ReadValidatedInput validates any supported body. Multipart parts are read
// into an Input with file parts as *binder.FileUpload; other bodies go
// through ReadValidatedBody. A multipart body without parts is rejected.
func ReadValidatedInput[T any](r *http.Request, validate Validator[T], opts ...binder.Option) (Result[T], error) {
	if !binder.IsMultipart(r) {
		return ReadValidatedBody(r, validate, opts...)
	}
	in, err := binder.ReadMultipart(r, opts...)
	if err != nil {
		return Result[T]{}, err
	}
	if len(in) == 0 {
		return Result[T]{}, fmt.Errorf("%w: no form data received", binder.ErrInvalidForm)
	}
	return runValidator(in, validate)
}

func runValidator[T any](in binder.Input, validate Validator[T]) (Result[T], error) {
	data, err := validate(in)
	if err == nil {
		return Result[T]{Data: data, valid: true}, nil
	}
	if issues, ok := formkit.ExtractIssues(err); ok {
		return Result[T]{Failure: formkit.ValidationErrors(issues)}, nil
	}
	return Result[T]{}, err
}

// ValidationErrorBody is the 422 payload:
//
//	{"data":{"errors":[{"field":"password","message":"..."}]},
//	 "error":{"code":"validation_error","message":"Unprocessable Entity"}}
type ValidationErrorBody struct {
	Data  ValidationErrorData `json:"data"`
	Error *ErrorDetail        `json:"error"`
}

// ValidationErrorData wraps the field errors.
type ValidationErrorData struct {
	Errors []formkit.ValidationError `json:"errors"`
}

// BuildValidationError renders a validation failure as 422 Unprocessable
// Entity. Every issue keeps its path and message in order.
//
// A failure without issues is a caller bug: it is logged and rendered as a
// 500 "Something went wrong".
func BuildValidationError(failure []formkit.ValidationError) Response {
	if len(failure) == 0 {
		slog.Default().Warn("validation error built without issues",
			logger.Component("handler"),
		)
		return JSONRaw(JSONResponse{Error: &ErrorDetail{
			Code:    ErrInternalServerError.Key,
			Message: "Something went wrong",
		}}, WithJSONStatus(http.StatusInternalServerError))
	}

	errs := make([]formkit.ValidationError, len(failure))
	copy(errs, failure)
	return JSONRaw(ValidationErrorBody{
		Data: ValidationErrorData{Errors: errs},
		Error: &ErrorDetail{
			Code:    "validation_error",
			Message: http.StatusText(http.StatusUnprocessableEntity),
		},
	}, WithJSONStatus(http.StatusUnprocessableEntity))
}
