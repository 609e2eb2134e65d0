// Package handler reads and validates form submissions on the server and
// renders JSON responses.
//
// ReadValidatedInput reads a JSON, urlencoded or multipart body into a
// binder.Input and runs a Validator over it. A failed validation comes back
// as Result.Failure, and BuildValidationError turns it into the 422 response
// the form client understands:
//
//	func createUser(w http.ResponseWriter, r *http.Request) {
//		res, err := handler.ReadValidatedInput(r, validateUser)
//		if err != nil {
//			handler.JSONError(handler.ErrBadRequest).Render(w, r)
//			return
//		}
//		if !res.OK() {
//			handler.BuildValidationError(res.Failure).Render(w, r)
//			return
//		}
//		// use res.Data
//	}
//
// The typed layer does the same with less code. Wrap turns a
// HandlerFunc[C, R] into an http.HandlerFunc, and Validated plugs a
// Validator in as the binder:
//
//	http.Handle("/users", handler.Validated(
//		func(ctx handler.Context, u User) handler.Response {
//			return handler.JSONRaw(created, handler.WithJSONStatus(http.StatusCreated))
//		},
//		validateUser,
//	))
//
// Errors from binders and responses go to the ErrorHandler. NewErrorHandler
// maps binder errors to 400, 413 or 415 and validation failures to 422,
// logging client errors at Warn and server errors at Error.
package handler
