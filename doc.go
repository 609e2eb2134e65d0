// Package formkit provides form handling for Go HTTP applications: a
// client-side Form that tracks values, per-field errors and submission
// status, and server-side helpers that validate request bodies and answer
// with a structured 422 response the Form understands.
//
// The root package holds the types shared by both sides of the wire:
//
//   - Path, a sequence of string keys and integer indexes addressing a value
//     inside a nested payload
//   - ValidationError and ValidationErrors, a field path plus a message
//   - IssueProvider, implemented by every validator failure type
//
// Sub-packages:
//
//   - form: client-side form state and submission (JSON or multipart with
//     upload progress)
//   - binder: reads JSON, urlencoded and multipart bodies into an Input map
//   - handler: typed handlers, ReadValidatedInput and BuildValidationError
//   - pkg/validator, pkg/schema: validators producing field issues
//
// Basic server usage:
//
//	type createUser struct {
//		Email    string `form:"email"`
//		Password string `form:"password"`
//	}
//
//	var validateUser = validator.Decode[createUser](validator.Object{
//		"email":    {validator.String(), validator.Email()},
//		"password": {validator.String(), validator.MinLen(8)},
//	})
//
//	func create(w http.ResponseWriter, r *http.Request) {
//		res, err := handler.ReadValidatedInput(r, validateUser)
//		if err != nil {
//			// malformed body
//		}
//		if !res.OK() {
//			_ = handler.BuildValidationError(res.Failure).Render(w, r)
//			return
//		}
//		// res.Data holds the validated input
//	}
//
// Basic client usage:
//
//	f := form.New(map[string]any{"email": "", "password": ""})
//	f.Set("email", "a@b.com")
//	f.Post(ctx, "https://example.com/users",
//		form.OnSuccess(func(r *form.Response) { ... }),
//		form.OnError(func(err error) { fmt.Println(f.Errors()) }),
//	)
package formkit
