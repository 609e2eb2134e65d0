// Package form is a client-side form state controller.
//
// A Form holds field values seeded from an initial snapshot, per-field error
// messages and the status of the current submission. Submitting picks the
// wire format from the values themselves: when a *File appears anywhere the
// body is multipart/form-data with bracket-notated keys and upload progress,
// otherwise it is JSON, or query parameters for GET.
//
//	f := form.New(map[string]any{"email": "", "password": "", "avatar": nil},
//		form.WithBaseURL("http://localhost:8080"),
//	)
//	f.Set("email", "a@b.com")
//	f.Set("password", "short")
//
//	f.Post(ctx, "/users",
//		form.OnSuccess(func(r *form.Response) { f.Reset() }),
//		form.OnError(func(err error) { log.Println(err) }),
//	)
//	f.Error("password") // "Password must be at least 8 characters"
//
// A 422 response shaped as {"data":{"errors":[{"field":..,"message":..}]}}
// replaces the form errors. Cancelling ctx aborts the submission: only
// OnFinish runs. Subscribe delivers change notifications to UI bindings.
package form
