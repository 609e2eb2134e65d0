// Package playground serves a demo signup endpoint that exercises the
// server side of formkit.
//
// POST /users accepts JSON, urlencoded or multipart bodies. The body is
// validated with SignupRules (or a custom Validator such as one built with
// schema.Decode). A failure renders the standard 422 body:
//
//	{"data":{"errors":[{"field":"password","message":"Password must be at least 8 characters"}]}}
//
// On success an optional avatar is saved to the upload store under
// "avatars" and the handler answers 201 {"statusCode":201,"message":"success"}.
//
//	svc := playground.NewSignupService(store, playground.WithLogger(log))
//	r.Mount("/", playground.Router(playground.RouterOptions{Signup: svc}))
package playground
