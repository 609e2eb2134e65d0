// Package upload stores files received in multipart form submissions.
//
// Store has two implementations: LocalStore writes below a base directory and
// rejects any key that would resolve outside it; S3Store puts objects into a
// bucket of Amazon S3 or an S3-compatible service. New picks one from Config:
//
//	store, err := upload.New(ctx, cfg)
//	obj, err := store.Save(ctx, in.File("avatar"), "avatars")
//	// obj.Key is "avatars/<uuid>.png", obj.URL is the public location.
//
// Keys are generated from a random UUID and the lowercased extension of the
// sanitized client filename; the client filename is kept only as metadata.
// S3 failures are mapped to package errors such as ErrAccessDenied and
// ErrBucketNotFound.
package upload
