// Package requestid carries a request correlation ID through HTTP servers,
// logs and outgoing client calls.
//
// Middleware accepts a client-supplied X-Request-ID when it is well formed
// and otherwise generates a UUID. The ID is stored in the request context,
// echoed in the response header and picked up by LoggerExtractor. Transport
// forwards the ID from a context to the requests made with it, so a form
// submitted from inside a handler keeps the caller's ID.
package requestid
