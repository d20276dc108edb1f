// Package errs defines the error types returned to API clients.
//
// Every error that leaves the HTTP layer is shaped as an HTTPError so
// clients always receive a consistent JSON body: a machine-readable
// code, a human-readable message and, for validation failures, a list
// of per-field errors.
package errs
