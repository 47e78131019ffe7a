// Package errs holds the typed errors shared by the domain and application layers.
//
// Every error kind comes as a sentinel (ErrValueIsRequired, ErrObjectNotFound, ...)
// plus a struct carrying the details. The struct unwraps to its sentinel, so callers
// classify with errors.Is and read details with errors.As.
package errs
