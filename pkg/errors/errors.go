// ================== pkg/errors/errors.go =================
package errors

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrDuplicate    = errors.New("resource already exists")
	ErrUpstream     = errors.New("upstream service failed")
)
