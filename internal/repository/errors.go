// Package repository contains data access logic separated from HTTP
// handlers.  This file defines error values reused across repositories.
// Sentinel values let handlers distinguish failure scenarios: ErrForbidden
// means the caller may not touch a resource owned by someone else, and
// ErrNotFound means the requested row is absent.  Handlers translate them
// into 403 and 404 responses respectively.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when a user insert collides with an existing
// email address.  MySQL reports this as error 1062 (duplicate entry).
var ErrEmailExists = errors.New("email already exists")

// ErrSessionInvalid is returned when a refresh session is missing, revoked
// or expired.  Auth handlers answer it with 401.
var ErrSessionInvalid = errors.New("session invalid")
