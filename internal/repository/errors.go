// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the booking lifecycle engine to distinguish between
// different failure scenarios. For example, ErrForbidden indicates
// that the current user is not authorized to act on a resource owned
// by someone else, while ErrConflict signals that an operation
// violates a lifecycle invariant (e.g. requesting a room that is
// already booked).
package repository

import "errors"

// ErrNotFound is returned when a referenced room, request or user
// record is absent. Handlers should translate this into an HTTP
// 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because
// of conflicting state, such as requesting a booking on a room that
// is already booked. Handlers should translate this into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")
