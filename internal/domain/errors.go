package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDuplicate is returned by the notification store when appending a record
// would violate the successful-notification uniqueness constraint, i.e. a
// concurrent caller already recorded a successful alert for the same
// (trip, warning content, warning version) triple. The dispatcher treats this
// as "already sent", not as a failure.
var ErrDuplicate = errors.New("duplicate")
