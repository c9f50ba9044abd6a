package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but lacks permission for the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnsupportedCurrency indicates the requested target currency has no known
// exchange rate. Not retried automatically; an upstream rate has to be added first.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ErrGuestLimitExceeded indicates a guest attempted a tip above the configured
// USD limit. This is a policy block, distinct from a validation failure: callers
// must block the completing action, never silently cap the amount.
var ErrGuestLimitExceeded = errors.New("guest limit exceeded")

// ErrInvalidRate indicates a malformed upstream exchange rate row. During a
// bulk merge the offending row is skipped; on a direct upsert it is rejected.
var ErrInvalidRate = errors.New("invalid exchange rate")

// ErrTransitionFailed indicates the transaction store rejected a status
// transition. Local state is left untouched when this error is returned.
var ErrTransitionFailed = errors.New("transaction transition failed")

// ErrUpstreamUnavailable indicates a transport-level failure (timeout, 5xx)
// from an external collaborator, as opposed to a problem with the caller's input.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")
