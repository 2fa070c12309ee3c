package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. empty item title, non-positive duration).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the acting user does not own the checklist
// or item being read or modified. Nothing is disclosed or mutated.
var ErrForbidden = errors.New("forbidden")

// ErrPersistence marks a storage failure while writing a checklist and its
// items. It is the only failure that ends a conversation.
var ErrPersistence = errors.New("persistence failure")

// ErrWeatherUnavailable wraps every failure of the weather aggregator.
// Callers treat it as a soft failure and continue without a forecast.
var ErrWeatherUnavailable = errors.New("weather unavailable")

// ErrLocationNotFound is returned when geocoding yields no match.
var ErrLocationNotFound = errors.New("location not found")
