package domain

import "errors"

// ErrPropertyNotFound is returned when a property id does not exist.
var ErrPropertyNotFound = errors.New("property not found")

// ErrStoreUnavailable wraps persistent-store failures. Store errors surface
// to the caller; cache and history failures never do.
var ErrStoreUnavailable = errors.New("property store unavailable")
