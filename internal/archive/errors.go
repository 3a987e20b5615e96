package archive

import "errors"

// ErrSessionNotFound indicates a lookup for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")
