package cache

import "errors"

// ErrWrongType is returned when an operation targets a key whose stored
// shape doesn't match what the operation requires. The wording matches the
// teacher's storage package so anything translating these errors to a
// wire-level response can keep doing the same string match.
var ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")
