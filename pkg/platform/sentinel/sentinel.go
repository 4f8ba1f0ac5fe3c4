package sentinel

import "errors"

// Sentinel errors describe facts about stored resources. Document and object
// stores return these (optionally wrapped); services translate them into
// domain errors with caller-facing messages.
//
//   - ErrNotFound: no record or object exists under the key
//   - ErrInvalidState: a conditional write found a different status than expected
//   - ErrAlreadyUsed: an insert collided with an existing key
//   - ErrUnavailable: the backend could not be reached
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrAlreadyUsed  = errors.New("already used")
	ErrUnavailable  = errors.New("unavailable")
)
