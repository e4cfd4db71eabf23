package security

import (
	"errors"

	"camperplus/internal/models"
)

// ErrUnauthorized is returned when an authenticated identity's role is
// not in the allowed set for an operation
var ErrUnauthorized = errors.New("role not permitted")

// CheckRole executes the role gate: nil when role is one of allowed,
// ErrUnauthorized otherwise. It is a pure function composed by the
// handler middleware after the login gate; the guarded handler never
// runs on failure.
func CheckRole(role models.Role, allowed ...models.Role) error {
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}
	return ErrUnauthorized
}
