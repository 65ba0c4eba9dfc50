package logic

import "fmt"

// InvariantError reports a programmer error: a structurally malformed
// formula, an empty coalition, or engine state whose key no longer matches
// its contents. Constructors panic with it; recovery is not intended.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Reason)
}
