package tableau

import "fmt"

// LimitError reports that an opt-in defensive cap on graph size was
// exceeded. Limits are off by default.
type LimitError struct {
	Kind  string // "states", "prestates" or "edges"
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("tableau %s limit of %d exceeded", e.Kind, e.Limit)
}
