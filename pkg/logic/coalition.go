package logic

import (
	"sort"
	"strings"
)

// Agent identifies a single knowing agent. Agents compare by string value
// and order lexicographically.
type Agent string

func (a Agent) String() string {
	return string(a)
}

// Coalition is a non-empty set of agents kept in canonical form: sorted and
// deduplicated. Build coalitions with NewCoalition; the zero value is
// invalid.
type Coalition []Agent

// NewCoalition returns the canonical coalition over the given agents. It
// panics with *InvariantError when no agents are given: the logic has no
// empty coalitions.
func NewCoalition(agents ...Agent) Coalition {
	if len(agents) == 0 {
		panic(&InvariantError{Reason: "coalition must contain at least one agent"})
	}
	seen := make(map[Agent]struct{}, len(agents))
	out := make(Coalition, 0, len(agents))
	for _, a := range agents {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Contains reports whether a is a member of c.
func (c Coalition) Contains(a Agent) bool {
	i := sort.Search(len(c), func(i int) bool { return c[i] >= a })
	return i < len(c) && c[i] == a
}

// SubsetOf reports whether every member of c is a member of other.
func (c Coalition) SubsetOf(other Coalition) bool {
	for _, a := range c {
		if !other.Contains(a) {
			return false
		}
	}
	return true
}

// Intersects reports whether c and other share at least one agent.
func (c Coalition) Intersects(other Coalition) bool {
	for _, a := range c {
		if other.Contains(a) {
			return true
		}
	}
	return false
}

// Equal reports whether c and other denote the same coalition.
func (c Coalition) Equal(other Coalition) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Key returns the canonical textual form of c, e.g. "{a,b}".
func (c Coalition) Key() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, a := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(a))
	}
	b.WriteByte('}')
	return b.String()
}

func (c Coalition) String() string {
	return c.Key()
}
