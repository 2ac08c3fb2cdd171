package msg

import (
	"fmt"
	"strings"
)

// Filter selects messages by kind. The zero Filter selects everything and,
// when deleting, clears the whole channel.
type Filter struct {
	kinds   []Kind
	inverse bool
	set     bool
}

// Only matches messages whose kind is one of kinds. With no kinds it matches
// nothing.
func Only(kinds ...Kind) Filter {
	return Filter{kinds: append([]Kind(nil), kinds...), set: true}
}

// Except matches messages whose kind is not one of kinds.
func Except(kinds ...Kind) Filter {
	return Filter{kinds: append([]Kind(nil), kinds...), inverse: true, set: true}
}

// IsZero reports whether f is the match-everything filter.
func (f Filter) IsZero() bool {
	return !f.set
}

// Match reports whether a message of kind k passes the filter.
func (f Filter) Match(k Kind) bool {
	if !f.set {
		return true
	}
	listed := false
	for _, candidate := range f.kinds {
		if candidate == k {
			listed = true
			break
		}
	}
	return listed != f.inverse
}

// String renders the filter in the syntax ParseFilter accepts.
func (f Filter) String() string {
	if !f.set {
		return ""
	}
	parts := make([]string, len(f.kinds))
	for i, k := range f.kinds {
		parts[i] = string(k)
	}
	joined := strings.Join(parts, ",")
	if f.inverse {
		return "!" + joined
	}
	return joined
}

// ParseFilter parses a comma separated kind list. A leading "!" inverts it:
// "error,alert" selects errors and alerts, "!warning" everything but warnings.
// An empty string is the zero Filter.
func ParseFilter(raw string) (Filter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Filter{}, nil
	}
	inverse := strings.HasPrefix(raw, "!")
	raw = strings.TrimPrefix(raw, "!")

	var parsed []Kind
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, ok := ParseKind(part)
		if !ok {
			return Filter{}, argumentError(fmt.Sprintf("unknown message kind %q", strings.TrimSpace(part)), nil)
		}
		parsed = append(parsed, k)
	}
	if inverse {
		return Except(parsed...), nil
	}
	return Only(parsed...), nil
}
