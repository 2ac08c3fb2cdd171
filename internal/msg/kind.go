package msg

import "strings"

// Kind classifies a message for presentation.
type Kind string

const (
	KindError    Kind = "error"
	KindAlert    Kind = "alert"
	KindNotice   Kind = "notice"
	KindWarning  Kind = "warning"
	KindSuccess  Kind = "success"
	KindAccess   Kind = "access"
	KindCritical Kind = "critical"
)

var kinds = []Kind{
	KindError,
	KindAlert,
	KindNotice,
	KindWarning,
	KindSuccess,
	KindAccess,
	KindCritical,
}

// Kinds lists every supported kind.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind normalizes raw and reports whether it names a supported kind.
func ParseKind(raw string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if !k.Valid() {
		return "", false
	}
	return k, true
}
