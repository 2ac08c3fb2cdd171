package msg

import "testing"

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Kind
		ok   bool
	}{
		{raw: "error", want: KindError, ok: true},
		{raw: "  Warning ", want: KindWarning, ok: true},
		{raw: "CRITICAL", want: KindCritical, ok: true},
		{raw: "session", ok: false},
		{raw: "", ok: false},
	}
	for _, tc := range tests {
		got, ok := ParseKind(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseKind(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestKindsReturnsCopy(t *testing.T) {
	t.Parallel()

	all := Kinds()
	if len(all) != 7 {
		t.Fatalf("len(Kinds()) = %d, want 7", len(all))
	}
	all[0] = "mutated"
	if Kinds()[0] != KindError {
		t.Fatalf("Kinds() exposed internal slice")
	}
}

func TestFilterMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		kind   Kind
		want   bool
	}{
		{name: "zero matches all", filter: Filter{}, kind: KindNotice, want: true},
		{name: "only hit", filter: Only(KindError), kind: KindError, want: true},
		{name: "only miss", filter: Only(KindError), kind: KindAlert, want: false},
		{name: "only any of", filter: Only(KindError, KindAlert), kind: KindAlert, want: true},
		{name: "except hit", filter: Except(KindAlert, KindWarning), kind: KindError, want: true},
		{name: "except miss", filter: Except(KindAlert, KindWarning), kind: KindWarning, want: false},
		{name: "empty only", filter: Only(), kind: KindError, want: false},
	}
	for _, tc := range tests {
		if got := tc.filter.Match(tc.kind); got != tc.want {
			t.Fatalf("%s: Match(%q) = %v, want %v", tc.name, tc.kind, got, tc.want)
		}
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	f, err := ParseFilter("error, alert")
	if err != nil {
		t.Fatalf("ParseFilter() error = %v", err)
	}
	if f.String() != "error,alert" {
		t.Fatalf("String() = %q, want %q", f.String(), "error,alert")
	}
	if !f.Match(KindAlert) || f.Match(KindNotice) {
		t.Fatalf("only filter matched wrong kinds")
	}

	inverse, err := ParseFilter("!warning")
	if err != nil {
		t.Fatalf("ParseFilter() error = %v", err)
	}
	if inverse.Match(KindWarning) || !inverse.Match(KindError) {
		t.Fatalf("inverse filter matched wrong kinds")
	}
	if inverse.String() != "!warning" {
		t.Fatalf("String() = %q, want %q", inverse.String(), "!warning")
	}

	zero, err := ParseFilter("  ")
	if err != nil {
		t.Fatalf("ParseFilter() error = %v", err)
	}
	if !zero.IsZero() {
		t.Fatalf("ParseFilter(blank) is not the zero filter")
	}

	if _, err := ParseFilter("error,bogus"); !IsArgument(err) {
		t.Fatalf("ParseFilter(bogus) error = %v, want argument error", err)
	}
}
