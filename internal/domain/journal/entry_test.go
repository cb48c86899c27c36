package journal

import "testing"

func TestClampMood(t *testing.T) {
	t.Parallel()

	cases := map[int]int{-3: 1, 0: 1, 1: 1, 3: 3, 5: 5, 9: 5}
	for in, want := range cases {
		if got := ClampMood(in); got != want {
			t.Fatalf("ClampMood(%d): expected %d, got %d", in, want, got)
		}
	}
}

func TestNewResolvedTagDefaultsCategory(t *testing.T) {
	t.Parallel()

	tag := NewResolvedTag("  Running ", "  ", " 🏃 ")
	if tag.Name != "Running" || tag.Category != DefaultCategory || tag.Icon != "🏃" {
		t.Fatalf("unexpected tag: %+v", tag)
	}
}

func TestResolvedTagKeyIgnoresCase(t *testing.T) {
	t.Parallel()

	a := NewResolvedTag("Running", "Sport", "")
	b := NewResolvedTag("running", "SPORT", "x")
	if a.Key() != b.Key() {
		t.Fatalf("expected equal keys, got %q and %q", a.Key(), b.Key())
	}
	if a.Key() == NewResolvedTag("Running", "Work", "").Key() {
		t.Fatal("expected different categories to produce different keys")
	}
}

func TestEntityRef(t *testing.T) {
	t.Parallel()

	persisted := PersistedRef(12)
	if id, ok := persisted.PersistedID(); !ok || id != 12 {
		t.Fatalf("expected persisted id 12, got %d %v", id, ok)
	}
	if persisted.Simulated() || persisted.String() != "12" {
		t.Fatalf("unexpected persisted ref: %s", persisted)
	}

	simulated := SimulatedRef(3)
	if _, ok := simulated.PersistedID(); ok {
		t.Fatal("simulated ref must not expose a stored id")
	}
	if !simulated.Simulated() || simulated.String() != "simulated:-3" {
		t.Fatalf("unexpected simulated ref: %s", simulated)
	}
	if simulated == PersistedRef(3) {
		t.Fatal("simulated and persisted refs with the same number must differ")
	}
}
