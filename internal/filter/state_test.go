package filter

import (
	"math/rand"
	"testing"

	"amtconsole/internal/model"
)

func hitState() State { return New(model.HITAttributes()) }

func checkInvariant(t *testing.T, s State) {
	t.Helper()
	act := s.Active()
	if len(act) == 0 {
		t.Fatalf("active set empty")
	}
	if s.IsActive(model.AnyKey) && len(act) > 1 {
		t.Fatalf("any active together with %v", act)
	}
	seen := map[string]bool{}
	for _, k := range act {
		if seen[k] {
			t.Fatalf("duplicate key %s in %v", k, act)
		}
		seen[k] = true
	}
}

func TestNewStartsInAnyMode(t *testing.T) {
	s := hitState()
	if !s.AnyMode() || s.Label() != "Any" || s.Text() != "" {
		t.Fatalf("unexpected initial state: active=%v label=%q", s.Active(), s.Label())
	}
}

func TestToggleInvariantHoldsForRandomSequences(t *testing.T) {
	keys := append([]string{model.AnyKey}, model.HITAttributes().Keys()...)
	rng := rand.New(rand.NewSource(42))
	s := hitState()
	for i := 0; i < 2000; i++ {
		if rng.Intn(4) == 0 {
			s = Transition(s, Search("q"))
		} else {
			s = Transition(s, Toggle(keys[rng.Intn(len(keys))]))
		}
		checkInvariant(t, s)
	}
}

func TestToggleNamedKeyMovesSearchText(t *testing.T) {
	s := Transition(hitState(), Search("hello"))
	s = Transition(s, Toggle("question"))
	if s.IsActive(model.AnyKey) {
		t.Fatalf("any still active")
	}
	if s.SearchText("question") != "hello" || s.SearchText(model.AnyKey) != "" {
		t.Fatalf("search text not moved: question=%q any=%q", s.SearchText("question"), s.SearchText(model.AnyKey))
	}
	if s.Label() != "Question" {
		t.Fatalf("label: %q", s.Label())
	}
	s = Transition(s, Toggle("answer"))
	if s.SearchText("answer") != "hello" {
		t.Fatalf("second key slot: %q", s.SearchText("answer"))
	}
	if s.Label() != "Question +" {
		t.Fatalf("label: %q", s.Label())
	}
}

func TestToggleAnyCollapsesSelection(t *testing.T) {
	s := Transition(hitState(), Toggle("id"))
	s = Transition(s, Toggle("type"))
	s = Transition(s, Search("abc"))
	s = Transition(s, Toggle(model.AnyKey))
	if !s.AnyMode() {
		t.Fatalf("active: %v", s.Active())
	}
	if s.SearchText(model.AnyKey) != "abc" {
		t.Fatalf("any slot: %q", s.SearchText(model.AnyKey))
	}
	if s.SearchText("id") != "" || s.SearchText("type") != "" {
		t.Fatalf("named slots not cleared")
	}
}

func TestToggleOffOnlyKeyFallsBackToAny(t *testing.T) {
	s := Transition(hitState(), Toggle("answer"))
	s = Transition(s, Search("x"))
	s = Transition(s, Toggle("answer"))
	if !s.AnyMode() || s.SearchText(model.AnyKey) != "" {
		t.Fatalf("active=%v any=%q", s.Active(), s.SearchText(model.AnyKey))
	}
	// switching "any" itself off lands back on "any", emptied
	s = Transition(s, Search("y"))
	s = Transition(s, Toggle(model.AnyKey))
	if !s.AnyMode() || s.Text() != "" {
		t.Fatalf("active=%v text=%q", s.Active(), s.Text())
	}
}

func TestToggleOffKeepsFirstRemainingForLabel(t *testing.T) {
	s := Transition(hitState(), Toggle("type"))
	s = Transition(s, Toggle("question"))
	s = Transition(s, Toggle("answer"))
	s = Transition(s, Toggle("type"))
	if s.Label() != "Question +" {
		t.Fatalf("label: %q", s.Label())
	}
	s = Transition(s, Toggle("answer"))
	if s.Label() != "Question" {
		t.Fatalf("label: %q", s.Label())
	}
}

func TestSearchKeepsActiveSlotsInLockStep(t *testing.T) {
	s := Transition(hitState(), Toggle("id"))
	s = Transition(s, Toggle("question"))
	s = Transition(s, Search("x"))
	for _, k := range s.Active() {
		if s.SearchText(k) != "x" {
			t.Fatalf("slot %s = %q", k, s.SearchText(k))
		}
	}
	if s.SearchText("answer") != "" {
		t.Fatalf("inactive slot written")
	}
}

func TestTransitionDoesNotMutateInput(t *testing.T) {
	before := Transition(hitState(), Toggle("id"))
	_ = Transition(before, Toggle("type"))
	_ = Transition(before, Search("zzz"))
	_ = Transition(before, ToggleColumn("id"))
	if len(before.Active()) != 1 || before.Active()[0] != "id" {
		t.Fatalf("active mutated: %v", before.Active())
	}
	if before.SearchText("id") != "" {
		t.Fatalf("search mutated")
	}
	if !before.Attributes()[0].Visible {
		t.Fatalf("visibility mutated")
	}
}

func TestToggleUnknownKeyIsIgnored(t *testing.T) {
	s := Transition(hitState(), Toggle("nope"))
	if !s.AnyMode() {
		t.Fatalf("active: %v", s.Active())
	}
}

func TestUserTableLabels(t *testing.T) {
	s := New(model.UserAttributes())
	s = Transition(s, Toggle("is_admin"))
	if s.Label() != "Admin" {
		t.Fatalf("label: %q", s.Label())
	}
}
