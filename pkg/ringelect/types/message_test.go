package types

import "testing"

func TestIDSet_EqualityIgnoresInsertionOrder(t *testing.T) {
	a := NewIDSet(3, 1, 2)
	b := NewIDSet(1, 2, 3)
	if !a.Equal(b) {
		t.Fatalf("expected %v to equal %v", a, b)
	}
}

func TestIDSet_EqualityRespectsMembership(t *testing.T) {
	a := NewIDSet(1, 2)
	b := NewIDSet(1, 2, 3)
	if a.Equal(b) {
		t.Fatalf("did not expect %v to equal %v", a, b)
	}
}

func TestIDSet_CloneDoesNotAlias(t *testing.T) {
	a := NewIDSet(1, 2)
	b := a.Clone()
	b.Add(3)
	if a.Contains(3) {
		t.Fatalf("mutating the clone mutated the original set")
	}
}

func TestIDSet_SortedDescending(t *testing.T) {
	s := NewIDSet(0, 4, 2, 1, 3)
	got := s.SortedDescending()
	want := []int{4, 3, 2, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestKind_String(t *testing.T) {
	cases := map[Kind]string{
		Collect: "COLLECT",
		Setup:   "SETUP",
		Commit:  "COMMIT",
		Reveal:  "REVEAL",
		Choose:  "CHOOSE",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("Kind(%d).String() = %s, want %s", kind, got, want)
		}
	}
}
