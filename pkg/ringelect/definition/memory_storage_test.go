package definition

import (
	"testing"

	"github.com/jabolina/go-ringelect/pkg/ringelect/types"
)

func TestMemoryStorage_SetGetRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	entries := []types.StorageEntry{
		{Tick: 1, Key: "agent-0", Value: []byte("a")},
		{Tick: 1, Key: "agent-1", Value: []byte("b")},
		{Tick: 2, Key: "agent-0", Value: []byte("c")},
	}
	for _, e := range entries {
		if err := storage.Set(e); err != nil {
			t.Fatalf("Set(%v) failed: %v", e, err)
		}
	}

	got, err := storage.Get()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(got), len(entries))
	}
}

func TestMemoryStorage_GetReturnsACopy(t *testing.T) {
	storage := NewMemoryStorage()
	if err := storage.Set(types.StorageEntry{Tick: 1, Key: "k", Value: []byte("v")}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := storage.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	got[0].Key = "mutated"

	again, err := storage.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again[0].Key != "k" {
		t.Fatalf("mutating the returned slice leaked into storage: %s", again[0].Key)
	}
}
