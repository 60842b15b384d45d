package history

import (
	"testing"

	"cropcare/internal/data/catalog"
	"cropcare/internal/engine/analysis"
)

func TestLog_PrependKeepsNewestFirst(t *testing.T) {
	log := NewLog()
	log.Prepend(analysis.Result{ID: "a"})
	log.Prepend(analysis.Result{ID: "b"})
	log.Prepend(analysis.Result{ID: "c"})

	got := log.Entries()
	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("entry %d: expected %q, got %q", i, id, got[i].ID)
		}
	}
}

func TestLog_EntriesAreCopies(t *testing.T) {
	log := NewLog()
	log.Prepend(analysis.Result{ID: "a", Crop: catalog.Tomato, Symptoms: []string{"spots"}})

	entries := log.Entries()
	entries[0].ID = "mutated"
	entries[0].Symptoms[0] = "mutated"

	again := log.Entries()
	if again[0].ID != "a" || again[0].Symptoms[0] != "spots" {
		t.Fatalf("log was mutated through a returned copy: %+v", again[0])
	}
}

func TestLog_Clear(t *testing.T) {
	log := NewLog()
	log.Prepend(analysis.Result{ID: "a"})
	log.Prepend(analysis.Result{ID: "b"})
	log.Clear()

	if log.Len() != 0 {
		t.Fatalf("expected empty log, got %d entries", log.Len())
	}
	if got := log.Entries(); len(got) != 0 {
		t.Fatalf("expected no entries, got %v", got)
	}
}
