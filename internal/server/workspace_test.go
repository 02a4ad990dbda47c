package server

import (
	"errors"
	"testing"
	"time"

	"signal-metrics/internal/analysis"
	"signal-metrics/internal/dataset"
)

func emptyDataset(t *testing.T, name string) analysis.Dataset {
	t.Helper()
	tbl, err := dataset.New([]string{"x"}, [][]float64{{1, 2}})
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return analysis.Dataset{Name: name, Table: tbl}
}

func TestWorkspaceAddSelectRemove(t *testing.T) {
	ws := NewStore().Create()

	a, err := ws.Add(emptyDataset(t, "a"), "a.csv", "csv")
	if err != nil {
		t.Fatalf("Add a: %v", err)
	}
	b, err := ws.Add(emptyDataset(t, "b"), "b.csv", "csv")
	if err != nil {
		t.Fatalf("Add b: %v", err)
	}
	if _, err := ws.Add(emptyDataset(t, "c"), "c.csv", "csv"); !errors.Is(err, ErrWorkspaceFull) {
		t.Fatalf("third Add err = %v, want ErrWorkspaceFull", err)
	}

	all, err := ws.Select(nil)
	if err != nil || len(all) != 2 || all[0].Name != "a" {
		t.Fatalf("Select(nil) = %v, %v", all, err)
	}
	picked, err := ws.Select([]string{b.ID, a.ID})
	if err != nil || picked[0].Name != "b" {
		t.Fatalf("Select order = %v, %v", picked, err)
	}
	if _, err := ws.Select([]string{"nope"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Select unknown err = %v, want ErrNotFound", err)
	}

	if !ws.Remove(a.ID) || ws.Remove(a.ID) {
		t.Fatalf("Remove should succeed once")
	}
	if got := ws.List(); len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("List after remove = %v", got)
	}
}

func TestStoreGetOrCreate(t *testing.T) {
	s := NewStore()
	first := s.GetOrCreate("")
	if again := s.GetOrCreate(first.ID); again != first {
		t.Fatalf("known id should return the same workspace")
	}
	if other := s.GetOrCreate("stale-cookie"); other == first || other.ID == "stale-cookie" {
		t.Fatalf("unknown id should create a fresh workspace")
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
}

func TestStorePrune(t *testing.T) {
	s := NewStore()
	old := s.Create()
	fresh := s.Create()

	now := time.Now()
	old.touch(now.Add(-2 * time.Hour))
	fresh.touch(now)

	if n := s.Prune(now, time.Hour); n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
	if s.Get(old.ID) != nil || s.Get(fresh.ID) == nil {
		t.Fatalf("wrong workspace pruned")
	}
}
