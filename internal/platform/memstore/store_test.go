package memstore

import (
	"errors"
	"testing"
)

func TestCollection_SeedIsCopied(t *testing.T) {
	seed := []int{1, 2, 3}
	c := New(seed)
	seed[0] = 99

	items, version := c.Snapshot()
	if items[0] != 1 {
		t.Error("seed slice must be copied")
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
}

func TestCollection_UpdateBumpsVersion(t *testing.T) {
	c := New([]string{"a"})
	err := c.Update(func(items []string) ([]string, error) {
		return append(items, "b"), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, version := c.Snapshot()
	if len(items) != 2 || version != 1 {
		t.Errorf("got %v at version %d", items, version)
	}
}

func TestCollection_ReaderSnapshotUnaffected(t *testing.T) {
	c := New([]string{"a", "b"})
	before, _ := c.Snapshot()

	_ = c.Update(func(items []string) ([]string, error) {
		items[0] = "z"
		return items[1:], nil
	})

	if before[0] != "a" || len(before) != 2 {
		t.Errorf("earlier snapshot changed: %v", before)
	}
}

func TestCollection_FailedUpdateLeavesState(t *testing.T) {
	c := New([]int{1})
	boom := errors.New("boom")
	err := c.Update(func(items []int) ([]int, error) {
		items[0] = 42
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	items, version := c.Snapshot()
	if items[0] != 1 || version != 0 {
		t.Errorf("state changed after failed update: %v v%d", items, version)
	}
}

func TestCollection_UpdateIfConflict(t *testing.T) {
	c := New([]int{})
	_, v := c.Snapshot()

	if err := c.UpdateIf(v, func(items []int) ([]int, error) { return append(items, 1), nil }); err != nil {
		t.Fatalf("first UpdateIf: %v", err)
	}
	err := c.UpdateIf(v, func(items []int) ([]int, error) { return append(items, 2), nil })
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 item, got %d", c.Len())
	}
}

func TestCollection_Find(t *testing.T) {
	c := New([]string{"x", "y"})
	got, ok := c.Find(func(s string) bool { return s == "y" })
	if !ok || got != "y" {
		t.Errorf("Find = %q, %v", got, ok)
	}
	if _, ok := c.Find(func(s string) bool { return s == "q" }); ok {
		t.Error("expected no match")
	}
}
