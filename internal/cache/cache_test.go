package cache

import (
	"testing"
)

func TestNew(t *testing.T) {
	m := New[string, int](100)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if got := m.Stats().Capacity; got != 100 {
		t.Errorf("Capacity = %d, want 100", got)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestMemoGetSet(t *testing.T) {
	m := New[string, int](10)
	m.Set("key1", 42)

	val, ok := m.Get("key1")
	if !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v; want 42, true", val, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) reported a hit")
	}

	m.Set("key1", 7)
	if val, _ := m.Get("key1"); val != 7 {
		t.Errorf("Get(key1) after overwrite = %d, want 7", val)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestMemoGetOrCreate(t *testing.T) {
	m := New[int, string](0)
	calls := 0
	create := func() string {
		calls++
		return "v"
	}

	for range 3 {
		if got := m.GetOrCreate(1, create); got != "v" {
			t.Fatalf("GetOrCreate = %q, want v", got)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestMemoDeleteAndClear(t *testing.T) {
	m := New[int, int](0)
	for i := range 5 {
		m.Set(i, i)
	}

	if !m.Delete(2) {
		t.Error("Delete(2) = false, want true")
	}
	if m.Delete(2) {
		t.Error("second Delete(2) = true, want false")
	}
	if m.Len() != 4 {
		t.Errorf("Len() = %d, want 4", m.Len())
	}

	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", m.Len())
	}
	if _, ok := m.Get(0); ok {
		t.Error("Get after Clear reported a hit")
	}
	// The list must be usable after Clear.
	m.Set(9, 9)
	if v, ok := m.Get(9); !ok || v != 9 {
		t.Errorf("Get(9) = %d, %v; want 9, true", v, ok)
	}
}

func TestMemoEvictsLeastRecentlyUsed(t *testing.T) {
	m := New[int, int](4)
	for i := range 4 {
		m.Set(i, i)
	}
	// Touch 0 so 1 becomes the oldest.
	m.Get(0)

	// Exceeding the limit trims to 3/4 of it.
	m.Set(4, 4)
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	for _, key := range []int{1, 2} {
		if _, ok := m.Get(key); ok {
			t.Errorf("key %d survived eviction", key)
		}
	}
	for _, key := range []int{0, 3, 4} {
		if _, ok := m.Get(key); !ok {
			t.Errorf("key %d was evicted", key)
		}
	}
	if got := m.Stats().Evictions; got != 2 {
		t.Errorf("Evictions = %d, want 2", got)
	}
}

func TestMemoStats(t *testing.T) {
	m := New[string, int](0)
	m.Set("a", 1)
	m.Get("a")
	m.Get("a")
	m.Get("b")

	s := m.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("Hits, Misses = %d, %d; want 2, 1", s.Hits, s.Misses)
	}
	if want := 2.0 / 3.0; s.HitRate != want {
		t.Errorf("HitRate = %v, want %v", s.HitRate, want)
	}
}
