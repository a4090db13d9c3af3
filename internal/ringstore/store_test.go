package ringstore

import (
	"errors"
	"fmt"
	"testing"
)

func newTestStore(t *testing.T, capacity int) *Store {
	t.Helper()
	s, err := New(capacity)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return s
}

func rec(s string) Record { return Record{Data: []byte(s)} }

func contents(s *Store) []string {
	var out []string
	for _, r := range s.Entries() {
		out = append(out, string(r.Data))
	}
	return out
}

func TestNewRejectsBadCapacity(t *testing.T) {
	if _, err := New(0); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("want ErrInvalidCapacity, got %v", err)
	}
}

func TestInsertEvictsOldestWhenFull(t *testing.T) {
	s := newTestStore(t, 4)
	var evicted []string
	for _, c := range []string{"aa\n", "bb\n", "cc\n", "dd\n", "ee\n"} {
		if old, ok := s.Insert(rec(c)); ok {
			evicted = append(evicted, string(old.Data))
		}
	}
	got := contents(s)
	want := []string{"bb\n", "cc\n", "dd\n", "ee\n"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("contents %q want %q", got, want)
	}
	if len(evicted) != 1 || evicted[0] != "aa\n" {
		t.Fatalf("evicted %q", evicted)
	}
	slot, err := s.CommandIndexToSlot(0)
	if err != nil {
		t.Fatalf("slot: %v", err)
	}
	if string(s.Slot(slot).Data) != "bb\n" {
		t.Fatalf("command 0 is %q", s.Slot(slot).Data)
	}
}

func TestInsertNeverEvictsBeforeFull(t *testing.T) {
	s := newTestStore(t, 3)
	for i := 0; i < 3; i++ {
		if _, ok := s.Insert(rec("x\n")); ok {
			t.Fatalf("evicted on insert %d", i)
		}
	}
	if !s.Full() || s.Count() != 3 {
		t.Fatalf("want full with 3, got full=%v count=%d", s.Full(), s.Count())
	}
	in, out := s.Cursors()
	if in != out {
		t.Fatalf("full store must have in == out, got %d/%d", in, out)
	}
}

func TestRetainsMostRecentN(t *testing.T) {
	for _, capacity := range []int{1, 2, 4, 10} {
		s := newTestStore(t, capacity)
		total := 3*capacity + 1
		for i := 0; i < total; i++ {
			s.Insert(rec(fmt.Sprintf("cmd%d\n", i)))
		}
		got := contents(s)
		if len(got) != capacity {
			t.Fatalf("cap %d: want %d records, got %d", capacity, capacity, len(got))
		}
		for i, c := range got {
			want := fmt.Sprintf("cmd%d\n", total-capacity+i)
			if c != want {
				t.Fatalf("cap %d: record %d is %q want %q", capacity, i, c, want)
			}
		}
	}
}

func TestEmptyStore(t *testing.T) {
	s := newTestStore(t, 4)
	if !s.Empty() || s.Count() != 0 || s.TotalLength() != 0 {
		t.Fatalf("expected empty store")
	}
	if _, _, ok := s.FindByOffset(0); ok {
		t.Fatalf("find on empty store should fail")
	}
	if _, err := s.CommandIndexToSlot(0); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("want ErrInvalidCommand, got %v", err)
	}
}

func TestFindByOffset(t *testing.T) {
	s := newTestStore(t, 4)
	for _, c := range []string{"ab\n", "cde\n", "f\n"} {
		s.Insert(rec(c))
	}
	tests := []struct {
		off    int64
		want   string
		within int64
		found  bool
	}{
		{0, "ab\n", 0, true},
		{2, "ab\n", 2, true},
		{3, "cde\n", 0, true},
		{6, "cde\n", 3, true},
		{7, "f\n", 0, true},
		{8, "f\n", 1, true},
		{9, "", 0, false},
		{100, "", 0, false},
		{-1, "", 0, false},
	}
	for _, tt := range tests {
		r, within, ok := s.FindByOffset(tt.off)
		if ok != tt.found {
			t.Fatalf("off %d: found=%v want %v", tt.off, ok, tt.found)
		}
		if !ok {
			continue
		}
		if string(r.Data) != tt.want || within != tt.within {
			t.Fatalf("off %d: got (%q,%d) want (%q,%d)", tt.off, r.Data, within, tt.want, tt.within)
		}
	}
	if s.TotalLength() != 9 {
		t.Fatalf("total %d", s.TotalLength())
	}
	if s.TotalLength() != s.TotalLength() {
		t.Fatalf("total length not stable")
	}
}

func TestFindByOffsetWrappedFull(t *testing.T) {
	s := newTestStore(t, 3)
	for _, c := range []string{"1\n", "22\n", "333\n", "4444\n", "55555\n"} {
		s.Insert(rec(c))
	}
	// holds 333\n 4444\n 55555\n with in == out == 2
	r, within, ok := s.FindByOffset(int64(len("333\n4444\n")) + 2)
	if !ok || string(r.Data) != "55555\n" || within != 2 {
		t.Fatalf("got (%q,%d,%v)", r.Data, within, ok)
	}
	if _, _, ok := s.FindByOffset(s.TotalLength()); ok {
		t.Fatalf("offset at total length must not be found")
	}
}

func TestCommandIndexToSlotRange(t *testing.T) {
	s := newTestStore(t, 4)
	for _, c := range []string{"a\n", "b\n", "c\n", "d\n", "e\n", "f\n"} {
		s.Insert(rec(c))
	}
	for cmd := 0; cmd < 4; cmd++ {
		slot, err := s.CommandIndexToSlot(cmd)
		if err != nil {
			t.Fatalf("cmd %d: %v", cmd, err)
		}
		want := string(rune('c'+cmd)) + "\n"
		if string(s.Slot(slot).Data) != want {
			t.Fatalf("cmd %d: got %q want %q", cmd, s.Slot(slot).Data, want)
		}
	}
	for _, cmd := range []int{-1, 4, 5} {
		if _, err := s.CommandIndexToSlot(cmd); !errors.Is(err, ErrInvalidCommand) {
			t.Fatalf("cmd %d: want ErrInvalidCommand, got %v", cmd, err)
		}
	}
}

func TestReset(t *testing.T) {
	s := newTestStore(t, 2)
	s.Insert(rec("a\n"))
	s.Insert(rec("b\n"))
	s.Insert(rec("c\n"))
	released := s.Reset()
	if len(released) != 2 || string(released[0].Data) != "b\n" {
		t.Fatalf("released %v", released)
	}
	if !s.Empty() || s.TotalLength() != 0 {
		t.Fatalf("store not empty after reset")
	}
}
