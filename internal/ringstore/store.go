package ringstore

import (
	"errors"

	"github.com/rzbill/cmdring/pkg/id"
)

// MaxWriteOperations is the default number of commands retained.
const MaxWriteOperations = 10

var (
	// ErrInvalidCapacity is returned by New for a non-positive capacity.
	ErrInvalidCapacity = errors.New("ringstore: capacity must be positive")
	// ErrInvalidCommand reports a command index outside the stored range.
	ErrInvalidCommand = errors.New("ringstore: command index out of range")
	// ErrInvalidOffset reports an in-command offset beyond the command length.
	ErrInvalidOffset = errors.New("ringstore: command offset out of range")
)

// Record is one committed, terminator-delimited command.
type Record struct {
	ID   id.ID
	Data []byte
}

// Len returns the record size in bytes.
func (r Record) Len() int { return len(r.Data) }

// Store is a fixed-capacity ring of records.
type Store struct {
	slots []Record
	in    int
	out   int
	full  bool
}

// New returns an empty store holding at most capacity records.
func New(capacity int) (*Store, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Store{slots: make([]Record, capacity)}, nil
}

// Capacity returns N.
func (s *Store) Capacity() int { return len(s.slots) }

// Empty reports whether no record is stored.
func (s *Store) Empty() bool { return !s.full && s.in == s.out }

// Full reports whether all slots are occupied.
func (s *Store) Full() bool { return s.full }

// Cursors returns the raw in/out positions.
func (s *Store) Cursors() (in, out int) { return s.in, s.out }

func (s *Store) next(i int) int {
	i++
	if i == len(s.slots) {
		return 0
	}
	return i
}

// Count returns the number of occupied slots.
func (s *Store) Count() int {
	if s.full {
		return len(s.slots)
	}
	n := s.in - s.out
	if n < 0 {
		n += len(s.slots)
	}
	return n
}

// Insert places rec at the in cursor. If the store was full, the oldest
// record is evicted and returned with ok set; ownership passes to the caller.
func (s *Store) Insert(rec Record) (evicted Record, ok bool) {
	if s.full {
		evicted, ok = s.slots[s.out], true
		s.out = s.next(s.out)
	}
	s.slots[s.in] = rec
	s.in = s.next(s.in)
	if s.in == s.out {
		s.full = true
	}
	return evicted, ok
}

// Each visits occupied slots oldest first. fn receives the command index,
// the absolute slot and the record; returning false stops the walk.
func (s *Store) Each(fn func(index, slot int, rec Record) bool) {
	if s.Empty() {
		return
	}
	i, idx := s.out, 0
	for {
		if !fn(idx, i, s.slots[i]) {
			return
		}
		idx++
		i = s.next(i)
		if i == s.in {
			return
		}
	}
}

// Entries returns the stored records oldest first.
func (s *Store) Entries() []Record {
	out := make([]Record, 0, s.Count())
	s.Each(func(_, _ int, rec Record) bool {
		out = append(out, rec)
		return true
	})
	return out
}

// TotalLength returns the size of the virtual concatenated stream.
func (s *Store) TotalLength() int64 {
	var total int64
	s.Each(func(_, _ int, rec Record) bool {
		total += int64(rec.Len())
		return true
	})
	return total
}

// FindByOffset locates the record containing global offset off and the
// byte position within it. It reports false when the store is empty or off
// is negative or at/after TotalLength.
func (s *Store) FindByOffset(off int64) (rec Record, within int64, found bool) {
	if off < 0 {
		return Record{}, 0, false
	}
	var total int64
	s.Each(func(_, _ int, r Record) bool {
		end := total + int64(r.Len())
		if end > off {
			rec, within, found = r, off-total, true
			return false
		}
		total = end
		return true
	})
	return rec, within, found
}

// CommandIndexToSlot maps a command index (0 = oldest stored) to its slot.
func (s *Store) CommandIndexToSlot(cmd int) (int, error) {
	if cmd < 0 || cmd >= s.Count() {
		return 0, ErrInvalidCommand
	}
	return (s.out + cmd) % len(s.slots), nil
}

// Slot returns the record held at an absolute slot.
func (s *Store) Slot(slot int) Record { return s.slots[slot] }

// Reset empties the store and returns the released records oldest first.
func (s *Store) Reset() []Record {
	released := s.Entries()
	for i := range s.slots {
		s.slots[i] = Record{}
	}
	s.in, s.out, s.full = 0, 0, false
	return released
}
