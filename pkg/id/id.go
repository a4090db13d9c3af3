package id

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// ID is a 128-bit sortable identifier.
type ID [16]byte

// Zero is the empty ID.
var Zero ID

// Bytes returns a copy of the 16-byte representation.
func (i ID) Bytes() []byte { b := make([]byte, 16); copy(b, i[:]); return b }

// String returns the lowercase hex form.
func (i ID) String() string { return hex.EncodeToString(i[:]) }

// Time returns the millisecond timestamp encoded in the ID.
func (i ID) Time() time.Time {
	return time.UnixMilli(int64(binary.BigEndian.Uint64(i[0:8])))
}

// Seq returns the per-millisecond sequence.
func (i ID) Seq() uint64 { return binary.BigEndian.Uint64(i[8:16]) }

// Compare returns -1, 0, 1 based on lexical comparison.
func (i ID) Compare(other ID) int { return bytes.Compare(i[:], other[:]) }

// IsZero reports whether i is the empty ID.
func (i ID) IsZero() bool { return i == Zero }

// Parse decodes the hex form produced by String.
func Parse(s string) (ID, error) {
	var out ID
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("parse id: %w", err)
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("parse id: want %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

// FromBytes copies a 16-byte slice into an ID.
func FromBytes(b []byte) (ID, bool) {
	var out ID
	if len(b) != len(out) {
		return out, false
	}
	copy(out[:], b)
	return out, true
}

// Generator produces monotonically increasing IDs per process.
type Generator struct {
	mu       sync.Mutex
	now      func() int64
	lastMs   int64
	sequence uint64
}

// NewGenerator creates a Generator backed by the wall clock.
func NewGenerator() *Generator {
	return NewGeneratorWithClock(func() int64 { return time.Now().UnixMilli() })
}

// NewGeneratorWithClock creates a Generator reading milliseconds from now.
func NewGeneratorWithClock(now func() int64) *Generator { return &Generator{now: now} }

// Next returns a new ID. If the clock goes backwards it keeps lastMs and
// increments the sequence.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now()
	if ms <= g.lastMs {
		ms = g.lastMs
		g.sequence++
	} else {
		g.sequence = 0
	}
	g.lastMs = ms

	var out ID
	binary.BigEndian.PutUint64(out[0:8], uint64(ms))
	binary.BigEndian.PutUint64(out[8:16], g.sequence)
	return out
}
