package assembler

import (
	"bytes"
	"errors"
	"fmt"
)

// DefaultTerminator ends a command.
const DefaultTerminator = '\n'

// ErrResourceExhausted is returned when a command outgrows MaxCommandBytes.
var ErrResourceExhausted = errors.New("assembler: command buffer exhausted")

// SplitPolicy selects how terminators inside a single append are handled.
type SplitPolicy int

const (
	SplitFirst SplitPolicy = iota
	SplitEvery
)

// String returns the config name of the policy.
func (p SplitPolicy) String() string {
	switch p {
	case SplitFirst:
		return "first"
	case SplitEvery:
		return "every"
	default:
		return "unknown"
	}
}

// ParseSplitPolicy parses "first" or "every".
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	switch s {
	case "", "first":
		return SplitFirst, nil
	case "every":
		return SplitEvery, nil
	default:
		return SplitFirst, fmt.Errorf("unknown split policy %q; use first|every", s)
	}
}

// Options configures an Assembler.
type Options struct {
	// Terminator ends a command. Zero means DefaultTerminator unless
	// TerminatorSet is true, which makes NUL usable as a terminator.
	Terminator    byte
	TerminatorSet bool
	// MaxCommandBytes bounds a single command, pending or committed. Zero disables the limit.
	MaxCommandBytes int
	Policy          SplitPolicy
}

// Outcome reports the effect of one Append.
type Outcome struct {
	// Committed holds completed commands in order; each includes its terminator.
	Committed [][]byte
	// Pending is the number of bytes still waiting for a terminator.
	Pending int
}

// Assembler owns the pending command. It is not safe for concurrent use.
type Assembler struct {
	opts Options
	buf  []byte
}

// New returns an empty Assembler.
func New(opts Options) *Assembler {
	if opts.Terminator == 0 && !opts.TerminatorSet {
		opts.Terminator = DefaultTerminator
	}
	return &Assembler{opts: opts}
}

// Terminator returns the configured terminator byte.
func (a *Assembler) Terminator() byte { return a.opts.Terminator }

// Append adds p to the pending command and commits what the split policy
// allows. On error nothing changes.
func (a *Assembler) Append(p []byte) (Outcome, error) {
	if len(p) == 0 {
		return Outcome{Pending: len(a.buf)}, nil
	}
	start := len(a.buf)
	limit := a.opts.MaxCommandBytes
	if bytes.IndexByte(p, a.opts.Terminator) < 0 {
		if limit > 0 && start+len(p) > limit {
			return Outcome{Pending: start}, fmt.Errorf("pending command of %d bytes exceeds %d: %w", start+len(p), limit, ErrResourceExhausted)
		}
		a.buf = append(a.buf, p...)
		return Outcome{Pending: len(a.buf)}, nil
	}

	// Committed slices alias cand, so it must not share the pending buffer.
	cand := append(a.buf[:start:start], p...)

	var committed [][]byte
	rest := cand
	scanFrom := start
	for {
		i := bytes.IndexByte(rest[scanFrom:], a.opts.Terminator)
		if i < 0 {
			break
		}
		cut := scanFrom + i + 1
		committed = append(committed, rest[:cut:cut])
		rest = rest[cut:]
		scanFrom = 0
		if a.opts.Policy == SplitFirst {
			break
		}
	}

	if limit > 0 {
		for _, c := range committed {
			if len(c) > limit {
				return Outcome{Pending: start}, fmt.Errorf("command of %d bytes exceeds %d: %w", len(c), limit, ErrResourceExhausted)
			}
		}
		if len(rest) > limit {
			return Outcome{Pending: start}, fmt.Errorf("pending command of %d bytes exceeds %d: %w", len(rest), limit, ErrResourceExhausted)
		}
	}

	a.buf = append(a.buf[:0:0], rest...)
	return Outcome{Committed: committed, Pending: len(a.buf)}, nil
}

// Pending returns a copy of the bytes awaiting a terminator.
func (a *Assembler) Pending() []byte { return append([]byte(nil), a.buf...) }

// PendingLen returns the number of pending bytes.
func (a *Assembler) PendingLen() int { return len(a.buf) }

// Reset drops the pending command.
func (a *Assembler) Reset() { a.buf = nil }
