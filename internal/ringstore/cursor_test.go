package ringstore

import (
	"errors"
	"io"
	"testing"
)

func seedStore(t *testing.T, capacity int, cmds ...string) *Store {
	t.Helper()
	s := newTestStore(t, capacity)
	for _, c := range cmds {
		s.Insert(rec(c))
	}
	return s
}

func TestSeekToCommand(t *testing.T) {
	s := seedStore(t, 10, "write1\n", "write2\n", "write3\n")
	tests := []struct {
		cmd, off int
		want     int64
	}{
		{0, 0, 0},
		{0, 3, 3},
		{1, 0, 7},
		{2, 2, 16},
		{2, 7, 21},
	}
	for _, tt := range tests {
		got, err := SeekToCommand(s, tt.cmd, tt.off)
		if err != nil {
			t.Fatalf("(%d,%d): %v", tt.cmd, tt.off, err)
		}
		if got != tt.want {
			t.Fatalf("(%d,%d): got %d want %d", tt.cmd, tt.off, got, tt.want)
		}
	}
}

func TestSeekToCommandInvalid(t *testing.T) {
	s := seedStore(t, 4, "aa\n", "bb\n", "cc\n", "dd\n")
	if _, err := SeekToCommand(s, 5, 0); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("want ErrInvalidCommand, got %v", err)
	}
	if _, err := SeekToCommand(s, 4, 0); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("want ErrInvalidCommand for cmd == count, got %v", err)
	}
	if _, err := SeekToCommand(s, 1, 4); !errors.Is(err, ErrInvalidOffset) {
		t.Fatalf("want ErrInvalidOffset, got %v", err)
	}
	if _, err := SeekToCommand(s, 1, -1); !errors.Is(err, ErrInvalidOffset) {
		t.Fatalf("want ErrInvalidOffset for negative offset, got %v", err)
	}
}

func TestSeekThenReadReproducesCommand(t *testing.T) {
	s := seedStore(t, 3, "one\n", "two\n", "three\n", "four\n", "five\n")
	for k, want := range []string{"three\n", "four\n", "five\n"} {
		off, err := SeekToCommand(s, k, 0)
		if err != nil {
			t.Fatalf("seek %d: %v", k, err)
		}
		var got []byte
		for len(got) < len(want) {
			chunk, err := Locate(s, off, 2)
			if err != nil {
				t.Fatalf("read at %d: %v", off, err)
			}
			got = append(got, chunk...)
			off += int64(len(chunk))
		}
		if string(got) != want {
			t.Fatalf("command %d: got %q want %q", k, got, want)
		}
	}
}

func TestLocateBounds(t *testing.T) {
	s := seedStore(t, 4, "abc\n", "de\n")
	chunk, err := Locate(s, 1, 100)
	if err != nil || string(chunk) != "bc\n" {
		t.Fatalf("got %q, %v", chunk, err)
	}
	if _, err := Locate(s, s.TotalLength(), 10); err != io.EOF {
		t.Fatalf("want io.EOF at end, got %v", err)
	}
	chunk, err = Locate(s, 4, 0)
	if err != nil || len(chunk) != 0 {
		t.Fatalf("zero max should return empty chunk, got %q, %v", chunk, err)
	}
}
