package ringstore

import (
	"fmt"
	"io"
)

// SeekToCommand returns the global offset of byte cmdOffset inside the
// command at index cmd. cmdOffset may equal the command length, which
// addresses the first byte of the following command.
func SeekToCommand(s *Store, cmd, cmdOffset int) (int64, error) {
	slot, err := s.CommandIndexToSlot(cmd)
	if err != nil {
		return 0, fmt.Errorf("seek to command %d: %w", cmd, err)
	}
	if cmdOffset < 0 || cmdOffset > s.Slot(slot).Len() {
		return 0, fmt.Errorf("seek to command %d offset %d: %w", cmd, cmdOffset, ErrInvalidOffset)
	}
	var before int64
	s.Each(func(index, _ int, rec Record) bool {
		if index == cmd {
			return false
		}
		before += int64(rec.Len())
		return true
	})
	return before + int64(cmdOffset), nil
}

// CommandStart returns the global offset of the first byte of command cmd.
func CommandStart(s *Store, cmd int) (int64, error) { return SeekToCommand(s, cmd, 0) }

// Locate returns the bytes readable at global offset off in one step:
// at most limit bytes, never crossing a record boundary. The slice aliases
// the stored record; callers copy it before releasing their lock.
// It returns io.EOF when off is at or past the end of the stream.
func Locate(s *Store, off int64, limit int) ([]byte, error) {
	rec, within, ok := s.FindByOffset(off)
	if !ok {
		return nil, io.EOF
	}
	n := rec.Len() - int(within)
	if limit < n {
		n = limit
	}
	if n < 0 {
		n = 0
	}
	return rec.Data[within : within+int64(n)], nil
}
