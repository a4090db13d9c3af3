package device

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// ioctl request encoding: dir(2) | size(14) | type(8) | nr(8).
const (
	iocMagic     = 0x16
	iocSeekToNr  = 1
	iocMaxNr     = 1
	iocReadWrite = 3
	seekToSize   = 8
)

// IocSeekTo moves a handle to a command index and in-command offset. Its
// argument is a SeekTo encoded with MarshalBinary.
const IocSeekTo uint32 = iocReadWrite<<30 | seekToSize<<16 | iocMagic<<8 | iocSeekToNr

// SeekTo is the argument of IocSeekTo.
type SeekTo struct {
	WriteCmd       uint32
	WriteCmdOffset uint32
}

// MarshalBinary encodes s as two little-endian uint32s.
func (s SeekTo) MarshalBinary() ([]byte, error) {
	b := make([]byte, seekToSize)
	binary.LittleEndian.PutUint32(b[0:4], s.WriteCmd)
	binary.LittleEndian.PutUint32(b[4:8], s.WriteCmdOffset)
	return b, nil
}

// UnmarshalBinary decodes the form produced by MarshalBinary.
func (s *SeekTo) UnmarshalBinary(b []byte) error {
	if len(b) != seekToSize {
		return fmt.Errorf("seekto argument of %d bytes: %w", len(b), ErrInvalidArgument)
	}
	s.WriteCmd = binary.LittleEndian.Uint32(b[0:4])
	s.WriteCmdOffset = binary.LittleEndian.Uint32(b[4:8])
	return nil
}

// Handle is one open of the device with its own file position. Handles
// implement io.Reader, io.Writer and io.Seeker; those methods use a
// background context.
type Handle struct {
	dev *Device
	mu  sync.Mutex
	pos int64
}

// Open returns a new handle positioned at offset 0.
func (d *Device) Open() *Handle { return &Handle{dev: d} }

// Position returns the current file position.
func (h *Handle) Position() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos
}

// Read implements io.Reader.
func (h *Handle) Read(p []byte) (int, error) { return h.ReadContext(context.Background(), p) }

// ReadContext reads from the current position, stopping at the end of the
// command that contains it.
func (h *Handle) ReadContext(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	data, next, err := h.dev.ReadAt(ctx, h.pos, len(p))
	if err != nil {
		return 0, err
	}
	n := copy(p, data)
	h.pos = next
	return n, nil
}

// Write implements io.Writer. Writes always append to the command stream
// and leave the position unchanged.
func (h *Handle) Write(p []byte) (int, error) { return h.dev.Write(context.Background(), p) }

// WriteContext is Write with a caller context.
func (h *Handle) WriteContext(ctx context.Context, p []byte) (int, error) {
	return h.dev.Write(ctx, p)
}

// Seek implements io.Seeker over the fixed-size view of the current
// contents: the target must lie within [0, TotalLength].
func (h *Handle) Seek(offset int64, whence int) (int64, error) {
	return h.SeekContext(context.Background(), offset, whence)
}

// SeekContext is Seek with a caller context.
func (h *Handle) SeekContext(ctx context.Context, offset int64, whence int) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	size, err := h.dev.TotalLength(ctx)
	if err != nil {
		return h.pos, err
	}
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = h.pos + offset
	case io.SeekEnd:
		target = size + offset
	default:
		return h.pos, fmt.Errorf("seek whence %d: %w", whence, ErrInvalidArgument)
	}
	if target < 0 || target > size {
		return h.pos, fmt.Errorf("seek to %d of %d: %w", target, size, ErrInvalidArgument)
	}
	h.pos = target
	return target, nil
}

// SeekTo moves the position to byte cmdOffset of command cmd.
func (h *Handle) SeekTo(ctx context.Context, cmd, cmdOffset int) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	off, err := h.dev.SeekToCommand(ctx, cmd, cmdOffset)
	if err != nil {
		return h.pos, err
	}
	h.pos = off
	return off, nil
}

// Ioctl dispatches a device control request. Only IocSeekTo is supported.
func (h *Handle) Ioctl(ctx context.Context, req uint32, arg []byte) error {
	if (req>>8)&0xff != iocMagic || req&0xff > iocMaxNr {
		return ErrNotTTY
	}
	switch req {
	case IocSeekTo:
		var st SeekTo
		if err := st.UnmarshalBinary(arg); err != nil {
			return err
		}
		_, err := h.SeekTo(ctx, int(st.WriteCmd), int(st.WriteCmdOffset))
		return err
	default:
		return ErrNotTTY
	}
}
