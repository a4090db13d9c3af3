package device

import (
	"errors"

	"github.com/rzbill/cmdring/internal/assembler"
)

var (
	// ErrResourceExhausted is returned when a command outgrows its buffer limit.
	ErrResourceExhausted = assembler.ErrResourceExhausted
	// ErrInvalidArgument reports an out-of-range seek target or offset.
	ErrInvalidArgument = errors.New("device: invalid argument")
	// ErrLockUnavailable reports that waiting for the device lock was abandoned.
	ErrLockUnavailable = errors.New("device: lock unavailable")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("device: closed")
	// ErrNotTTY is returned for ioctl requests the device does not understand.
	ErrNotTTY = errors.New("device: inappropriate ioctl for device")
)
