package commandsvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rzbill/cmdring/internal/archive"
	"github.com/rzbill/cmdring/internal/device"
	"github.com/rzbill/cmdring/internal/runtime"
	"github.com/rzbill/cmdring/pkg/id"
	logpkg "github.com/rzbill/cmdring/pkg/log"
)

var (
	// ErrInvalidFilter wraps CEL compile errors.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrArchiveDisabled is returned by Archive when no archive is configured.
	ErrArchiveDisabled = errors.New("archive disabled")
)

// FilterTypeError reports a filter that does not evaluate to a bool.
type FilterTypeError struct {
	Expr string
	Type string
}

func (e *FilterTypeError) Error() string {
	return fmt.Sprintf("filter %q has type %s, want bool", e.Expr, e.Type)
}

// Service is the transport-facing facade over the runtime's device.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
	now    func() time.Time
}

// New returns a Service logging through the runtime logger.
func New(rt *runtime.Runtime) *Service { return NewWithLogger(rt, rt.Logger()) }

// NewWithLogger returns a Service using the provided logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	return &Service{rt: rt, logger: logger.With(logpkg.Component("commands")), now: time.Now}
}

// Write appends p to the command stream.
func (s *Service) Write(ctx context.Context, p []byte) (int, error) {
	return s.rt.Device().Write(ctx, p)
}

// ReadOptions selects a read window.
type ReadOptions struct {
	Offset int64
	MaxLen int
	// Wait blocks up to this long for a commit when Offset is at the end of
	// the stream.
	Wait time.Duration
}

// Read returns the bytes at opts.Offset and the offset after them. At the
// end of the stream it returns io.EOF, after waiting up to opts.Wait.
func (s *Service) Read(ctx context.Context, opts ReadOptions) ([]byte, int64, error) {
	dev := s.rt.Device()
	if opts.Wait <= 0 {
		return dev.ReadAt(ctx, opts.Offset, opts.MaxLen)
	}
	deadline := time.Now().Add(opts.Wait)
	for {
		changed := dev.Changed()
		data, next, err := dev.ReadAt(ctx, opts.Offset, opts.MaxLen)
		remaining := time.Until(deadline)
		if err == nil || !errors.Is(err, io.EOF) || remaining <= 0 {
			return data, next, err
		}
		t := time.NewTimer(remaining)
		select {
		case <-changed:
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return nil, opts.Offset, ctx.Err()
		}
		t.Stop()
	}
}

// SeekToCommand translates (cmd, cmdOffset) to a global offset.
func (s *Service) SeekToCommand(ctx context.Context, cmd, cmdOffset int) (int64, error) {
	if cmd < 0 || cmdOffset < 0 {
		return 0, fmt.Errorf("seek to command %d offset %d: %w", cmd, cmdOffset, device.ErrInvalidArgument)
	}
	return s.rt.Device().SeekToCommand(ctx, cmd, cmdOffset)
}

// Size returns the total length of the stored commands.
func (s *Service) Size(ctx context.Context) (int64, error) {
	return s.rt.Device().TotalLength(ctx)
}

// Stats returns device counters.
func (s *Service) Stats(ctx context.Context) (device.Stats, error) {
	return s.rt.Device().Stats(ctx)
}

// ListOptions narrows List.
type ListOptions struct {
	// Filter is a CEL expression over index, offset, size, id, ts_ms,
	// text, json and now_ms.
	Filter string
	// Limit caps the result; zero means no limit.
	Limit int
}

// List returns stored commands oldest first, filtered by opts.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]device.Command, error) {
	f, err := newCELFilter(opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	cmds, err := s.rt.Device().Commands(ctx)
	if err != nil {
		return nil, err
	}
	term, _ := s.rt.Config().TerminatorByte()
	now := s.now()
	out := cmds[:0]
	for _, c := range cmds {
		if !f.Eval(c, term, now) {
			continue
		}
		out = append(out, c)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

// Since returns the stored commands committed after the command with ID
// after, oldest first. A zero ID selects every stored command. When there
// are none it waits up to wait for the next commit. Commands evicted before
// the call are skipped.
func (s *Service) Since(ctx context.Context, after id.ID, wait time.Duration) ([]device.Command, error) {
	dev := s.rt.Device()
	deadline := time.Now().Add(wait)
	for {
		changed := dev.Changed()
		cmds, err := dev.Commands(ctx)
		if err != nil {
			return nil, err
		}
		i := 0
		for i < len(cmds) && !after.IsZero() && cmds[i].ID.Compare(after) <= 0 {
			i++
		}
		remaining := time.Until(deadline)
		if i < len(cmds) || remaining <= 0 {
			return cmds[i:], nil
		}
		t := time.NewTimer(remaining)
		select {
		case <-changed:
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		}
		t.Stop()
	}
}

// Archive returns up to limit archived evictions, newest first.
func (s *Service) Archive(ctx context.Context, limit int) ([]archive.Entry, error) {
	a := s.rt.Archive()
	if a == nil {
		return nil, ErrArchiveDisabled
	}
	entries, err := a.List(ctx, limit)
	if err != nil {
		s.logger.Warn("archive list failed", logpkg.Err(err))
		return nil, err
	}
	return entries, nil
}
