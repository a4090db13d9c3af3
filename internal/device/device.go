package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rzbill/cmdring/internal/assembler"
	"github.com/rzbill/cmdring/internal/ringstore"
	"github.com/rzbill/cmdring/pkg/id"
	logpkg "github.com/rzbill/cmdring/pkg/log"
	"golang.org/x/sync/semaphore"
)

// Options configures a Device.
type Options struct {
	// Capacity is the number of commands retained; zero means ringstore.MaxWriteOperations.
	Capacity int
	// Terminator ends a command; see assembler.Options for TerminatorSet.
	Terminator      byte
	TerminatorSet   bool
	MaxCommandBytes int
	SplitPolicy     assembler.SplitPolicy
	// Evictions receives evicted records. Optional.
	Evictions EvictionHook
	Logger    logpkg.Logger
	// IDs stamps committed records. Optional.
	IDs *id.Generator
}

// Command is a snapshot of one stored command.
type Command struct {
	Index  int
	Offset int64
	Size   int
	ID     id.ID
	Data   []byte
}

// Stats reports device counters.
type Stats struct {
	Capacity    int
	Count       int
	TotalLength int64
	Pending     int
	Commits     uint64
	Evictions   uint64
}

// Device is the shared command ring plus the pending command.
type Device struct {
	sem       *semaphore.Weighted
	store     *ringstore.Store
	pending   *assembler.Assembler
	ids       *id.Generator
	evictions EvictionHook
	logger    logpkg.Logger
	closed    bool
	commits   uint64
	evicted   uint64

	// emitMu is taken under the device lock and held while the hook runs,
	// so evictions reach the hook in commit order.
	emitMu   sync.Mutex
	emitting sync.WaitGroup

	notifyMu sync.Mutex
	notifyCh chan struct{}
}

// New builds an empty Device.
func New(opts Options) (*Device, error) {
	capacity := opts.Capacity
	if capacity == 0 {
		capacity = ringstore.MaxWriteOperations
	}
	store, err := ringstore.New(capacity)
	if err != nil {
		return nil, err
	}
	d := &Device{
		sem:   semaphore.NewWeighted(1),
		store: store,
		pending: assembler.New(assembler.Options{
			Terminator:      opts.Terminator,
			TerminatorSet:   opts.TerminatorSet,
			MaxCommandBytes: opts.MaxCommandBytes,
			Policy:          opts.SplitPolicy,
		}),
		ids:       opts.IDs,
		evictions: opts.Evictions,
		logger:    opts.Logger,
		notifyCh:  make(chan struct{}),
	}
	if d.ids == nil {
		d.ids = id.NewGenerator()
	}
	if d.evictions == nil {
		d.evictions = noopEvictions{}
	}
	if d.logger == nil {
		d.logger = logpkg.NewLogger()
	}
	d.logger = d.logger.With(logpkg.Component("device"))
	return d, nil
}

func (d *Device) lock(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrLockUnavailable, err)
	}
	if d.closed {
		d.sem.Release(1)
		return ErrClosed
	}
	return nil
}

func (d *Device) unlock() { d.sem.Release(1) }

// Write accepts all of p or fails. Completed commands are committed to
// the ring; a full ring evicts its oldest command for each commit.
func (d *Device) Write(ctx context.Context, p []byte) (int, error) {
	if err := d.lock(ctx); err != nil {
		return 0, err
	}
	out, err := d.pending.Append(p)
	if err != nil {
		d.unlock()
		d.logger.Warn("write rejected", logpkg.Int("bytes", len(p)), logpkg.Err(err))
		return 0, fmt.Errorf("write: %w", err)
	}
	var evicted []ringstore.Record
	for _, c := range out.Committed {
		if old, ok := d.store.Insert(ringstore.Record{ID: d.ids.Next(), Data: c}); ok {
			evicted = append(evicted, old)
		}
	}
	d.commits += uint64(len(out.Committed))
	d.evicted += uint64(len(evicted))
	if len(evicted) > 0 {
		d.emitMu.Lock()
		d.emitting.Add(1)
	}
	d.unlock()

	if len(out.Committed) > 0 {
		d.notify()
		d.logger.Debug("committed commands",
			logpkg.Int("commands", len(out.Committed)),
			logpkg.Int("evicted", len(evicted)),
			logpkg.Int("pending", out.Pending),
		)
	}
	if len(evicted) > 0 {
		d.evictions.EmitEvicted(evicted)
		d.emitMu.Unlock()
		d.emitting.Done()
	}
	return len(p), nil
}

// ReadAt copies at most limit bytes starting at global offset off, never
// crossing a command boundary, and returns the offset after them. It
// returns io.EOF when off is at or past the end of the stored commands.
func (d *Device) ReadAt(ctx context.Context, off int64, limit int) ([]byte, int64, error) {
	if off < 0 {
		return nil, off, fmt.Errorf("read at %d: %w", off, ErrInvalidArgument)
	}
	if err := d.lock(ctx); err != nil {
		return nil, off, err
	}
	if limit <= 0 {
		d.unlock()
		return nil, off, fmt.Errorf("read limit %d: %w", limit, ErrInvalidArgument)
	}
	chunk, err := ringstore.Locate(d.store, off, limit)
	data := append([]byte(nil), chunk...)
	d.unlock()
	if err != nil {
		return nil, off, io.EOF
	}
	return data, off + int64(len(data)), nil
}

// SeekToCommand returns the global offset of byte cmdOffset of command cmd,
// where cmd 0 is the oldest stored command.
func (d *Device) SeekToCommand(ctx context.Context, cmd, cmdOffset int) (int64, error) {
	if err := d.lock(ctx); err != nil {
		return 0, err
	}
	off, err := ringstore.SeekToCommand(d.store, cmd, cmdOffset)
	d.unlock()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return off, nil
}

// TotalLength returns the number of bytes across all stored commands.
func (d *Device) TotalLength(ctx context.Context) (int64, error) {
	if err := d.lock(ctx); err != nil {
		return 0, err
	}
	defer d.unlock()
	return d.store.TotalLength(), nil
}

// Commands returns a copy of the stored commands, oldest first.
func (d *Device) Commands(ctx context.Context) ([]Command, error) {
	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.unlock()
	out := make([]Command, 0, d.store.Count())
	var off int64
	d.store.Each(func(index, _ int, rec ringstore.Record) bool {
		out = append(out, Command{
			Index:  index,
			Offset: off,
			Size:   rec.Len(),
			ID:     rec.ID,
			Data:   append([]byte(nil), rec.Data...),
		})
		off += int64(rec.Len())
		return true
	})
	return out, nil
}

// Stats returns a consistent snapshot of the device counters.
func (d *Device) Stats(ctx context.Context) (Stats, error) {
	if err := d.lock(ctx); err != nil {
		return Stats{}, err
	}
	defer d.unlock()
	return Stats{
		Capacity:    d.store.Capacity(),
		Count:       d.store.Count(),
		TotalLength: d.store.TotalLength(),
		Pending:     d.pending.PendingLen(),
		Commits:     d.commits,
		Evictions:   d.evicted,
	}, nil
}

// Changed returns a channel closed at the next commit.
func (d *Device) Changed() <-chan struct{} {
	d.notifyMu.Lock()
	defer d.notifyMu.Unlock()
	return d.notifyCh
}

// WaitForCommit blocks until a command is committed, ctx ends, or timeout
// elapses. It reports whether a commit woke it.
func (d *Device) WaitForCommit(ctx context.Context, timeout time.Duration) bool {
	ch := d.Changed()
	if timeout <= 0 {
		select {
		case <-ch:
			return true
		case <-ctx.Done():
			return false
		}
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-ch:
		return true
	case <-ctx.Done():
		return false
	case <-t.C:
		return false
	}
}

func (d *Device) notify() {
	d.notifyMu.Lock()
	close(d.notifyCh)
	d.notifyCh = make(chan struct{})
	d.notifyMu.Unlock()
}

// Close releases every stored command and the pending command, then waits
// for eviction hook calls still in flight. Further operations fail with
// ErrClosed. Close is idempotent.
func (d *Device) Close() error {
	if err := d.lock(context.Background()); err != nil {
		if errors.Is(err, ErrClosed) {
			return nil
		}
		return err
	}
	released := d.store.Reset()
	pending := d.pending.PendingLen()
	d.pending.Reset()
	d.closed = true
	d.unlock()
	d.emitting.Wait()
	d.logger.Info("device closed",
		logpkg.Int("released", len(released)),
		logpkg.Int("pending_dropped", pending),
	)
	return nil
}
