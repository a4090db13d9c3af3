package pebblestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = pebble.ErrNotFound

// FsyncMode defines durability behavior for write operations.
type FsyncMode int

const (
	FsyncModeUnspecified FsyncMode = iota
	// FsyncModeAlways syncs the WAL on each committed batch.
	FsyncModeAlways
	// FsyncModeInterval lets Pebble coalesce WAL syncs within FsyncInterval.
	FsyncModeInterval
	// FsyncModeNever never forces a WAL sync from the application.
	FsyncModeNever
)

func (m FsyncMode) String() string {
	switch m {
	case FsyncModeAlways:
		return "always"
	case FsyncModeInterval:
		return "interval"
	case FsyncModeNever:
		return "never"
	default:
		return ""
	}
}

// ParseFsyncMode maps the configuration spelling of a mode. The empty
// string is FsyncModeUnspecified.
func ParseFsyncMode(s string) (FsyncMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return FsyncModeUnspecified, nil
	case "always":
		return FsyncModeAlways, nil
	case "interval":
		return FsyncModeInterval, nil
	case "never":
		return FsyncModeNever, nil
	}
	return FsyncModeUnspecified, fmt.Errorf("pebble: unknown fsync mode %q", s)
}

// Options configures the Pebble store wrapper.
type Options struct {
	DataDir string
	Fsync   FsyncMode
	// FsyncInterval applies when Fsync is FsyncModeInterval; defaults to 5ms.
	FsyncInterval time.Duration
	// PebbleOptions allows advanced tuning. If nil, defaults are used.
	PebbleOptions *pebble.Options
	// Metrics observes read and commit sizes. Optional.
	Metrics MetricsHook
}

// MetricsHook is a minimal hook surface for storage observations.
type MetricsHook interface {
	ObserveRead(elapsed time.Duration, bytes int)
	ObserveBatchCommit(elapsed time.Duration, numOps int, bytes int)
}

// NoopMetrics is used when no metrics hook is provided.
type NoopMetrics struct{}

func (NoopMetrics) ObserveRead(time.Duration, int)             {}
func (NoopMetrics) ObserveBatchCommit(time.Duration, int, int) {}

// Counters is a MetricsHook that accumulates totals for stats endpoints.
type Counters struct {
	commits     atomic.Uint64
	commitOps   atomic.Uint64
	commitBytes atomic.Uint64
	reads       atomic.Uint64
	readBytes   atomic.Uint64
}

// CounterSnapshot is a point-in-time copy of Counters.
type CounterSnapshot struct {
	Commits     uint64
	CommitOps   uint64
	CommitBytes uint64
	Reads       uint64
	ReadBytes   uint64
}

func (c *Counters) ObserveRead(_ time.Duration, bytes int) {
	c.reads.Add(1)
	c.readBytes.Add(uint64(bytes))
}

func (c *Counters) ObserveBatchCommit(_ time.Duration, numOps int, bytes int) {
	c.commits.Add(1)
	c.commitOps.Add(uint64(numOps))
	c.commitBytes.Add(uint64(bytes))
}

// Snapshot returns the current totals.
func (c *Counters) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Commits:     c.commits.Load(),
		CommitOps:   c.commitOps.Load(),
		CommitBytes: c.commitBytes.Load(),
		Reads:       c.reads.Load(),
		ReadBytes:   c.readBytes.Load(),
	}
}

// DB wraps a Pebble database with an fsync policy and keyspace helpers.
type DB struct {
	inner     *pebble.DB
	writeSync bool
	metrics   MetricsHook
}

// Open creates or opens a Pebble database.
func Open(opts Options) (*DB, error) {
	if opts.DataDir == "" {
		return nil, errors.New("pebble: Options.DataDir is required")
	}
	po := opts.PebbleOptions
	if po == nil {
		po = &pebble.Options{}
	}
	switch opts.Fsync {
	case FsyncModeAlways, FsyncModeNever:
	case FsyncModeInterval:
		interval := opts.FsyncInterval
		if interval <= 0 {
			interval = 5 * time.Millisecond
		}
		po.WALMinSyncInterval = func() time.Duration { return interval }
	default:
		po.WALMinSyncInterval = func() time.Duration { return 5 * time.Millisecond }
	}

	inner, err := pebble.Open(opts.DataDir, po)
	if err != nil {
		return nil, fmt.Errorf("pebble: open %s: %w", opts.DataDir, err)
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &DB{
		inner:     inner,
		writeSync: opts.Fsync == FsyncModeAlways,
		metrics:   metrics,
	}, nil
}

// Close closes the database. Closing a nil DB is a no-op.
func (db *DB) Close() error {
	if db == nil || db.inner == nil {
		return nil
	}
	return db.inner.Close()
}

// NewBatch creates a batch for atomic multi-key updates.
func (db *DB) NewBatch() *pebble.Batch { return db.inner.NewBatch() }

// CommitBatch commits b with the configured fsync policy.
func (db *DB) CommitBatch(ctx context.Context, b *pebble.Batch) error {
	if b == nil {
		return errors.New("pebble: nil batch")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	ops, size := int(b.Count()), b.Len()
	mode := pebble.NoSync
	if db.writeSync {
		mode = pebble.Sync
	}
	err := b.Commit(mode)
	db.metrics.ObserveBatchCommit(time.Since(start), ops, size)
	return err
}

// Set writes a single key.
func (db *DB) Set(ctx context.Context, key, value []byte) error {
	b := db.inner.NewBatch()
	defer b.Close()
	if err := b.Set(key, value, nil); err != nil {
		return err
	}
	return db.CommitBatch(ctx, b)
}

// Get returns a copy of the value for key, or ErrNotFound.
func (db *DB) Get(key []byte) ([]byte, error) {
	start := time.Now()
	val, closer, err := db.inner.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	buf := append([]byte(nil), val...)
	db.metrics.ObserveRead(time.Since(start), len(buf))
	return buf, nil
}

// DeleteRange removes every key in [start, end).
func (db *DB) DeleteRange(ctx context.Context, start, end []byte) error {
	b := db.inner.NewBatch()
	defer b.Close()
	if err := b.DeleteRange(start, end, nil); err != nil {
		return err
	}
	return db.CommitBatch(ctx, b)
}

// NewIter creates a raw Pebble iterator.
func (db *DB) NewIter(opts *pebble.IterOptions) (*pebble.Iterator, error) {
	return db.inner.NewIter(opts)
}

// PrefixEnd returns the smallest key greater than every key with prefix,
// or nil when prefix is all 0xff.
func PrefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// ScanPrefix calls fn for each key under prefix in key order, or in
// reverse order when reverse is set, until fn returns false. Key and value
// are only valid during the call.
func (db *DB) ScanPrefix(prefix []byte, reverse bool, fn func(key, value []byte) bool) error {
	it, err := db.inner.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: PrefixEnd(prefix)})
	if err != nil {
		return err
	}
	start := time.Now()
	read := 0
	valid := it.First
	step := it.Next
	if reverse {
		valid, step = it.Last, it.Prev
	}
	for ok := valid(); ok; ok = step() {
		v := it.Value()
		read += len(v)
		if !fn(it.Key(), v) {
			break
		}
	}
	db.metrics.ObserveRead(time.Since(start), read)
	if err := it.Error(); err != nil {
		_ = it.Close()
		return err
	}
	return it.Close()
}

// LastKey returns a copy of the greatest key under prefix, or nil when the
// prefix is empty.
func (db *DB) LastKey(prefix []byte) ([]byte, error) {
	var last []byte
	err := db.ScanPrefix(prefix, true, func(k, _ []byte) bool {
		last = append([]byte(nil), k...)
		return false
	})
	return last, err
}

// CompactRange requests compaction of the key range [start, end).
func (db *DB) CompactRange(start, end []byte) error {
	return db.inner.Compact(start, end, true)
}
