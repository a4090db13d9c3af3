package archive

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rzbill/cmdring/internal/ringstore"
	pebblestore "github.com/rzbill/cmdring/internal/storage/pebble"
	logpkg "github.com/rzbill/cmdring/pkg/log"
)

// Options configures an Archive.
type Options struct {
	// MaxEntries bounds the archive; zero keeps everything.
	MaxEntries uint64
	Logger     logpkg.Logger
	// Now stamps evictions. Defaults to time.Now.
	Now func() time.Time
}

// Archive stores evicted records in Pebble.
type Archive struct {
	db     *pebblestore.DB
	opts   Options
	logger logpkg.Logger

	mu       sync.Mutex
	firstSeq uint64
	lastSeq  uint64
}

// New opens an archive over db, loading the sequence range already stored.
func New(db *pebblestore.DB, opts Options) (*Archive, error) {
	if db == nil {
		return nil, errors.New("archive: nil db")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	a := &Archive{db: db, opts: opts, logger: logger.With(logpkg.Component("archive"))}

	meta, err := db.Get(metaKey)
	switch {
	case err == nil && len(meta) >= 8:
		a.lastSeq = binary.BigEndian.Uint64(meta[:8])
	case err != nil && !errors.Is(err, pebblestore.ErrNotFound):
		return nil, fmt.Errorf("archive: load meta: %w", err)
	}
	err = db.ScanPrefix(entryPrefix, false, func(k, _ []byte) bool {
		a.firstSeq, _ = SeqFromKey(k)
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("archive: load first entry: %w", err)
	}
	if a.firstSeq == 0 {
		a.firstSeq = a.lastSeq + 1
	}
	return a, nil
}

// EmitEvicted archives recs in order. Failures are logged; the device has
// already released the records.
func (a *Archive) EmitEvicted(recs []ringstore.Record) {
	if _, err := a.Append(context.Background(), recs); err != nil {
		a.logger.Error("archive evicted commands", logpkg.Int("commands", len(recs)), logpkg.Err(err))
	}
}

// Append writes recs as one batch and returns their sequences.
func (a *Archive) Append(ctx context.Context, recs []ringstore.Record) ([]uint64, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	b := a.db.NewBatch()
	defer b.Close()

	now := a.opts.Now()
	seqs := make([]uint64, len(recs))
	seq := a.lastSeq
	for i, r := range recs {
		seq++
		val := encodeEntry(Entry{ID: r.ID, EvictedAt: now, Data: r.Data})
		if err := b.Set(KeyEntry(seq), val, nil); err != nil {
			return nil, err
		}
		seqs[i] = seq
	}
	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], seq)
	if err := b.Set(metaKey, meta[:], nil); err != nil {
		return nil, err
	}

	first := a.firstSeq
	if limit := a.opts.MaxEntries; limit > 0 && seq-first+1 > limit {
		newFirst := seq - limit + 1
		if err := b.DeleteRange(KeyEntry(first), KeyEntry(newFirst), nil); err != nil {
			return nil, err
		}
		first = newFirst
	}
	if err := a.db.CommitBatch(ctx, b); err != nil {
		return nil, fmt.Errorf("archive: commit: %w", err)
	}
	if first != a.firstSeq {
		a.logger.Debug("trimmed archive", logpkg.F("from", a.firstSeq), logpkg.F("to", first))
	}
	a.lastSeq, a.firstSeq = seq, first
	return seqs, nil
}

// Len returns the number of archived entries.
func (a *Archive) Len() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSeq + 1 - a.firstSeq
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (a *Archive) List(ctx context.Context, limit int) ([]Entry, error) {
	var (
		out     []Entry
		scanErr error
	)
	err := a.db.ScanPrefix(entryPrefix, true, func(k, v []byte) bool {
		if scanErr = ctx.Err(); scanErr != nil {
			return false
		}
		seq, ok := SeqFromKey(k)
		if !ok {
			return true
		}
		e, err := decodeEntry(seq, v)
		if err != nil {
			scanErr = fmt.Errorf("entry %d: %w", seq, err)
			return false
		}
		out = append(out, e)
		return limit <= 0 || len(out) < limit
	})
	if err != nil {
		return nil, err
	}
	return out, scanErr
}

// Purge removes every archived entry.
func (a *Archive) Purge(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.db.DeleteRange(ctx, entryPrefix, pebblestore.PrefixEnd(entryPrefix)); err != nil {
		return err
	}
	a.firstSeq = a.lastSeq + 1
	return a.db.CompactRange(rootPrefix, pebblestore.PrefixEnd(rootPrefix))
}
