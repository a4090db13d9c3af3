package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/rzbill/cmdring/internal/archive"
	"github.com/rzbill/cmdring/internal/assembler"
	cfgpkg "github.com/rzbill/cmdring/internal/config"
	"github.com/rzbill/cmdring/internal/device"
	pebblestore "github.com/rzbill/cmdring/internal/storage/pebble"
	logpkg "github.com/rzbill/cmdring/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	// DataDir holds the eviction archive. Required only when the archive
	// is enabled.
	DataDir string
	Config  cfgpkg.Config
	Logger  logpkg.Logger
}

// Runtime owns the device and, when enabled, the archive and its store.
type Runtime struct {
	dev        *device.Device
	db         *pebblestore.DB
	archive    *archive.Archive
	storeStats *pebblestore.Counters
	config     cfgpkg.Config
	logger     logpkg.Logger
}

// Open validates the configuration and builds the device.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	term, _ := cfg.TerminatorByte()
	policy, _ := assembler.ParseSplitPolicy(cfg.SplitPolicy)

	rt := &Runtime{config: cfg, logger: logger}
	devOpts := device.Options{
		Capacity:        cfg.Capacity,
		Terminator:      term,
		TerminatorSet:   true,
		MaxCommandBytes: cfg.MaxCommandBytes,
		SplitPolicy:     policy,
		Logger:          logger,
	}
	if cfg.Archive.Enabled {
		if opts.DataDir == "" {
			return nil, errors.New("archive enabled without a data dir")
		}
		fsync, _ := pebblestore.ParseFsyncMode(cfg.Archive.Fsync)
		rt.storeStats = &pebblestore.Counters{}
		db, err := pebblestore.Open(pebblestore.Options{DataDir: opts.DataDir, Fsync: fsync, Metrics: rt.storeStats})
		if err != nil {
			return nil, err
		}
		arch, err := archive.New(db, archive.Options{MaxEntries: cfg.Archive.MaxEntries, Logger: logger})
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		rt.db, rt.archive = db, arch
		devOpts.Evictions = arch
	}
	dev, err := device.New(devOpts)
	if err != nil {
		_ = rt.db.Close()
		return nil, err
	}
	rt.dev = dev
	logger.Info("device ready",
		logpkg.Int("capacity", cfg.Capacity),
		logpkg.Str("split_policy", policy.String()),
		logpkg.Bool("archive", rt.archive != nil),
	)
	return rt, nil
}

// Close releases the device, then the archive store. Close is idempotent.
func (r *Runtime) Close() error {
	var errs []error
	if r.dev != nil {
		errs = append(errs, r.dev.Close())
	}
	if r.db != nil {
		errs = append(errs, r.db.Close())
		r.db = nil
	}
	return errors.Join(errs...)
}

// CheckHealth verifies the device lock can be taken and the archive store
// is readable.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.dev == nil {
		return errors.New("device not open")
	}
	if _, err := r.dev.TotalLength(ctx); err != nil {
		return err
	}
	if r.db == nil {
		return nil
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// Device returns the shared device.
func (r *Runtime) Device() *device.Device { return r.dev }

// Archive returns the eviction archive, or nil when it is disabled.
func (r *Runtime) Archive() *archive.Archive { return r.archive }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// StorageStats returns the archive store counters. ok is false when the
// archive is disabled.
func (r *Runtime) StorageStats() (stats pebblestore.CounterSnapshot, ok bool) {
	if r.storeStats == nil {
		return stats, false
	}
	return r.storeStats.Snapshot(), true
}

// Logger returns the runtime logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }
