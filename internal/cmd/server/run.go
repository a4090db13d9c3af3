package serverrun

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cfgpkg "github.com/rzbill/cmdring/internal/config"
	"github.com/rzbill/cmdring/internal/runtime"
	grpcserver "github.com/rzbill/cmdring/internal/server/grpc"
	httpserver "github.com/rzbill/cmdring/internal/server/http"
	logpkg "github.com/rzbill/cmdring/pkg/log"
)

// Options configures Run.
type Options struct {
	// DataDir overrides Config.DataDir; the archive lives under
	// <data dir>/archive.
	DataDir  string
	GRPCAddr string
	HTTPAddr string
	Config   cfgpkg.Config
	// Logger overrides the logger built from Config.Log.
	Logger logpkg.Logger
}

// Run starts the gRPC and HTTP servers and blocks until ctx is cancelled
// or a termination signal arrives.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	procLogger := opts.Logger
	if procLogger == nil {
		l, err := logpkg.ApplyConfig(&opts.Config.Log)
		if err != nil {
			return err
		}
		procLogger = l
	}
	// Pebble logs through the standard library.
	logpkg.RedirectStdLog(procLogger)

	rt, err := runtime.Open(runtime.Options{
		DataDir: opts.Config.ArchiveDir(opts.DataDir),
		Config:  opts.Config,
		Logger:  procLogger,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("Starting cmdring server",
		logpkg.Str("grpc", opts.GRPCAddr),
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Int("capacity", opts.Config.Capacity),
		logpkg.Bool("archive", opts.Config.Archive.Enabled),
		logpkg.Str("level", opts.Config.Log.Level),
	)

	gsrv := grpcserver.New(rt)
	hsrv := httpserver.New(rt, procLogger)

	errCh := make(chan error, 2)
	var wg sync.WaitGroup
	serve := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil && sctx.Err() == nil {
				procLogger.Error("server stopped", logpkg.Str("transport", name), logpkg.Err(err))
				errCh <- err
			}
		}()
	}
	if opts.GRPCAddr != "" {
		serve("grpc", func() error { return gsrv.ListenAndServe(sctx, opts.GRPCAddr) })
	}
	if opts.HTTPAddr != "" {
		serve("http", func() error { return hsrv.ListenAndServe(sctx, opts.HTTPAddr) })
	}

	var runErr error
	select {
	case <-sctx.Done():
	case runErr = <-errCh:
		stop()
	}
	// Stop transports before the runtime closes the device.
	gsrv.Close()
	hsrv.Close()
	wg.Wait()
	procLogger.Info("cmdring server stopped")
	return runErr
}
