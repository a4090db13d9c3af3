package serverrun

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	cfgpkg "github.com/rzbill/cmdring/internal/config"
	logpkg "github.com/rzbill/cmdring/pkg/log"
)

func quiet() logpkg.Logger { return logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{})) }

func TestRunStopsOnCancel(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Archive.Enabled = true
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{
			DataDir:  t.TempDir(),
			GRPCAddr: "127.0.0.1:0",
			HTTPAddr: "127.0.0.1:0",
			Config:   cfg,
			Logger:   quiet(),
		})
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not stop")
	}
}

func TestRunUsesConfigDataDir(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Archive.Enabled = true
	cfg.DataDir = t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, Options{GRPCAddr: "127.0.0.1:0", Config: cfg, Logger: quiet()}) }()
	time.Sleep(100 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
	if info, err := os.Stat(filepath.Join(cfg.DataDir, "archive")); err != nil || !info.IsDir() {
		t.Fatalf("archive dir not created under dataDir: %v", err)
	}
}

func TestRunReportsListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = Run(ctx, Options{HTTPAddr: l.Addr().String(), Config: cfgpkg.Default(), Logger: quiet()})
	if err == nil {
		t.Fatalf("expected address in use error")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.SplitPolicy = "sometimes"
	if err := Run(context.Background(), Options{Config: cfg, Logger: quiet()}); err == nil {
		t.Fatalf("expected config error")
	}
}
