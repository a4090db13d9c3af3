package pebblestore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type testMetrics struct {
	read         int
	batchCommits int
	batchOps     int
	batchBytes   int
}

func (m *testMetrics) ObserveRead(_ time.Duration, bytes int) { m.read += bytes }
func (m *testMetrics) ObserveBatchCommit(_ time.Duration, numOps int, bytes int) {
	m.batchCommits++
	m.batchOps += numOps
	m.batchBytes += bytes
}

func newTestDB(t *testing.T) (*DB, *testMetrics) {
	t.Helper()
	metrics := &testMetrics{}
	db, err := Open(Options{
		DataDir:       t.TempDir(),
		Fsync:         FsyncModeInterval,
		FsyncInterval: 2 * time.Millisecond,
		Metrics:       metrics,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, metrics
}

func TestSetGet(t *testing.T) {
	db, metrics := newTestDB(t)
	ctx := context.Background()
	if err := db.Set(ctx, []byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := db.Get([]byte("k1"))
	if err != nil || string(got) != "v1" {
		t.Fatalf("get: %q %v", got, err)
	}
	if metrics.read == 0 {
		t.Fatalf("expected read metrics to record bytes")
	}
	if _, err := db.Get([]byte("missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestBatchCommitMetrics(t *testing.T) {
	db, metrics := newTestDB(t)
	b := db.NewBatch()
	_ = b.Set([]byte("a"), []byte("1"), nil)
	_ = b.Set([]byte("b"), []byte("2"), nil)
	if err := db.CommitBatch(context.Background(), b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b.Close()
	if metrics.batchCommits != 1 || metrics.batchOps != 2 || metrics.batchBytes <= 0 {
		t.Fatalf("metrics %+v", metrics)
	}
}

func TestCommitBatchCancelled(t *testing.T) {
	db, _ := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := db.Set(ctx, []byte("k"), []byte("v")); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestScanPrefixAndDeleteRange(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := db.Set(ctx, []byte(fmt.Sprintf("p/%d", i)), []byte{byte(i)}); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	_ = db.Set(ctx, []byte("q/0"), []byte("x"))

	var keys []string
	if err := db.ScanPrefix([]byte("p/"), true, func(k, _ []byte) bool {
		keys = append(keys, string(k))
		return len(keys) < 3
	}); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if fmt.Sprint(keys) != "[p/4 p/3 p/2]" {
		t.Fatalf("reverse scan %v", keys)
	}
	last, err := db.LastKey([]byte("p/"))
	if err != nil || string(last) != "p/4" {
		t.Fatalf("last key %q %v", last, err)
	}

	if err := db.DeleteRange(ctx, []byte("p/0"), []byte("p/3")); err != nil {
		t.Fatalf("delete range: %v", err)
	}
	keys = nil
	_ = db.ScanPrefix([]byte("p/"), false, func(k, _ []byte) bool {
		keys = append(keys, string(k))
		return true
	})
	if fmt.Sprint(keys) != "[p/3 p/4]" {
		t.Fatalf("after delete %v", keys)
	}
}

func TestPrefixEnd(t *testing.T) {
	tests := []struct {
		in, want []byte
	}{
		{[]byte("a/"), []byte("a0")},
		{[]byte{0x01, 0xff}, []byte{0x02}},
		{[]byte{0xff, 0xff}, nil},
	}
	for _, tt := range tests {
		if got := PrefixEnd(tt.in); string(got) != string(tt.want) {
			t.Fatalf("PrefixEnd(%q) = %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFsyncMode(t *testing.T) {
	for _, m := range []FsyncMode{FsyncModeAlways, FsyncModeInterval, FsyncModeNever} {
		got, err := ParseFsyncMode(m.String())
		if err != nil || got != m {
			t.Fatalf("round trip %v: %v %v", m, got, err)
		}
	}
	if _, err := ParseFsyncMode("sometimes"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCountersSnapshot(t *testing.T) {
	var c Counters
	c.ObserveBatchCommit(time.Millisecond, 3, 40)
	c.ObserveBatchCommit(time.Millisecond, 1, 2)
	c.ObserveRead(time.Millisecond, 7)
	got := c.Snapshot()
	want := CounterSnapshot{Commits: 2, CommitOps: 4, CommitBytes: 42, Reads: 1, ReadBytes: 7}
	if got != want {
		t.Fatalf("snapshot: got %+v want %+v", got, want)
	}
}
