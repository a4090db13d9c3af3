package archive

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rzbill/cmdring/internal/device"
	"github.com/rzbill/cmdring/internal/ringstore"
	pebblestore "github.com/rzbill/cmdring/internal/storage/pebble"
	"github.com/rzbill/cmdring/pkg/id"
	logpkg "github.com/rzbill/cmdring/pkg/log"
)

var _ device.EvictionHook = (*Archive)(nil)

func quietLogger() logpkg.Logger {
	return logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
}

func openDB(t *testing.T, dir string) *pebblestore.DB {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return db
}

func newArchive(t *testing.T, opts Options) *Archive {
	t.Helper()
	db := openDB(t, t.TempDir())
	t.Cleanup(func() { _ = db.Close() })
	opts.Logger = quietLogger()
	a, err := New(db, opts)
	if err != nil {
		t.Fatalf("new archive: %v", err)
	}
	return a
}

func records(gen *id.Generator, data ...string) []ringstore.Record {
	out := make([]ringstore.Record, len(data))
	for i, d := range data {
		out[i] = ringstore.Record{ID: gen.Next(), Data: []byte(d)}
	}
	return out
}

func texts(entries []Entry) string {
	s := make([]string, len(entries))
	for i, e := range entries {
		s[i] = string(e.Data)
	}
	return fmt.Sprint(s)
}

func TestListNewestFirst(t *testing.T) {
	stamp := time.UnixMilli(1_700_000_000_000)
	a := newArchive(t, Options{Now: func() time.Time { return stamp }})
	gen := id.NewGenerator()
	recs := records(gen, "a\n", "b\n", "c\n")
	seqs, err := a.Append(context.Background(), recs)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if fmt.Sprint(seqs) != "[1 2 3]" {
		t.Fatalf("seqs %v", seqs)
	}
	got, err := a.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if texts(got) != "[c\n b\n]" {
		t.Fatalf("entries %s", texts(got))
	}
	if got[0].ID != recs[2].ID || !got[0].EvictedAt.Equal(stamp) || got[0].Seq != 3 {
		t.Fatalf("entry %+v", got[0])
	}
}

func TestMaxEntriesTrims(t *testing.T) {
	a := newArchive(t, Options{MaxEntries: 2})
	gen := id.NewGenerator()
	for _, d := range []string{"1\n", "2\n", "3\n", "4\n", "5\n"} {
		a.EmitEvicted(records(gen, d))
	}
	if a.Len() != 2 {
		t.Fatalf("len %d", a.Len())
	}
	got, _ := a.List(context.Background(), 0)
	if texts(got) != "[5\n 4\n]" {
		t.Fatalf("entries %s", texts(got))
	}
}

func TestReopenContinuesSequence(t *testing.T) {
	dir := t.TempDir()
	gen := id.NewGenerator()
	db := openDB(t, dir)
	a, err := New(db, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	a.EmitEvicted(records(gen, "x\n", "y\n"))
	_ = db.Close()

	db = openDB(t, dir)
	t.Cleanup(func() { _ = db.Close() })
	a, err = New(db, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if a.Len() != 2 {
		t.Fatalf("len after reopen %d", a.Len())
	}
	seqs, _ := a.Append(context.Background(), records(gen, "z\n"))
	if seqs[0] != 3 {
		t.Fatalf("seq after reopen %d", seqs[0])
	}
}

func TestPurge(t *testing.T) {
	a := newArchive(t, Options{})
	a.EmitEvicted(records(id.NewGenerator(), "gone\n"))
	if err := a.Purge(context.Background()); err != nil {
		t.Fatalf("purge: %v", err)
	}
	got, _ := a.List(context.Background(), 0)
	if len(got) != 0 || a.Len() != 0 {
		t.Fatalf("entries after purge: %d", len(got))
	}
}

func TestDeviceEvictionsReachArchive(t *testing.T) {
	a := newArchive(t, Options{})
	d, err := device.New(device.Options{Capacity: 2, Evictions: a, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("device: %v", err)
	}
	defer d.Close()
	for _, c := range []string{"aa\n", "bb\n", "cc\n", "dd\n"} {
		if _, err := d.Write(context.Background(), []byte(c)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	got, _ := a.List(context.Background(), 0)
	if texts(got) != "[bb\n aa\n]" {
		t.Fatalf("archived %s", texts(got))
	}
}
