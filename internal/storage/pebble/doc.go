// Package pebblestore wraps Pebble with an fsync policy, batches, prefix
// scans and a metrics hook. It backs the eviction archive.
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: dir,
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(ctx, b)
//	b.Close()
package pebblestore
