// Package httpserver provides a minimal REST gateway for the command ring:
// raw-body writes, offset reads, seekto, size, CEL-filtered command
// listing, an SSE follow stream and the eviction archive.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default()})
//	s := httpserver.New(rt, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
