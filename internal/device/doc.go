// Package device exposes the command ring as a character-device-like
// object shared by concurrent callers.
//
// # Locking
//
// A Device owns one lock around the ring store and the pending command.
// Every state transition (append, commit, eviction) and every lookup used
// to answer a caller happens while holding it, and read payloads are copied
// out before it is released. The lock is acquired with the caller's
// context; giving up because the context ended yields ErrLockUnavailable.
//
// Each Handle (one per open) keeps its own position under a separate
// mutex. Lock order is always handle, then device.
//
// # API
//
//	dev, _ := device.New(device.Options{Capacity: 10})
//	defer dev.Close()
//	_, _ = dev.Write(ctx, []byte("partial "))
//	_, _ = dev.Write(ctx, []byte("command\n")) // commits "partial command\n"
//
//	h := dev.Open()
//	_, _ = h.SeekTo(ctx, 0, 8)             // ioctl SEEKTO
//	buf := make([]byte, 64)
//	n, _ := h.Read(buf)                     // "command\n"
//	_ = n
//
// Evicted records are handed to the configured EvictionHook after the lock
// is released.
package device
