// Package runtime wires configuration, the device and the optional eviction
// archive into a single-node cmdring instance.
//
//	rt, err := runtime.Open(runtime.Options{DataDir: dir, Config: cfg, Logger: logger})
//	if err != nil { /* handle */ }
//	defer rt.Close()
//	_, _ = rt.Device().Write(ctx, []byte("reboot\n"))
package runtime
