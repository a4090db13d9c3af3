package device

import "github.com/rzbill/cmdring/internal/ringstore"

// EvictionHook receives records pushed out of a full ring, oldest first.
// Ownership of the records passes to the hook.
type EvictionHook interface {
	EmitEvicted(recs []ringstore.Record)
}

type noopEvictions struct{}

func (noopEvictions) EmitEvicted([]ringstore.Record) {}
