// Package id provides the 128-bit, lexicographically sortable identifiers
// stamped on every committed command.
//
// The ID is 16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence],
// so byte-wise comparison preserves commit order. A Generator pins to the
// last seen millisecond if the clock regresses.
//
//	g := id.NewGenerator()
//	cmdID := g.Next()
//	_ = cmdID.String() // 32 hex chars
package id
