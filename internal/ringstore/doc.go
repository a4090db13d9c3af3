// Package ringstore implements the fixed-capacity circular store of
// committed commands.
//
// # Overview
//
// A Store is an array of N slots with two cursors and a full flag:
//   - in   next slot to write
//   - out  oldest occupied slot
//   - full all N slots occupied (in == out)
//
// When full is false, in == out means empty. Slots from out to in (wrapping)
// hold records oldest to newest. Inserting into a full store evicts the
// record at out and hands it back to the caller.
//
// The concatenation of all stored records, oldest first, forms a virtual
// byte stream addressed by global offset. FindByOffset maps a global offset
// to a record and a position inside it; SeekToCommand maps a command index
// plus an in-command offset back to a global offset.
//
//	s, _ := ringstore.New(ringstore.MaxWriteOperations)
//	evicted, ok := s.Insert(ringstore.Record{Data: []byte("ls\n")})
//	_ = evicted // only meaningful when ok
//	rec, within, found := s.FindByOffset(1)
//	off, err := ringstore.SeekToCommand(s, 0, 2)
//
// A Store does no locking. Callers serialize access; read-only methods may
// run concurrently with each other.
package ringstore
