// Package archive keeps an audit trail of commands evicted from the ring.
//
// An Archive implements device.EvictionHook. Each evicted record is written
// to Pebble under a big-endian sequence so entries list in eviction order:
//
//	archive/m            last assigned sequence
//	archive/e/{seq_be8}  varint headerLen | header | payload | crc32c
//
// The header holds the record ID and the eviction time. When MaxEntries is
// set the oldest entries are trimmed with a range delete.
package archive
