// Package transports provides pluggable transport implementations for the CLI.
package transports

import "context"

// Command is one stored command as reported by the server.
type Command struct {
	Index  int    `json:"index"`
	Offset int64  `json:"offset"`
	Size   int    `json:"size"`
	ID     string `json:"id"`
	TsMs   int64  `json:"ts_ms"`
	Text   string `json:"text"`
	Data   []byte `json:"data"`
}

// ArchivedCommand is one evicted command kept by the archive.
type ArchivedCommand struct {
	Seq         uint64 `json:"seq"`
	ID          string `json:"id"`
	EvictedAtMs int64  `json:"evicted_at_ms"`
	Text        string `json:"text"`
	Data        []byte `json:"data"`
}

// DeviceTransport abstracts the transport used by the CLI.
type DeviceTransport interface {
	Write(ctx context.Context, p []byte) (int, error)
	// Read returns an empty slice at the end of the stream. waitMs > 0
	// asks the server to wait that long for a commit first.
	Read(ctx context.Context, offset int64, maxLen int, waitMs int64) ([]byte, error)
	SeekTo(ctx context.Context, cmd, cmdOffset uint32) (int64, error)
	Size(ctx context.Context) (int64, error)
	ListCommands(ctx context.Context, filter string) ([]Command, error)
	ListArchive(ctx context.Context, limit int) ([]ArchivedCommand, error)
}
