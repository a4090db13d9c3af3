package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rzbill/cmdring/internal/archive"
	"github.com/rzbill/cmdring/internal/cmd/client/transports"
	cfgpkg "github.com/rzbill/cmdring/internal/config"
	pebblestore "github.com/rzbill/cmdring/internal/storage/pebble"
	"github.com/spf13/cobra"
)

const defaultReadLen = 4096

// NewDeviceCommands constructs the device subcommands: write, read, cat,
// seekto, size and commands.
func NewDeviceCommands() []*cobra.Command {
	return []*cobra.Command{
		newWriteCommand(),
		newReadCommand(),
		newCatCommand(),
		newSeekToCommand(),
		newSizeCommand(),
		newCommandsCommand(),
	}
}

// newWriteCommand constructs the `write` subcommand.
func newWriteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write [data]",
		Short: "Write bytes to the device (stdin when no data is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noNewline, _ := cmd.Flags().GetBool("no-newline")
			var payload []byte
			if len(args) == 1 {
				payload = []byte(args[0])
				if !noNewline {
					payload = append(payload, '\n')
				}
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				payload = b
			}
			n, err := getTransport().Write(cmd.Context(), payload)
			if err != nil {
				return fmt.Errorf("write: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "written: %d\n", n)
			return nil
		},
	}
	cmd.Flags().BoolP("no-newline", "n", false, "Do not append a newline to the data argument")
	return cmd
}

// newReadCommand constructs the `read` subcommand.
func newReadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read one window of bytes from an offset or a command position",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			t := getTransport()
			offset, _ := cmd.Flags().GetInt64("offset")
			maxLen, _ := cmd.Flags().GetInt("max")
			waitMs, _ := cmd.Flags().GetInt64("wait-ms")
			if cmd.Flags().Changed("cmd") {
				c, _ := cmd.Flags().GetUint32("cmd")
				co, _ := cmd.Flags().GetUint32("cmd-offset")
				off, err := t.SeekTo(ctx, c, co)
				if err != nil {
					return fmt.Errorf("seekto: %w", err)
				}
				offset = off
			}
			data, err := t.Read(ctx, offset, maxLen, waitMs)
			if err != nil {
				return fmt.Errorf("read: %w", err)
			}
			if len(data) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "end of stream")
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().Int64("offset", 0, "Global byte offset")
	cmd.Flags().Uint32("cmd", 0, "Command index (oldest is 0); overrides --offset")
	cmd.Flags().Uint32("cmd-offset", 0, "Byte offset within --cmd")
	cmd.Flags().Int("max", defaultReadLen, "Maximum bytes to read")
	cmd.Flags().Int64("wait-ms", 0, "Wait this long for a commit when at the end of the stream")
	return cmd
}

// newCatCommand constructs the `cat` subcommand.
func newCatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat",
		Short: "Print the device contents from an offset to the end",
		Long: "Print the device contents from an offset to the end. With --follow, keep\n" +
			"waiting for new commands. Offsets are relative to the oldest retained\n" +
			"command, so evictions while following shift the stream.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			offset, _ := cmd.Flags().GetInt64("offset")
			follow, _ := cmd.Flags().GetBool("follow")
			return catStream(cmd.Context(), getTransport(), cmd.OutOrStdout(), offset, follow)
		},
	}
	cmd.Flags().Int64("offset", 0, "Global byte offset to start from")
	cmd.Flags().BoolP("follow", "f", false, "Keep waiting for new commands")
	return cmd
}

// catStream copies the device from offset to w. With follow it keeps
// issuing waiting reads at the end of the stream until ctx is done.
func catStream(ctx context.Context, t transports.DeviceTransport, w io.Writer, offset int64, follow bool) error {
	var waitMs int64
	if follow {
		waitMs = 10_000
	}
	for {
		data, err := t.Read(ctx, offset, defaultReadLen, waitMs)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read at %d: %w", offset, err)
		}
		if len(data) == 0 {
			if !follow {
				return nil
			}
			continue
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		offset += int64(len(data))
	}
}

// newSeekToCommand constructs the `seekto` subcommand.
func newSeekToCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seekto",
		Short: "Translate a command index and in-command offset to a global offset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _ := cmd.Flags().GetUint32("cmd")
			co, _ := cmd.Flags().GetUint32("cmd-offset")
			off, err := getTransport().SeekTo(cmd.Context(), c, co)
			if err != nil {
				return fmt.Errorf("seekto: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "offset: %d\n", off)
			return nil
		},
	}
	cmd.Flags().Uint32("cmd", 0, "Command index (oldest is 0)")
	cmd.Flags().Uint32("cmd-offset", 0, "Byte offset within the command")
	return cmd
}

// newSizeCommand constructs the `size` subcommand.
func newSizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Print the total length of the stored commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := getTransport().Size(cmd.Context())
			if err != nil {
				return fmt.Errorf("size: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "size: %d\n", n)
			return nil
		},
	}
}

// newCommandsCommand constructs the `commands` subcommand.
func newCommandsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List stored commands as JSON lines",
		Long: "List stored commands as JSON lines, oldest first. --filter takes a CEL\n" +
			"expression over index, offset, size, id, ts_ms, text, json and now_ms,\n" +
			"for example: text.startsWith(\"deploy\") || json.op == \"restart\"",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			cmds, err := getTransport().ListCommands(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("commands: %w", err)
			}
			items := make([]map[string]any, 0, len(cmds))
			for _, c := range cmds {
				items = append(items, decodedCommand(map[string]any{
					"index":  c.Index,
					"offset": c.Offset,
					"size":   c.Size,
					"id":     c.ID,
					"ts":     time.UnixMilli(c.TsMs).UTC().Format(time.RFC3339Nano),
				}, c.Data))
			}
			return printJSONLines(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().String("filter", "", "CEL filter expression")
	return cmd
}

// NewArchiveCommand constructs the `archive` command group.
func NewArchiveCommand() *cobra.Command {
	archiveCmd := &cobra.Command{Use: "archive", Short: "Eviction archive operations"}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List evicted commands, newest first",
		Long: "List evicted commands, newest first. By default the archive is read\n" +
			"from the server over gRPC; with --data-dir it is opened directly, which\n" +
			"requires the server to be stopped.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			var (
				entries []map[string]any
				err     error
			)
			if dataDir != "" {
				entries, err = listArchiveOffline(cmd.Context(), dataDir, limit)
			} else {
				entries, err = listArchiveRemote(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("archive list: %w", err)
			}
			return printJSONLines(cmd.OutOrStdout(), entries)
		},
	}
	listCmd.Flags().Int("limit", 100, "Maximum entries to print")
	listCmd.Flags().String("data-dir", "", "Read the archive under this data directory without a server")
	archiveCmd.AddCommand(listCmd)
	return archiveCmd
}

func listArchiveRemote(ctx context.Context, limit int) ([]map[string]any, error) {
	entries, err := getTransport().ListArchive(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, decodedCommand(archiveMeta(e.Seq, e.ID, e.EvictedAtMs), e.Data))
	}
	return out, nil
}

func listArchiveOffline(ctx context.Context, dataDir string, limit int) ([]map[string]any, error) {
	cfg := cfgpkg.Default()
	cfgpkg.FromEnv(&cfg)
	dir := cfg.ArchiveDir(dataDir)
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		if strings.Contains(err.Error(), "lock") {
			return nil, fmt.Errorf("%w (is the server still running?)", err)
		}
		return nil, err
	}
	defer db.Close()
	a, err := archive.New(db, archive.Options{})
	if err != nil {
		return nil, err
	}
	entries, err := a.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, decodedCommand(archiveMeta(e.Seq, e.ID.String(), e.EvictedAt.UnixMilli()), e.Data))
	}
	return out, nil
}

func archiveMeta(seq uint64, id string, evictedAtMs int64) map[string]any {
	return map[string]any{
		"seq":        seq,
		"id":         id,
		"evicted_at": time.UnixMilli(evictedAtMs).UTC().Format(time.RFC3339Nano),
	}
}
