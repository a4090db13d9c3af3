package transports

import (
	"context"
	"encoding/json"

	cmdringv1 "github.com/rzbill/cmdring/api/cmdring/v1"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GrpcTransport implements DeviceTransport over gRPC.
type GrpcTransport struct {
	dial func(ctx context.Context) (*grpc.ClientConn, error)
}

// NewGrpcTransport constructs a new GrpcTransport using the provided dialer.
func NewGrpcTransport(dial func(ctx context.Context) (*grpc.ClientConn, error)) *GrpcTransport {
	return &GrpcTransport{dial: dial}
}

func (t *GrpcTransport) withClient(ctx context.Context, fn func(cli cmdringv1.DeviceServiceClient) error) error {
	conn, err := t.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	return fn(cmdringv1.NewDeviceServiceClient(conn))
}

// Write sends p via gRPC and returns the bytes accepted.
func (t *GrpcTransport) Write(ctx context.Context, p []byte) (int, error) {
	var n int
	err := t.withClient(ctx, func(cli cmdringv1.DeviceServiceClient) error {
		resp, err := cli.Write(ctx, wrapperspb.Bytes(p))
		if err != nil {
			return err
		}
		n = int(resp.GetValue())
		return nil
	})
	return n, err
}

// Read reads one window starting at offset.
func (t *GrpcTransport) Read(ctx context.Context, offset int64, maxLen int, waitMs int64) ([]byte, error) {
	var data []byte
	err := t.withClient(ctx, func(cli cmdringv1.DeviceServiceClient) error {
		resp, err := cli.Read(ctx, cmdringv1.ReadRequest(offset, maxLen, waitMs))
		if err != nil {
			return err
		}
		data = resp.GetValue()
		return nil
	})
	return data, err
}

// SeekTo translates a command index and in-command offset to a global offset.
func (t *GrpcTransport) SeekTo(ctx context.Context, cmd, cmdOffset uint32) (int64, error) {
	var off int64
	err := t.withClient(ctx, func(cli cmdringv1.DeviceServiceClient) error {
		resp, err := cli.SeekToCommand(ctx, cmdringv1.SeekToRequest(cmd, cmdOffset))
		if err != nil {
			return err
		}
		off = int64(resp.GetValue())
		return nil
	})
	return off, err
}

// Size returns the total length of the stored commands.
func (t *GrpcTransport) Size(ctx context.Context) (int64, error) {
	var n int64
	err := t.withClient(ctx, func(cli cmdringv1.DeviceServiceClient) error {
		resp, err := cli.Size(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		n = int64(resp.GetValue())
		return nil
	})
	return n, err
}

// ListCommands lists stored commands matching filter.
func (t *GrpcTransport) ListCommands(ctx context.Context, filter string) ([]Command, error) {
	var out []Command
	err := t.withClient(ctx, func(cli cmdringv1.DeviceServiceClient) error {
		resp, err := cli.ListCommands(ctx, wrapperspb.String(filter))
		if err != nil {
			return err
		}
		return decodeList(resp, &out)
	})
	return out, err
}

// ListArchive lists up to limit archived evictions, newest first.
func (t *GrpcTransport) ListArchive(ctx context.Context, limit int) ([]ArchivedCommand, error) {
	var out []ArchivedCommand
	err := t.withClient(ctx, func(cli cmdringv1.DeviceServiceClient) error {
		resp, err := cli.ListArchive(ctx, cmdringv1.ArchiveRequest(limit))
		if err != nil {
			return err
		}
		return decodeList(resp, &out)
	})
	return out, err
}

// decodeList converts a ListValue of Structs into dst through its JSON form.
func decodeList(lv *structpb.ListValue, dst any) error {
	b, err := protojson.Marshal(lv)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
