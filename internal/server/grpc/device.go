package grpcserver

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	cmdringv1 "github.com/rzbill/cmdring/api/cmdring/v1"
	"github.com/rzbill/cmdring/internal/device"
	commandsvc "github.com/rzbill/cmdring/internal/services/commands"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const defaultReadLen = 4096

type deviceSvc struct {
	svc *commandsvc.Service
}

var _ cmdringv1.DeviceServiceServer = (*deviceSvc)(nil)

func (s *deviceSvc) Write(ctx context.Context, req *wrapperspb.BytesValue) (*wrapperspb.UInt64Value, error) {
	n, err := s.svc.Write(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.UInt64(uint64(n)), nil
}

func (s *deviceSvc) Read(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	maxLen := cmdringv1.Int(req, "max_len", defaultReadLen)
	if maxLen <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "max_len must be positive, got %d", maxLen)
	}
	opts := commandsvc.ReadOptions{
		Offset: cmdringv1.Int(req, "offset", 0),
		MaxLen: int(maxLen),
		Wait:   time.Duration(cmdringv1.Int(req, "wait_ms", 0)) * time.Millisecond,
	}
	data, _, err := s.svc.Read(ctx, opts)
	if errors.Is(err, io.EOF) {
		return wrapperspb.Bytes(nil), nil
	}
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(data), nil
}

func (s *deviceSvc) SeekToCommand(ctx context.Context, req *structpb.Struct) (*wrapperspb.UInt64Value, error) {
	if !cmdringv1.IsInt(req, "write_cmd") || !cmdringv1.IsInt(req, "write_cmd_offset") {
		return nil, status.Error(codes.InvalidArgument, "write_cmd and write_cmd_offset must be non-negative integers")
	}
	off, err := s.svc.SeekToCommand(ctx, int(cmdringv1.Int(req, "write_cmd", 0)), int(cmdringv1.Int(req, "write_cmd_offset", 0)))
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.UInt64(uint64(off)), nil
}

func (s *deviceSvc) Size(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.UInt64Value, error) {
	n, err := s.svc.Size(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.UInt64(uint64(n)), nil
}

func (s *deviceSvc) ListCommands(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	cmds, err := s.svc.List(ctx, commandsvc.ListOptions{Filter: req.GetValue()})
	if err != nil {
		return nil, toStatus(err)
	}
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(cmds))}
	for _, c := range cmds {
		out.Values = append(out.Values, structpb.NewStructValue(commandStruct(c)))
	}
	return out, nil
}

func (s *deviceSvc) ListArchive(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	entries, err := s.svc.Archive(ctx, int(cmdringv1.Int(req, "limit", 100)))
	if err != nil {
		return nil, toStatus(err)
	}
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(entries))}
	for _, e := range entries {
		out.Values = append(out.Values, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"seq":           structpb.NewNumberValue(float64(e.Seq)),
			"id":            structpb.NewStringValue(e.ID.String()),
			"evicted_at_ms": structpb.NewNumberValue(float64(e.EvictedAt.UnixMilli())),
			"text":          structpb.NewStringValue(printable(e.Data)),
			"data":          bytesValue(e.Data),
		}}))
	}
	return out, nil
}

func commandStruct(c device.Command) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"index":  structpb.NewNumberValue(float64(c.Index)),
		"offset": structpb.NewNumberValue(float64(c.Offset)),
		"size":   structpb.NewNumberValue(float64(c.Size)),
		"id":     structpb.NewStringValue(c.ID.String()),
		"ts_ms":  structpb.NewNumberValue(float64(c.ID.Time().UnixMilli())),
		"text":   structpb.NewStringValue(printable(c.Data)),
		"data":   bytesValue(c.Data),
	}}
}

// printable returns b as valid UTF-8 for string fields.
func printable(b []byte) string { return strings.ToValidUTF8(string(b), "�") }

func bytesValue(b []byte) *structpb.Value {
	v, _ := structpb.NewValue(b)
	return v
}
