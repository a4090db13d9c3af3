// Package cmdringv1 defines the cmdring.v1.DeviceService gRPC contract.
// Messages are protobuf well-known types, so no generated code is needed:
//
//	Write(BytesValue) -> UInt64Value            bytes accepted
//	Read(Struct{offset,max_len,wait_ms}) -> BytesValue   empty at end of stream
//	SeekToCommand(Struct{write_cmd,write_cmd_offset}) -> UInt64Value
//	Size(Empty) -> UInt64Value
//	ListCommands(StringValue filter) -> ListValue of Struct{index,offset,size,id,ts_ms,text,data}
//	ListArchive(Struct{limit}) -> ListValue of Struct{seq,id,evicted_at_ms,text,data}
package cmdringv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "cmdring.v1.DeviceService"

const (
	methodWrite         = "/" + ServiceName + "/Write"
	methodRead          = "/" + ServiceName + "/Read"
	methodSeekToCommand = "/" + ServiceName + "/SeekToCommand"
	methodSize          = "/" + ServiceName + "/Size"
	methodListCommands  = "/" + ServiceName + "/ListCommands"
	methodListArchive   = "/" + ServiceName + "/ListArchive"
)

// DeviceServiceServer is the server API for DeviceService.
type DeviceServiceServer interface {
	Write(context.Context, *wrapperspb.BytesValue) (*wrapperspb.UInt64Value, error)
	Read(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	SeekToCommand(context.Context, *structpb.Struct) (*wrapperspb.UInt64Value, error)
	Size(context.Context, *emptypb.Empty) (*wrapperspb.UInt64Value, error)
	ListCommands(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	ListArchive(context.Context, *structpb.Struct) (*structpb.ListValue, error)
}

// RegisterDeviceServiceServer registers srv on s.
func RegisterDeviceServiceServer(s grpc.ServiceRegistrar, srv DeviceServiceServer) {
	s.RegisterService(&DeviceServiceDesc, srv)
}

func unary[Req any, Resp any](method string, call func(DeviceServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DeviceServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DeviceServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// DeviceServiceDesc is the grpc.ServiceDesc for DeviceService.
var DeviceServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DeviceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Write", Handler: unary(methodWrite, DeviceServiceServer.Write)},
		{MethodName: "Read", Handler: unary(methodRead, DeviceServiceServer.Read)},
		{MethodName: "SeekToCommand", Handler: unary(methodSeekToCommand, DeviceServiceServer.SeekToCommand)},
		{MethodName: "Size", Handler: unary(methodSize, DeviceServiceServer.Size)},
		{MethodName: "ListCommands", Handler: unary(methodListCommands, DeviceServiceServer.ListCommands)},
		{MethodName: "ListArchive", Handler: unary(methodListArchive, DeviceServiceServer.ListArchive)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cmdring/v1/device.proto",
}

// DeviceServiceClient is the client API for DeviceService.
type DeviceServiceClient interface {
	Write(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error)
	Read(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	SeekToCommand(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error)
	Size(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error)
	ListCommands(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error)
	ListArchive(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type deviceServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDeviceServiceClient returns a client over cc.
func NewDeviceServiceClient(cc grpc.ClientConnInterface) DeviceServiceClient {
	return &deviceServiceClient{cc: cc}
}

func (c *deviceServiceClient) Write(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, methodWrite, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *deviceServiceClient) Read(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, methodRead, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *deviceServiceClient) SeekToCommand(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, methodSeekToCommand, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *deviceServiceClient) Size(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, methodSize, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *deviceServiceClient) ListCommands(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, methodListCommands, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *deviceServiceClient) ListArchive(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, methodListArchive, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
