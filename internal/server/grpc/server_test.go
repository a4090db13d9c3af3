package grpcserver

import (
	"context"
	"net"
	"testing"
	"time"

	cmdringv1 "github.com/rzbill/cmdring/api/cmdring/v1"
	cfgpkg "github.com/rzbill/cmdring/internal/config"
	"github.com/rzbill/cmdring/internal/runtime"
	logpkg "github.com/rzbill/cmdring/pkg/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const bufSize = 1 << 20

func dialer(s *grpc.Server) func(context.Context, string) (net.Conn, error) {
	lis := bufconn.Listen(bufSize)
	go func() { _ = s.Serve(lis) }()
	return func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
}

func newTestConn(t *testing.T, cfg cfgpkg.Config) (*runtime.Runtime, *grpc.ClientConn, context.Context) {
	t.Helper()
	logger := logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
	rt, err := runtime.Open(runtime.Options{DataDir: t.TempDir(), Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	srv := New(rt)
	d := dialer(srv.grpc)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	conn, err := grpc.DialContext(ctx, "bufnet", grpc.WithContextDialer(d), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
		srv.Close()
		_ = rt.Close()
		cancel()
	})
	return rt, conn, ctx
}

func TestHealthOverGRPC(t *testing.T) {
	rt, conn, ctx := newTestConn(t, cfgpkg.Default())
	c := healthpb.NewHealthClient(conn)
	res, err := c.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status %v", res.GetStatus())
	}
	_ = rt.Close()
	res, err = c.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil || res.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("after close: %v %v", res.GetStatus(), err)
	}
}

func TestWriteReadSeekOverGRPC(t *testing.T) {
	_, conn, ctx := newTestConn(t, cfgpkg.Default())
	c := cmdringv1.NewDeviceServiceClient(conn)

	for _, cmd := range []string{"alpha\n", "beta\n", "gam"} {
		n, err := c.Write(ctx, wrapperspb.Bytes([]byte(cmd)))
		if err != nil {
			t.Fatalf("write: %v", err)
		}
		if n.GetValue() != uint64(len(cmd)) {
			t.Fatalf("accepted %d", n.GetValue())
		}
	}
	size, err := c.Size(ctx, &emptypb.Empty{})
	if err != nil || size.GetValue() != 11 {
		t.Fatalf("size %d %v", size.GetValue(), err)
	}
	off, err := c.SeekToCommand(ctx, cmdringv1.SeekToRequest(1, 0))
	if err != nil || off.GetValue() != 6 {
		t.Fatalf("seek %d %v", off.GetValue(), err)
	}
	data, err := c.Read(ctx, cmdringv1.ReadRequest(int64(off.GetValue()), 100, 0))
	if err != nil || string(data.GetValue()) != "beta\n" {
		t.Fatalf("read %q %v", data.GetValue(), err)
	}
	data, err = c.Read(ctx, cmdringv1.ReadRequest(11, 100, 0))
	if err != nil || len(data.GetValue()) != 0 {
		t.Fatalf("end of stream %q %v", data.GetValue(), err)
	}

	list, err := c.ListCommands(ctx, wrapperspb.String(`text == "alpha\n"`))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.GetValues()) != 1 {
		t.Fatalf("list %v", list)
	}
	fields := list.GetValues()[0].GetStructValue().GetFields()
	if fields["index"].GetNumberValue() != 0 || fields["size"].GetNumberValue() != 6 {
		t.Fatalf("command %v", fields)
	}
}

func TestErrorCodesOverGRPC(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.MaxCommandBytes = 4
	_, conn, ctx := newTestConn(t, cfg)
	c := cmdringv1.NewDeviceServiceClient(conn)

	_, err := c.SeekToCommand(ctx, cmdringv1.SeekToRequest(5, 0))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("seek on empty device: %v", err)
	}
	_, err = c.Write(ctx, wrapperspb.Bytes([]byte("toolong")))
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("oversized write: %v", err)
	}
	_, err = c.ListCommands(ctx, wrapperspb.String("size >"))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("bad filter: %v", err)
	}
	_, err = c.ListArchive(ctx, cmdringv1.ArchiveRequest(10))
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("archive disabled: %v", err)
	}
	_, err = c.Read(ctx, cmdringv1.ReadRequest(-1, 10, 0))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("negative offset: %v", err)
	}
	for _, maxLen := range []int{0, -3} {
		_, err = c.Read(ctx, cmdringv1.ReadRequest(0, maxLen, 0))
		if status.Code(err) != codes.InvalidArgument {
			t.Fatalf("max_len %d: %v", maxLen, err)
		}
	}
}

func TestListArchiveOverGRPC(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Capacity = 1
	cfg.Archive.Enabled = true
	cfg.Archive.Fsync = "never"
	_, conn, ctx := newTestConn(t, cfg)
	c := cmdringv1.NewDeviceServiceClient(conn)
	for _, cmd := range []string{"old\n", "new\n"} {
		if _, err := c.Write(ctx, wrapperspb.Bytes([]byte(cmd))); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	list, err := c.ListArchive(ctx, cmdringv1.ArchiveRequest(10))
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if len(list.GetValues()) != 1 || list.GetValues()[0].GetStructValue().GetFields()["text"].GetStringValue() != "old\n" {
		t.Fatalf("archive %v", list)
	}
}
