package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rzbill/cmdring/internal/cmd/client/transports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// grpcAddrFromEnv returns the gRPC server address from CMDRING_GRPC or a default.
func grpcAddrFromEnv() string {
	if addr := os.Getenv("CMDRING_GRPC"); addr != "" {
		return addr
	}
	return "127.0.0.1:50051"
}

// dialGRPCContext dials the cmdring gRPC endpoint with insecure transport for local/dev.
func dialGRPCContext(ctx context.Context) (*grpc.ClientConn, error) {
	return grpc.DialContext(ctx, grpcAddrFromEnv(), grpc.WithTransportCredentials(insecure.NewCredentials()))
}

func getTransport() transports.DeviceTransport {
	return transports.NewGrpcTransport(dialGRPCContext)
}

// decodedCommand returns a map with the command metadata and one of
// payload_json, payload_text or payload_b64.
func decodedCommand(meta map[string]any, payload []byte) map[string]any {
	out := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	trimmed := payload
	if n := len(trimmed); n > 0 && trimmed[n-1] == '\n' {
		trimmed = trimmed[:n-1]
	}
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var v any
		if json.Unmarshal(trimmed, &v) == nil {
			out["payload_json"] = v
			return out
		}
	}
	if utf8.Valid(payload) {
		out["payload_text"] = string(payload)
		return out
	}
	out["payload_b64"] = base64.StdEncoding.EncodeToString(payload)
	return out
}

// printJSONLines writes one JSON document per line.
func printJSONLines(w io.Writer, items []map[string]any) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
