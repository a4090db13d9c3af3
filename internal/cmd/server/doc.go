// Package serverrun exposes the Run entrypoint the CLI uses to start the
// cmdring runtime with gRPC and HTTP servers, handling lifecycle and
// shutdown.
//
//	opts := serverrun.Options{GRPCAddr: ":50051", HTTPAddr: ":8080", Config: config.Default()}
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = serverrun.Run(ctx, opts)
package serverrun
