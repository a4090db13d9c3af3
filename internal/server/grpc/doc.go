// Package grpcserver serves cmdring.v1.DeviceService and the standard gRPC
// health service over a Runtime, delegating to the commands service.
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default()})
//	s := grpcserver.New(rt)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":50051")
package grpcserver
