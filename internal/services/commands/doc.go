// Package commandsvc is the facade the gRPC and HTTP transports call. It
// forwards reads, writes and seeks to the runtime's device, lists stored
// commands through an optional CEL filter and exposes the eviction archive.
//
//	svc := commandsvc.New(rt)
//	_, _ = svc.Write(ctx, []byte("{\"op\":\"restart\"}\n"))
//	cmds, _ := svc.List(ctx, commandsvc.ListOptions{Filter: `json.op == "restart"`})
package commandsvc
