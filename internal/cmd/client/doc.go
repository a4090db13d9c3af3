// Package client provides the cmdring command-line client.
//
// The CLI talks to the cmdring gRPC endpoint to drive the command ring
// from a terminal. The gRPC address is read from the CMDRING_GRPC
// environment variable (default 127.0.0.1:50051).
//
// Usage
//
//	cmdring write 'deploy api v2'          # appends a newline
//	printf 'partial' | cmdring write       # stays pending until a newline
//	cmdring read --cmd 1 --cmd-offset 0
//	cmdring cat --follow
//	cmdring seekto --cmd 2 --cmd-offset 4
//	cmdring size
//	cmdring commands --filter 'json.op == "restart"'
//	cmdring archive list --limit 20
//	cmdring archive list --data-dir /var/lib/cmdring   # server stopped
//
// Notes
//
//   - A command is committed when its terminator arrives. Only the first
//     terminator in one write ends a command under the default split
//     policy; later bytes start the next command.
//   - commands and archive list print JSON lines with the payload decoded
//     as payload_json, payload_text or payload_b64.
package client
