package controllers

import (
	"context"
	"encoding/json"
	"net/http"
)

// sseSink writes Server-Sent Events to an HTTP response.
//
// It formats followed commands as SSE data events for real-time streaming
// to web clients.
type sseSink struct {
	w http.ResponseWriter
	r *http.Request
}

// Send writes v as one SSE data event.
//
// The value is JSON-encoded and sent with the "data: " prefix followed by
// two newlines as required by the SSE specification.
func (s sseSink) Send(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	_, err = s.w.Write([]byte("\n\n"))
	return err
}

// Comment writes an SSE comment line, used as a keep-alive.
func (s sseSink) Comment(text string) error {
	_, err := s.w.Write([]byte(": " + text + "\n\n"))
	return err
}

// Context returns the request context for cancellation.
func (s sseSink) Context() context.Context {
	return s.r.Context()
}

// Flush flushes the HTTP response writer if it supports flushing.
//
// This ensures that SSE events are immediately sent to the client.
func (s sseSink) Flush() error {
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
