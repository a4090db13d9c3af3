package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rzbill/cmdring/internal/device"
	commandsvc "github.com/rzbill/cmdring/internal/services/commands"
	"github.com/rzbill/cmdring/pkg/id"
	logpkg "github.com/rzbill/cmdring/pkg/log"
)

const (
	defaultReadLen = 4096
	maxWriteBody   = 8 << 20
	maxWait        = 30 * time.Second
	followWait     = 15 * time.Second
)

// DeviceController serves the character-device surface: write, read,
// seek and size, plus command listing and a live follow stream.
type DeviceController struct {
	svc    *commandsvc.Service
	logger logpkg.Logger
}

// NewDeviceController creates a new device controller.
func NewDeviceController(svc *commandsvc.Service, logger logpkg.Logger) *DeviceController {
	return &DeviceController{svc: svc, logger: logger}
}

// RegisterRoutes registers device routes with the given mux.
func (c *DeviceController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/device/write", c.handleWrite)
	mux.HandleFunc("/v1/device/read", c.handleRead)
	mux.HandleFunc("/v1/device/seekto", c.handleSeekTo)
	mux.HandleFunc("/v1/device/size", c.handleSize)
	mux.HandleFunc("/v1/device/commands", c.handleCommands)
	mux.HandleFunc("/v1/device/follow", c.handleFollowSSE)
}

// handleWrite appends the raw request body to the command stream.
func (c *DeviceController) handleWrite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWriteBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	n, err := c.svc.Write(r.Context(), body)
	if err != nil {
		c.logger.Debug("write failed", logpkg.Int("bytes", len(body)), logpkg.Err(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]int{"written": n})
}

// handleRead returns raw bytes from one command starting at offset.
// Query params: offset, max, wait_ms. The next offset is returned in
// X-Next-Offset; 204 No Content marks the end of the stream.
func (c *DeviceController) handleRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	q := r.URL.Query()
	off, ok := parseOffset(q.Get("offset"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid offset")
		return
	}
	maxLen := defaultReadLen
	if v := q.Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid max")
			return
		}
		maxLen = n
	}
	wait := time.Duration(parseLimit(q.Get("wait_ms"), 0)) * time.Millisecond
	if wait > maxWait {
		wait = maxWait
	}
	data, next, err := c.svc.Read(r.Context(), commandsvc.ReadOptions{
		Offset: off,
		MaxLen: maxLen,
		Wait:   wait,
	})
	if errors.Is(err, io.EOF) {
		w.Header().Set("X-Next-Offset", strconv.FormatInt(off, 10))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Next-Offset", strconv.FormatInt(next, 10))
	_, _ = w.Write(data)
}

// handleSeekTo translates a (write_cmd, write_cmd_offset) pair into a
// global offset.
func (c *DeviceController) handleSeekTo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req seekToReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WriteCmd == nil || req.WriteCmdOffset == nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	off, err := c.svc.SeekToCommand(r.Context(), *req.WriteCmd, *req.WriteCmdOffset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]int64{"offset": off})
}

// handleSize returns the total length of the stored commands.
func (c *DeviceController) handleSize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	n, err := c.svc.Size(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]int64{"size": n})
}

// handleCommands lists stored commands. Query params: filter (CEL), limit.
func (c *DeviceController) handleCommands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	q := r.URL.Query()
	cmds, err := c.svc.List(r.Context(), commandsvc.ListOptions{
		Filter: q.Get("filter"),
		Limit:  parseLimit(q.Get("limit"), 0),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]commandResp, 0, len(cmds))
	for _, cmd := range cmds {
		out = append(out, toCommandResp(cmd))
	}
	writeJSON(w, map[string]any{"commands": out})
}

// handleFollowSSE streams newly committed commands as SSE events until the
// client goes away. Query param after resumes after a command ID.
func (c *DeviceController) handleFollowSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var after id.ID
	if s := r.URL.Query().Get("after"); s != "" {
		parsed, err := id.Parse(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid after id")
			return
		}
		after = parsed
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	sink := sseSink{w: w, r: r}
	_ = sink.Flush()

	for {
		cmds, err := c.svc.Since(sink.Context(), after, followWait)
		if err != nil {
			if !errors.Is(err, device.ErrClosed) && sink.Context().Err() == nil {
				c.logger.Warn("follow stopped", logpkg.Err(err))
			}
			return
		}
		if len(cmds) == 0 {
			if sink.Comment("keep-alive") != nil {
				return
			}
		}
		for _, cmd := range cmds {
			if err := sink.Send(toCommandResp(cmd)); err != nil {
				return
			}
			after = cmd.ID
		}
		_ = sink.Flush()
	}
}

func toCommandResp(c device.Command) commandResp {
	return commandResp{
		Index:  c.Index,
		Offset: c.Offset,
		Size:   c.Size,
		ID:     c.ID.String(),
		TsMs:   c.ID.Time().UnixMilli(),
		Text:   printable(c.Data),
		Data:   c.Data,
	}
}
