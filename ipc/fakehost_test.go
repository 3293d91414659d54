package ipc

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mediabridge/mediabridge/constant"
)

// fakeHost answers requests the way the native media host does.
type fakeHost struct {
	listener net.Listener
	path     string

	mu       sync.Mutex
	requests []Request
	conn     net.Conn
	sub      uint64
}

func newFakeHost(t *testing.T) *fakeHost {
	path := filepath.Join(t.TempDir(), "host.sock")
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	h := &fakeHost{listener: l, path: path}
	go h.serve()
	return h
}

func (h *fakeHost) serve() {
	conn, err := h.listener.Accept()
	if err != nil {
		return
	}
	h.mu.Lock()
	h.conn = conn
	h.mu.Unlock()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}
		h.mu.Lock()
		h.requests = append(h.requests, req)
		h.mu.Unlock()
		h.answer(req)
	}
}

func (h *fakeHost) answer(req Request) {
	switch req.Action {
	case constant.ActionCreate:
		h.reply(map[string]any{"request_id": req.RequestID, "data": false})
	case constant.ActionSeekTo:
		h.reply(map[string]any{"request_id": req.RequestID, "data": 1480})
	case constant.ActionPausePlaying:
		h.reply(map[string]any{"request_id": req.RequestID, "error": 1})
	case constant.ActionMessageChannel:
		h.mu.Lock()
		h.sub = req.RequestID
		h.mu.Unlock()
	case constant.ActionStartPlaying:
		// Playback progress is reported through the subscription only.
		id, _ := req.Args[0].(string)
		h.Push(id, 1, 2)
		h.Push(id, 2, 5000)
	}
}

// Push sends a status message through the message channel subscription.
func (h *fakeHost) Push(id string, kind int, value any) {
	h.mu.Lock()
	sub := h.sub
	h.mu.Unlock()
	h.reply(map[string]any{
		"request_id": sub,
		"keep":       true,
		"data": map[string]any{
			"action": "status",
			"status": map[string]any{"id": id, "msgType": kind, "value": value},
		},
	})
}

func (h *fakeHost) reply(frame map[string]any) {
	payload, _ := json.Marshal(frame)
	h.mu.Lock()
	conn := h.conn
	h.mu.Unlock()
	_, _ = conn.Write(append(payload, '\n'))
}

func (h *fakeHost) Requests() []Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Request(nil), h.requests...)
}

// Hangup drops the connection from the host side.
func (h *fakeHost) Hangup() {
	h.mu.Lock()
	conn := h.conn
	h.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

func (h *fakeHost) Close() {
	_ = h.listener.Close()
	h.Hangup()
}
