// Package daemontest runs a scripted stand-in for the IQRF Gateway Daemon
// WebSocket API on an httptest server.
package daemontest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// Behavior scripts what the daemon does with one connection after it
// received the request frame
type Behavior func(conn *websocket.Conn, request []byte)

// Server is a scripted daemon
type Server struct {
	*httptest.Server

	upgrader websocket.Upgrader
	behavior Behavior

	mu       sync.Mutex
	requests [][]byte
}

// New starts a daemon that applies behavior to every connection. The
// server is closed when the test ends.
func New(t testing.TB, behavior Behavior) *Server {
	t.Helper()

	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		behavior: behavior,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// WSURL is the ws:// address of the server
func (s *Server) WSURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

// Requests returns a copy of every request frame received so far
func (s *Server) Requests() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	_, data, err := conn.ReadMessage()
	if err != nil {
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, data)
	s.mu.Unlock()

	s.behavior(conn, data)
}

// Reply sends each frame in order and then waits for the client to hang up
func Reply(frames ...string) Behavior {
	return func(conn *websocket.Conn, _ []byte) {
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		drain(conn)
	}
}

// Silent never answers; the connection stays open until the client gives up
func Silent() Behavior {
	return func(conn *websocket.Conn, _ []byte) {
		drain(conn)
	}
}

// HangUp closes the connection without replying
func HangUp() Behavior {
	return func(conn *websocket.Conn, _ []byte) {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
	}
}

// Func builds replies from the request text; an empty string sends nothing
func Func(fn func(request []byte) string) Behavior {
	return func(conn *websocket.Conn, request []byte) {
		if reply := fn(request); reply != "" {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(reply))
		}
		drain(conn)
	}
}

func drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Response builds a daemon response frame with the given rsp body and status
func Response(mType string, rsp any, status int) string {
	statusStr := "ok"
	if status != 0 {
		statusStr = "err"
	}

	frame := map[string]any{
		"mType": mType,
		"data": map[string]any{
			"msgId":     "test",
			"rsp":       rsp,
			"insId":     "iqrfgd2-test",
			"statusStr": statusStr,
			"status":    status,
		},
	}

	b, err := json.Marshal(frame)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// RawResponse builds an iqrfRaw response frame carrying rData
func RawResponse(rData string) string {
	return Response("iqrfRaw", map[string]string{"rData": rData}, 0)
}
