package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/iqrfgw/internal/logging"
	"github.com/muurk/iqrfgw/internal/protocol"
	"github.com/muurk/iqrfgw/internal/version"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout is the per-call timeout used when a caller has no opinion
	DefaultTimeout = 13 * time.Second

	// DefaultURL is the daemon's WebSocket API on the local host
	DefaultURL = "ws://localhost:1338"

	// URLEnvVar overrides the configured daemon URL
	URLEnvVar = "IQRFGW_DAEMON_URL"

	// Time allowed to write the close frame after the reply arrived
	closeWait = time.Second
)

// Config holds Bridge settings
type Config struct {
	// URL of the daemon WebSocket API; DefaultURL when empty
	URL string

	// Metrics is optional
	Metrics *Metrics
}

// Bridge performs synchronous request/response calls against the daemon
type Bridge struct {
	mu      sync.Mutex
	url     string
	dialer  websocket.Dialer
	metrics *Metrics
}

// New creates a Bridge. The IQRFGW_DAEMON_URL environment variable takes
// precedence over cfg.URL.
func New(cfg Config) *Bridge {
	url := cfg.URL
	if env := os.Getenv(URLEnvVar); env != "" {
		url = env
	}
	if url == "" {
		url = DefaultURL
	}

	return &Bridge{
		url:     url,
		dialer:  *websocket.DefaultDialer,
		metrics: cfg.Metrics,
	}
}

// URL returns the daemon URL the bridge dials
func (b *Bridge) URL() string {
	return b.url
}

// SendSync sends req and blocks until the first reply frame arrives or
// 2×timeout elapses.
//
// On success the returned Exchange holds both wire texts and the decoded
// envelope. Failures are *protocol.Error values:
//   - empty response: dial failed, the daemon hung up, or the deadline passed
//   - DPA / user error: the reply carried a negative / positive status
//   - JSON error: the reply frame is not a daemon envelope
//   - invalid request: nil request or non-positive timeout
func (b *Bridge) SendSync(req *protocol.Request, timeout time.Duration) (*protocol.Exchange, error) {
	if req == nil {
		return nil, protocol.NewInvalidRequestError("request is nil")
	}
	if timeout <= 0 {
		return nil, protocol.NewInvalidRequestError(fmt.Sprintf("timeout must be positive, got %s", timeout))
	}

	text, err := req.WireText()
	if err != nil {
		b.metrics.observe(req.MType, err, 0)
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	ex, err := b.roundTrip(req.MType, text, timeout, start)
	elapsed := time.Since(start)

	b.metrics.observe(req.MType, err, elapsed)
	if ex != nil {
		logging.LogExchange(req.MType, ex.Status(), elapsed)
	}
	return ex, err
}

func (b *Bridge) roundTrip(mType string, text []byte, timeout time.Duration, start time.Time) (*protocol.Exchange, error) {
	logging.LogConnection(b.url, "connecting")

	d := b.dialer
	d.HandshakeTimeout = timeout

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	header := http.Header{"User-Agent": []string{version.UserAgent()}}
	conn, _, err := d.DialContext(ctx, b.url, header)
	cancel()
	if err != nil {
		logging.Warn("Failed to connect to daemon",
			zap.String("url", b.url),
			zap.String("mtype", mType),
			zap.Error(err),
		)
		return nil, protocol.NewEmptyResponseError(fmt.Sprintf("cannot connect to %s", b.url), err)
	}
	logging.LogConnection(b.url, "connected")

	_ = conn.SetWriteDeadline(time.Now().Add(timeout))
	if err := conn.WriteMessage(websocket.TextMessage, text); err != nil {
		_ = conn.Close()
		return nil, protocol.NewEmptyResponseError("cannot send request", err)
	}
	logging.LogWebSocketMessage(b.url, "sent", websocket.TextMessage, text)

	frames := make(chan []byte, 1)
	failed := make(chan error, 1)

	go func() {
		_, data, err := conn.ReadMessage()
		if err != nil {
			failed <- err
			return
		}
		logging.LogWebSocketMessage(b.url, "received", websocket.TextMessage, data)
		closeConn(conn)
		frames <- data
	}()

	// The dial already spent part of the budget
	deadline := time.NewTimer(2*timeout - time.Since(start))
	defer deadline.Stop()

	var data []byte
	select {
	case data = <-frames:
		logging.LogConnection(b.url, "closed")

	case err := <-failed:
		_ = conn.Close()
		logging.LogConnection(b.url, "closed")
		var ce *websocket.CloseError
		if errors.As(err, &ce) {
			return nil, protocol.NewEmptyResponseError(
				fmt.Sprintf("daemon closed the connection without replying (code %d)", ce.Code), err)
		}
		return nil, protocol.NewEmptyResponseError("connection failed before a reply arrived", err)

	case <-deadline.C:
		// Unblocks the reader goroutine
		_ = conn.Close()
		logging.Warn("No reply from daemon before deadline",
			zap.String("url", b.url),
			zap.String("mtype", mType),
			zap.Duration("timeout", timeout),
		)
		return nil, protocol.NewEmptyResponseError(fmt.Sprintf("no reply within %s", 2*timeout), nil)
	}

	resp, err := protocol.ParseResponse(data)
	if err != nil {
		return nil, err
	}

	if err := protocol.Classify(resp.Data.Status).Err(resp.Data.StatusStr); err != nil {
		logging.Debug("Daemon reported failure",
			zap.String("mtype", resp.MType),
			zap.Int("status", resp.Data.Status),
			zap.String("status_str", resp.Data.StatusStr),
		)
		return nil, err
	}

	return protocol.NewExchange(text, data, resp), nil
}

// closeConn sends a normal close frame and closes the connection
func closeConn(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
	_ = conn.Close()
}
