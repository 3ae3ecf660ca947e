package iqmesh

import (
	"time"

	"github.com/muurk/iqrfgw/internal/bridge"
	"github.com/muurk/iqrfgw/internal/logging"
	"github.com/muurk/iqrfgw/internal/protocol"
	"go.uber.org/zap"
)

// Sender performs one synchronous daemon call. *bridge.Bridge implements it.
type Sender interface {
	SendSync(req *protocol.Request, timeout time.Duration) (*protocol.Exchange, error)
}

var _ Sender = (*bridge.Bridge)(nil)

func orDefault(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return bridge.DefaultTimeout
	}
	return timeout
}

// call sends req and decodes rsp.result into result
func call(s Sender, req *protocol.Request, timeout time.Duration, result any) error {
	ex, err := s.SendSync(req, orDefault(timeout))
	if err != nil {
		return err
	}

	rsp := struct {
		Result any `json:"result"`
	}{Result: result}
	return ex.Envelope.DecodeRsp(&rsp)
}

// Repeat runs fn up to attempts times while it fails with a retryable
// error. Each attempt is an independent call. The last error is returned.
func Repeat(attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		err = fn()
		if err == nil || !protocol.IsRetryable(err) {
			return err
		}
		if i < attempts {
			logging.Debug("Retrying after retryable failure",
				zap.Int("attempt", i),
				zap.Int("attempts", attempts),
				zap.Error(err),
			)
		}
	}
	return err
}
