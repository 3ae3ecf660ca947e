package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/iqrfgw/internal/bridge"
	"github.com/muurk/iqrfgw/internal/config"
	"github.com/muurk/iqrfgw/internal/logging"
)

// Persistent flags
var (
	flagURL         string
	flagGateway     string
	flagTimeout     time.Duration
	flagLogLevel    string
	flagMetricsAddr string
)

// session is what every command needs after flags are parsed
type session struct {
	registry *config.Registry
	url      string
	timeout  time.Duration
	metrics  *bridge.Metrics
	bridge   *bridge.Bridge
}

var sess *session

func setup(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(flagLogLevel); err != nil {
		return err
	}
	if cmd == versionCmd {
		return nil
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	url := flagURL
	if url == "" {
		if url, err = registry.ResolveDaemonURL(flagGateway); err != nil {
			return err
		}
	}

	timeout := flagTimeout
	if timeout <= 0 {
		timeout = registry.Timeout()
	}

	s := &session{registry: registry, url: url, timeout: timeout}

	addr := flagMetricsAddr
	if addr == "" && registry.Preferences != nil {
		addr = registry.Preferences.MetricsAddr
	}
	if addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		s.metrics = bridge.NewMetrics(reg)
		serveMetrics(addr, reg)
	}

	s.bridge = bridge.New(bridge.Config{URL: url, Metrics: s.metrics})
	logging.Debug("Session ready",
		zap.String("url", s.bridge.URL()),
		zap.Duration("timeout", timeout),
		zap.String("command", cmd.Name()),
	)

	sess = s
	return nil
}

// serveMetrics exposes reg until the process exits
func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	logging.Info("Serving metrics", zap.String("addr", addr))
}

// printJSON writes v indented to stdout
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// interruptContext is cancelled on Ctrl-C or SIGTERM
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
