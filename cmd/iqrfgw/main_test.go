package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/muurk/iqrfgw/internal/bridge"
	"github.com/muurk/iqrfgw/internal/protocol"
	"github.com/muurk/iqrfgw/internal/testutil/daemontest"
)

// execute runs the root command with args and returns what it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv(bridge.URLEnvVar, "")

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	rootCmd.SetArgs(args)
	err = rootCmd.Execute()

	_ = w.Close()
	return <-done, err
}

func TestBondedCommand(t *testing.T) {
	srv := daemontest.New(t, daemontest.Reply(daemontest.Response(protocol.MTypeCoordinatorBondedDevices,
		map[string]any{"result": map[string]any{"bondedDevices": []int{1, 2, 3}}}, 0)))

	out, err := execute(t, "--url", srv.WSURL(), "--timeout", "2s", "bonded")
	if err != nil {
		t.Fatalf("bonded error = %v", err)
	}
	if !strings.Contains(out, "3 node(s): [1 2 3]") {
		t.Errorf("output = %q, want the bonded list", out)
	}
}

func TestRawCommand(t *testing.T) {
	srv := daemontest.New(t, daemontest.Reply(daemontest.RawResponse("2a.00.06.83.ff.ff.00.44")))

	out, err := execute(t, "--url", srv.WSURL(), "--timeout", "2s", "raw", "00.00.06.03.ff.ff", "--nadr", "2a")
	if err != nil {
		t.Fatalf("raw error = %v", err)
	}
	if !strings.Contains(out, `"request": "2a.00.06.03.ff.ff"`) {
		t.Errorf("output = %q, want rewritten request", out)
	}
}

func TestRawCommand_InvalidPacket(t *testing.T) {
	_, err := execute(t, "--url", "ws://127.0.0.1:1", "raw", "00.00")
	if !protocol.IsInvalidPacket(err) {
		t.Errorf("raw error = %v, want invalid packet", err)
	}
}

func TestSendCommand_DpaError(t *testing.T) {
	srv := daemontest.New(t, daemontest.Reply(daemontest.Response("iqrfEmbedLedr_Pulse", map[string]any{}, -3)))

	_, err := execute(t, "--url", srv.WSURL(), "--timeout", "2s",
		"send", "--mtype", "iqrfEmbedLedr_Pulse", "--data", `{"nAdr":1,"param":{}}`)
	if !protocol.IsDpaError(err) || protocol.ErrorCode(err) != -3 {
		t.Errorf("send error = %v, want DPA error -3", err)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 || !strings.Contains(string(reqs[0]), `"req":{"nAdr":1,"param":{}}`) {
		t.Errorf("daemon received %q", reqs)
	}
}

func TestConfigSetURL_Verify(t *testing.T) {
	srv := daemontest.New(t, daemontest.Reply(daemontest.Response(protocol.MTypeCoordinatorAddrInfo,
		map[string]any{"result": map[string]any{"devNr": 2, "did": 7}}, 0)))

	out, err := execute(t, "--timeout", "2s", "config", "set-url", srv.WSURL(), "--name", "lab", "--verify")
	if err != nil {
		t.Fatalf("config set-url error = %v", err)
	}
	if !strings.Contains(out, "2 bonded node(s)") || !strings.Contains(out, "Saved.") {
		t.Errorf("output = %q", out)
	}
	if gw := sess.registry.GetGateway("lab"); gw == nil || gw.URL != srv.WSURL() {
		t.Errorf("gateway lab = %+v, want %s", gw, srv.WSURL())
	}
}

func TestConfigSetURL_Rejects(t *testing.T) {
	if _, err := execute(t, "config", "set-url", "http://gw:1338", "--name", ""); err == nil {
		t.Error("set-url should reject non-ws URLs")
	}
}
