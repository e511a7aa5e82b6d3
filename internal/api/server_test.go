package api

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"hellod/internal/apperrors"
	"hellod/internal/config"
	"hellod/internal/logging"
)

func silentLogger() *logging.Logger {
	return logging.New(logging.Config{
		Format: logging.JSONFormat,
		Level:  logging.ErrorLevel,
		Output: io.Discard,
	})
}

func TestStartFailsWhenPortInUse(t *testing.T) {
	// Occupy a port for the duration of the test
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to grab a port: %v", err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port

	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = port

	server := NewServer(cfg, silentLogger())

	err = server.Start()
	if err == nil {
		t.Fatal("Start() should fail when the port is occupied")
	}
	if apperrors.CodeOf(err) != apperrors.PortInUse {
		t.Errorf("code = %q, want PORT_IN_USE", apperrors.CodeOf(err))
	}
	if !strings.Contains(err.Error(), strconv.Itoa(port)) {
		t.Errorf("error should name the port %d, got %q", port, err.Error())
	}
}

func TestStartAndGracefulShutdown(t *testing.T) {
	// Find a free port; the window between Close and Start is small
	// enough for a local test.
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to probe for a port: %v", err)
	}
	port := probe.Addr().(*net.TCPAddr).Port
	_ = probe.Close()

	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = port

	server := NewServer(cfg, silentLogger())

	started := make(chan error, 1)
	go func() {
		started <- server.Start()
	}()

	// Wait for the listener to come up
	url := fmt.Sprintf("http://127.0.0.1:%d/hello", port)
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never became reachable: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "Hello world" {
		t.Errorf("GET /hello = %d %q, want 200 Hello world", resp.StatusCode, body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	if err := <-started; err != nil {
		t.Errorf("Start() after graceful shutdown = %v, want nil", err)
	}
}
