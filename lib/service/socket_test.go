// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/tray/lib/codec"
	"github.com/bureau-foundation/tray/lib/testutil"
)

// sendRequest writes one CBOR request to the socket and returns the
// decoded envelope.
func sendRequest(t *testing.T, socketPath string, request any) Response {
	t.Helper()

	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to socket: %v", err)
	}
	defer conn.Close()

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		t.Fatalf("writing request: %v", err)
	}
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	var response Response
	if err := codec.NewDecoder(conn).Decode(&response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return response
}

func decodeData(t *testing.T, response Response, target any) {
	t.Helper()
	if len(response.Data) == 0 {
		t.Fatal("response has no data to decode")
	}
	if err := codec.Unmarshal(response.Data, target); err != nil {
		t.Fatalf("decoding response data: %v", err)
	}
}

func testSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(testutil.SocketDir(t), "tray.sock")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// startServer runs Serve in the background and waits for it to be
// listening. The returned channel yields Serve's result after the
// test's context is cancelled.
func startServer(t *testing.T, server *SocketServer) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(ctx)
	}()
	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "socket server did not become ready")
	t.Cleanup(cancel)
	return cancel, serveDone
}

func TestSocketServerState(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), testLogger())
	server.Handle("state", func(ctx context.Context, raw []byte) (any, error) {
		return map[string]any{
			"language": "en",
			"items":    2,
		}, nil
	})
	cancel, serveDone := startServer(t, server)

	response := sendRequest(t, server.SocketPath(), map[string]string{"action": "state"})
	if !response.OK {
		t.Fatalf("expected ok=true, got error %q", response.Error)
	}

	var data map[string]any
	decodeData(t, response, &data)
	if data["language"] != "en" {
		t.Errorf("language = %v, want en", data["language"])
	}
	if data["items"] != uint64(2) {
		t.Errorf("items = %v (%T), want 2", data["items"], data["items"])
	}

	cancel()
	if err := testutil.RequireReceive(t, serveDone, 5*time.Second, "Serve did not return"); err != nil {
		t.Errorf("Serve returned error: %v", err)
	}
}

func TestSocketServerDecodesFields(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), testLogger())
	server.Handle("set-checked", func(ctx context.Context, raw []byte) (any, error) {
		var request struct {
			Item    string `cbor:"item"`
			Checked bool   `cbor:"checked"`
		}
		if err := DecodeRequest(raw, &request); err != nil {
			return nil, err
		}
		return request, nil
	})
	startServer(t, server)

	response := sendRequest(t, server.SocketPath(), map[string]any{
		"action":  "set-checked",
		"item":    "vdd_keep_enabled",
		"checked": true,
	})
	if !response.OK {
		t.Fatalf("expected ok=true, got error %q", response.Error)
	}
	var echoed map[string]any
	decodeData(t, response, &echoed)
	want := map[string]any{"item": "vdd_keep_enabled", "checked": true}
	if diff := cmp.Diff(want, echoed); diff != "" {
		t.Errorf("echoed fields mismatch (-want +got):\n%s", diff)
	}
}

func TestSocketServerErrors(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), testLogger())
	server.Handle("fail", func(ctx context.Context, raw []byte) (any, error) {
		return nil, errors.New("unknown item \"nope\"")
	})
	server.Handle("explode", func(ctx context.Context, raw []byte) (any, error) {
		panic("boom")
	})
	startServer(t, server)

	tests := []struct {
		name    string
		request any
		want    string
	}{
		{"unknown action", map[string]string{"action": "teleport"}, `unknown action "teleport"`},
		{"missing action", map[string]string{"item": "quit"}, "missing required field: action"},
		{"handler error", map[string]string{"action": "fail"}, `unknown item "nope"`},
		{"handler panic", map[string]string{"action": "explode"}, `internal error handling "explode"`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response := sendRequest(t, server.SocketPath(), test.request)
			if response.OK {
				t.Fatal("expected ok=false")
			}
			if response.Error != test.want {
				t.Errorf("error = %q, want %q", response.Error, test.want)
			}
		})
	}
}

func TestSocketServerInvalidCBOR(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), testLogger())
	startServer(t, server)

	conn, err := net.DialTimeout("unix", server.SocketPath(), 5*time.Second)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	defer conn.Close()

	// 0xff is a CBOR "break" with no enclosing indefinite item.
	if _, err := conn.Write([]byte{0xff}); err != nil {
		t.Fatalf("writing: %v", err)
	}
	conn.(*net.UnixConn).CloseWrite()

	var response Response
	if err := codec.NewDecoder(conn).Decode(&response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if response.OK {
		t.Error("expected ok=false for malformed request")
	}
}

func TestSocketServerNilResult(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), testLogger())
	server.Handle("rebuild", func(ctx context.Context, raw []byte) (any, error) {
		return nil, nil
	})
	startServer(t, server)

	response := sendRequest(t, server.SocketPath(), map[string]string{"action": "rebuild"})
	if !response.OK {
		t.Fatalf("expected ok=true, got error %q", response.Error)
	}
	if len(response.Data) != 0 {
		t.Errorf("expected empty data, got %d bytes", len(response.Data))
	}
}

func TestSocketServerConcurrentRequests(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), testLogger())
	var mutex sync.Mutex
	seen := make(map[string]int)
	server.Handle("notify", func(ctx context.Context, raw []byte) (any, error) {
		var request struct {
			Subject string `cbor:"subject"`
		}
		if err := DecodeRequest(raw, &request); err != nil {
			return nil, err
		}
		mutex.Lock()
		seen[request.Subject]++
		mutex.Unlock()
		return nil, nil
	})
	startServer(t, server)

	const workers = 16
	var wait sync.WaitGroup
	for range workers {
		subject := testutil.UniqueID("client")
		wait.Add(1)
		go func() {
			defer wait.Done()
			response := sendRequest(t, server.SocketPath(), map[string]string{
				"action":  "notify",
				"subject": subject,
			})
			if !response.OK {
				t.Errorf("request for %s failed: %s", subject, response.Error)
			}
		}()
	}
	wait.Wait()

	mutex.Lock()
	defer mutex.Unlock()
	if len(seen) != workers {
		t.Errorf("handled %d distinct subjects, want %d", len(seen), workers)
	}
}

func TestSocketServerGracefulShutdown(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), testLogger())
	handlerStarted := make(chan struct{})
	handlerRelease := make(chan struct{})
	server.Handle("slow", func(ctx context.Context, raw []byte) (any, error) {
		close(handlerStarted)
		<-handlerRelease
		return map[string]any{"completed": true}, nil
	})
	cancel, serveDone := startServer(t, server)

	responses := make(chan Response, 1)
	go func() {
		responses <- sendRequest(t, server.SocketPath(), map[string]string{"action": "slow"})
	}()

	testutil.RequireClosed(t, handlerStarted, 5*time.Second, "handler did not start")
	cancel()
	close(handlerRelease)

	response := testutil.RequireReceive(t, responses, 5*time.Second, "in-flight request did not complete")
	if !response.OK {
		t.Errorf("expected in-flight request to succeed, got %q", response.Error)
	}
	if err := testutil.RequireReceive(t, serveDone, 5*time.Second, "Serve did not return after cancellation"); err != nil {
		t.Errorf("Serve returned error: %v", err)
	}
	if _, err := os.Stat(server.SocketPath()); !os.IsNotExist(err) {
		t.Error("socket file not removed after Serve returned")
	}
}

func TestSocketServerMode(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), testLogger())
	startServer(t, server)

	info, err := os.Stat(server.SocketPath())
	if err != nil {
		t.Fatalf("stat socket: %v", err)
	}
	if mode := info.Mode().Perm(); mode != DefaultSocketMode {
		t.Errorf("socket mode = %o, want %o", mode, DefaultSocketMode)
	}
}

func TestSocketServerRemovesStaleSocket(t *testing.T) {
	socketPath := testSocketPath(t)
	if err := os.WriteFile(socketPath, []byte("stale"), 0o600); err != nil {
		t.Fatalf("writing stale file: %v", err)
	}
	server := NewSocketServer(socketPath, testLogger())
	server.Handle("rebuild", func(ctx context.Context, raw []byte) (any, error) { return nil, nil })
	startServer(t, server)

	if response := sendRequest(t, socketPath, map[string]string{"action": "rebuild"}); !response.OK {
		t.Errorf("request after stale socket removal failed: %s", response.Error)
	}
}

func TestSocketServerHandlePanics(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), testLogger())
	server.Handle("state", func(ctx context.Context, raw []byte) (any, error) { return nil, nil })

	for _, action := range []string{"state", ""} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Handle(%q) did not panic", action)
				}
			}()
			server.Handle(action, func(ctx context.Context, raw []byte) (any, error) { return nil, nil })
		}()
	}
}

func TestSocketServerActions(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), nil)
	for _, action := range []string{"state", "notify", "rebuild"} {
		server.Handle(action, func(ctx context.Context, raw []byte) (any, error) { return nil, nil })
	}
	want := []string{"notify", "rebuild", "state"}
	if diff := cmp.Diff(want, server.Actions()); diff != "" {
		t.Errorf("Actions mismatch (-want +got):\n%s", diff)
	}
}
