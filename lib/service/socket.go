// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/bureau-foundation/tray/lib/codec"
)

// ActionFunc handles one request. raw is the complete CBOR request,
// including the "action" key; handlers decode their own fields from
// it with [DecodeRequest].
//
// A nil result produces {ok: true}. A non-nil result is encoded into
// the response's data field. A returned error produces {ok: false}
// with the error text.
type ActionFunc func(ctx context.Context, raw []byte) (any, error)

// Response is the envelope written for every request.
type Response struct {
	OK    bool             `cbor:"ok"`
	Error string           `cbor:"error,omitempty"`
	Data  codec.RawMessage `cbor:"data,omitempty"`
}

// DefaultSocketMode restricts the socket to the owning user.
const DefaultSocketMode fs.FileMode = 0o600

// SocketServer serves the one-request-per-connection CBOR protocol on
// a Unix socket. Register handlers with Handle before Serve.
type SocketServer struct {
	socketPath string
	mode       fs.FileMode
	handlers   map[string]ActionFunc
	logger     *slog.Logger

	ready     chan struct{}
	readyOnce sync.Once

	// active tracks in-flight connections so Serve can drain them.
	active sync.WaitGroup
}

// NewSocketServer returns a server for socketPath.
func NewSocketServer(socketPath string, logger *slog.Logger) *SocketServer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SocketServer{
		socketPath: socketPath,
		mode:       DefaultSocketMode,
		handlers:   make(map[string]ActionFunc),
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// SetMode changes the permission bits applied to the socket file.
func (server *SocketServer) SetMode(mode fs.FileMode) {
	server.mode = mode
}

// Handle registers handler for action. It panics on a duplicate
// registration, which is always a wiring bug.
func (server *SocketServer) Handle(action string, handler ActionFunc) {
	if action == "" {
		panic("service.SocketServer: empty action name")
	}
	if _, exists := server.handlers[action]; exists {
		panic(fmt.Sprintf("service.SocketServer: duplicate handler for action %q", action))
	}
	server.handlers[action] = handler
}

// Actions returns the registered action names, sorted.
func (server *SocketServer) Actions() []string {
	actions := make([]string, 0, len(server.handlers))
	for action := range server.handlers {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}

// SocketPath returns the path the server listens on.
func (server *SocketServer) SocketPath() string {
	return server.socketPath
}

// Ready is closed once the socket is listening.
func (server *SocketServer) Ready() <-chan struct{} {
	return server.ready
}

// Serve listens on the socket and dispatches requests until ctx is
// cancelled, then waits for in-flight requests to finish.
//
// A stale socket file at the path is removed first. The socket file
// is removed again on return.
func (server *SocketServer) Serve(ctx context.Context) error {
	if err := os.Remove(server.socketPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing stale socket %s: %w", server.socketPath, err)
	}

	listener, err := net.Listen("unix", server.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", server.socketPath, err)
	}
	defer func() {
		listener.Close()
		os.Remove(server.socketPath)
	}()

	if err := os.Chmod(server.socketPath, server.mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", server.socketPath, err)
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	server.logger.Info("socket server listening",
		"path", server.socketPath,
		"actions", len(server.handlers),
	)
	server.readyOnce.Do(func() { close(server.ready) })

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			server.logger.Error("accept failed", "error", err)
			continue
		}

		server.active.Add(1)
		go func() {
			defer server.active.Done()
			server.handleConnection(ctx, conn)
		}()
	}

	server.active.Wait()
	return nil
}

const (
	// readTimeout bounds how long a client may take to send its
	// request after connecting.
	readTimeout = 10 * time.Second

	writeTimeout = 10 * time.Second

	// maxRequestSize caps a single request. Control requests are a
	// handful of short strings; a state report is the largest payload.
	maxRequestSize = 256 * 1024
)

func (server *SocketServer) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(readTimeout))

	var raw codec.RawMessage
	if err := codec.NewDecoder(io.LimitReader(conn, maxRequestSize)).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		server.writeError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}

	var header struct {
		Action string `cbor:"action"`
	}
	if err := codec.Unmarshal(raw, &header); err != nil {
		server.writeError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if header.Action == "" {
		server.writeError(conn, "missing required field: action")
		return
	}

	handler, exists := server.handlers[header.Action]
	if !exists {
		server.writeError(conn, fmt.Sprintf("unknown action %q", header.Action))
		return
	}

	result, err := server.invoke(ctx, header.Action, handler, raw)
	if err != nil {
		server.logger.Debug("action failed", "action", header.Action, "error", err)
		server.writeError(conn, err.Error())
		return
	}
	server.writeSuccess(conn, result)
}

// invoke runs a handler, converting a panic into an error response so
// one bad request cannot take down the tray.
func (server *SocketServer) invoke(ctx context.Context, action string, handler ActionFunc, raw []byte) (result any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			server.logger.Error("action panicked", "action", action, "panic", recovered)
			result, err = nil, fmt.Errorf("internal error handling %q", action)
		}
	}()
	return handler(ctx, raw)
}

func (server *SocketServer) writeError(conn net.Conn, message string) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := codec.NewEncoder(conn).Encode(Response{OK: false, Error: message}); err != nil {
		server.logger.Debug("writing error response", "error", err)
	}
}

func (server *SocketServer) writeSuccess(conn net.Conn, result any) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	response := Response{OK: true}
	if result != nil {
		data, err := codec.Marshal(result)
		if err != nil {
			server.writeError(conn, fmt.Sprintf("internal: encoding response: %v", err))
			return
		}
		response.Data = data
	}
	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		server.logger.Debug("writing success response", "error", err)
	}
}

// DecodeRequest decodes the action-specific fields of raw into target.
func DecodeRequest(raw []byte, target any) error {
	if err := codec.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("invalid request fields: %w", err)
	}
	return nil
}
