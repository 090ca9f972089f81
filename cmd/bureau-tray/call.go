// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tray/lib/cli"
	"github.com/bureau-foundation/tray/lib/codec"
	"github.com/bureau-foundation/tray/lib/hostlink"
	"github.com/bureau-foundation/tray/lib/service"
)

func callCommand(stdout io.Writer) *cli.Command {
	var (
		flags      configFlags
		socketPath string
		timeout    time.Duration
		diagnostic bool
	)
	return &cli.Command{
		Name:    "call",
		Summary: "Send one control request to a running tray",
		Description: `Send a request to the tray's control socket and print the response
data as JSON.

Fields are key=value pairs. Values true and false are booleans,
integers are numbers, and anything else is a string. Use key:=JSON to
pass a JSON value verbatim.

Actions: ` + strings.Join(hostlink.ControlActions(), ", "),
		Usage: "bureau-tray call <action> [key=value | key:=json ...] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("call", pflag.ContinueOnError)
			flags.add(flagSet)
			flagSet.StringVar(&socketPath, "socket", "", "control socket (default: host.control_socket)")
			flagSet.DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
			flagSet.BoolVar(&diagnostic, "diag", false, "print the response in CBOR diagnostic notation")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Show the menu state", Command: "bureau-tray call state"},
			{Description: "Switch the menu to Japanese", Command: "bureau-tray call set-language language=ja"},
			{Description: "Mirror the virtual display state", Command: "bureau-tray call display-state can_create=false can_close=true active=true"},
			{Description: "Show a pairing toast", Command: "bureau-tray call notify kind=pairing-request subject=Pixel"},
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return cli.Validation("action required (one of %s)", strings.Join(hostlink.ControlActions(), ", "))
			}
			action := args[0]
			fields, err := parseFields(args[1:])
			if err != nil {
				return err
			}
			if socketPath == "" {
				cfg, err := flags.load()
				if err != nil {
					return err
				}
				socketPath = cfg.Host.ControlSocket
			}

			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			var data codec.RawMessage
			if err := service.NewClient(socketPath).Call(ctx, action, fields, &data); err != nil {
				if diagnosed := cli.DiagnoseSocketError(err, socketPath, "tray"); diagnosed != nil {
					return diagnosed
				}
				var callError *service.CallError
				if errors.As(err, &callError) && strings.HasPrefix(callError.Message, "unknown action") {
					return cli.Validation("%w", err)
				}
				return err
			}
			return writeResponse(stdout, data, diagnostic)
		},
	}
}

// parseFields turns key=value and key:=json arguments into request
// fields.
func parseFields(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		if key, raw, ok := strings.Cut(arg, ":="); ok && key != "" && !strings.Contains(key, "=") {
			var value any
			if err := json.Unmarshal([]byte(raw), &value); err != nil {
				return nil, cli.Validation("field %s: invalid JSON: %w", key, err)
			}
			fields[key] = value
			continue
		}
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, cli.Validation("expected key=value or key:=json, got %q", arg)
		}
		if key == "action" {
			return nil, cli.Validation("the action is the first argument, not a field")
		}
		fields[key] = fieldValue(value)
	}
	return fields, nil
}

func fieldValue(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if number, err := strconv.ParseInt(value, 10, 64); err == nil {
		return number
	}
	return value
}

func writeResponse(w io.Writer, data codec.RawMessage, diagnostic bool) error {
	if len(data) == 0 {
		_, err := fmt.Fprintln(w, "ok")
		return err
	}
	if diagnostic {
		notation, err := codec.Diagnose(data)
		if err != nil {
			return cli.Internal("diagnosing response: %w", err)
		}
		_, err = fmt.Fprintln(w, notation)
		return err
	}
	converted, err := codec.ToJSON(data)
	if err != nil {
		return cli.Internal("%w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", converted)
	return err
}
