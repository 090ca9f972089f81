// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostlink

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/tray/lib/clock"
	"github.com/bureau-foundation/tray/lib/service"
)

// DefaultQueueSize bounds the activations waiting for delivery.
const DefaultQueueSize = 64

// deliveryTimeout bounds one menu-activated call to the host.
const deliveryTimeout = 5 * time.Second

// drainTimeout bounds delivery of the activations still queued when Run
// is cancelled.
const drainTimeout = 2 * time.Second

// NotifierConfig configures a Notifier.
type NotifierConfig struct {
	// SocketPath is the host's notify socket. Required.
	SocketPath string

	// QueueSize bounds the delivery queue. Zero uses DefaultQueueSize.
	QueueSize int

	// Clock stamps activations. Nil uses clock.Real().
	Clock clock.Clock

	Logger *slog.Logger
}

// Notifier forwards activations to the host. Notify never blocks, so
// it is safe to call from the UI goroutine; Run performs the socket
// I/O. An activation that arrives while the queue is full is dropped
// and counted.
type Notifier struct {
	client *service.Client
	queue  chan Activation
	clock  clock.Clock
	logger *slog.Logger

	sequence  atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

// NewNotifier returns a Notifier for config.SocketPath. Start Run
// before activations are expected.
func NewNotifier(config NotifierConfig) *Notifier {
	size := config.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	stamp := config.Clock
	if stamp == nil {
		stamp = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Notifier{
		client: service.NewClient(config.SocketPath),
		queue:  make(chan Activation, size),
		clock:  stamp,
		logger: logger.With("component", "notifier", "socket", config.SocketPath),
	}
}

// Notify implements menu.Notifier.
func (notifier *Notifier) Notify(itemID string) {
	activation := Activation{
		Item:     itemID,
		Sequence: notifier.sequence.Add(1),
		Time:     notifier.clock.Now(),
	}
	select {
	case notifier.queue <- activation:
	default:
		notifier.dropped.Add(1)
		notifier.logger.Warn("activation queue full, dropping",
			"item", itemID,
			"sequence", activation.Sequence,
		)
	}
}

// Run delivers queued activations until ctx is cancelled. A delivery
// already started when ctx ends runs to completion, and activations
// still queued are delivered under a fresh context bounded by
// drainTimeout before Run returns.
func (notifier *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			notifier.drain(nil)
			return
		case activation := <-notifier.queue:
			if ctx.Err() != nil {
				notifier.drain(&activation)
				return
			}
			notifier.deliver(context.WithoutCancel(ctx), activation)
		}
	}
}

// drain delivers first, if set, and everything left in the queue.
func (notifier *Notifier) drain(first *Activation) {
	if first == nil && len(notifier.queue) == 0 {
		return
	}
	drainContext, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if first != nil {
		notifier.deliver(drainContext, *first)
	}
	for {
		select {
		case activation := <-notifier.queue:
			notifier.deliver(drainContext, activation)
		default:
			return
		}
	}
}

func (notifier *Notifier) deliver(ctx context.Context, activation Activation) {
	callContext, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	err := notifier.client.Call(callContext, ActionMenuActivated, map[string]any{
		"item":     activation.Item,
		"sequence": activation.Sequence,
		"time":     activation.Time,
	}, nil)
	if err != nil {
		notifier.failed.Add(1)
		notifier.logger.Warn("delivering activation failed",
			"item", activation.Item,
			"sequence", activation.Sequence,
			"error", err,
		)
		return
	}
	notifier.delivered.Add(1)
	notifier.logger.Debug("activation delivered",
		"item", activation.Item,
		"sequence", activation.Sequence,
	)
}

// NotifierStats counts activations by outcome.
type NotifierStats struct {
	Delivered uint64 `json:"delivered"`
	Dropped   uint64 `json:"dropped"`
	Failed    uint64 `json:"failed"`
	Pending   int    `json:"pending"`
}

// Stats returns the current counters.
func (notifier *Notifier) Stats() NotifierStats {
	return NotifierStats{
		Delivered: notifier.delivered.Load(),
		Dropped:   notifier.dropped.Load(),
		Failed:    notifier.failed.Load(),
		Pending:   len(notifier.queue),
	}
}
