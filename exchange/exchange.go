/*
Package exchange transports moves between the processes taking part in a match.

Every participant writes to its own slot and reads from a slot written by its
counterpart. A move for turn n is written as a data item, followed by a signal
item. Readers wait for the signal, polling at a fixed interval up to a timeout,
and then read the data item:

	Player1_3               // data: the city played
	Player1_TriggerRSP_3    // signal: "TAG! You're it."

Two naming schemes for signals are in use: players sign their moves with
"TriggerRSP", the referee signs the moves it forwards with "Trigger".

Implementations exist for a shared directory (type File) and for a Redis
server (type Redis).

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'geography.exchange'
func tracer() tracing.Trace {
	return tracing.Select("geography.exchange")
}

// Exchange submits moves and awaits the moves of a counterpart.
type Exchange interface {
	// Submit publishes text as the move for a turn.
	Submit(ctx context.Context, turn int, text string) error
	// AwaitAndRead waits for the counterpart's move for a turn. If no move has
	// been signaled in time, it returns whatever text is available (usually
	// none) together with ErrTimeout.
	AwaitAndRead(ctx context.Context, turn int) (string, error)
}

// ErrTimeout is returned if a counterpart did not signal a move in time.
var ErrTimeout = errors.New("timeout waiting for move")

// TriggerText is the content of every signal item.
const TriggerText = "TAG! You're it."

// Slot names the data and signal items of one participant.
type Slot struct {
	Prefix  string // e.g. "Player1"
	Trigger string // infix of signal items
}

// PlayerSlot is the slot a player writes to.
func PlayerSlot(prefix string) Slot {
	return Slot{Prefix: prefix, Trigger: "TriggerRSP"}
}

// ControlSlot is the slot a referee writes to.
func ControlSlot(prefix string) Slot {
	return Slot{Prefix: prefix, Trigger: "Trigger"}
}

// Data is the name of the data item for a turn.
func (s Slot) Data(turn int) string {
	return fmt.Sprintf("%s_%d", s.Prefix, turn)
}

// Signal is the name of the signal item for a turn.
func (s Slot) Signal(turn int) string {
	return fmt.Sprintf("%s_%s_%d", s.Prefix, s.Trigger, turn)
}

func (s Slot) String() string {
	return s.Prefix + "/" + s.Trigger
}

// --- Options ---------------------------------------------------------------

const (
	DefaultInterval = 100 * time.Millisecond
	DefaultTimeout  = 3 * time.Second
)

// Option configures an exchange.
type Option func(*options)

type options struct {
	interval time.Duration
	timeout  time.Duration
	ttl      time.Duration
}

func makeOptions(opts []Option) options {
	o := options{
		interval: DefaultInterval,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.interval <= 0 {
		o.interval = DefaultInterval
	}
	if o.timeout < 0 {
		o.timeout = 0
	}
	return o
}

// Interval sets the polling interval. Default is 100ms.
func Interval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
	}
}

// Timeout sets the time to wait for a counterpart's signal. Default is 3s.
func Timeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// TTL sets an expiry for items written. It is honored by exchanges which
// support expiry. Default is no expiry.
func TTL(d time.Duration) Option {
	return func(o *options) {
		o.ttl = d
	}
}

// poll calls ready at a fixed interval until it reports true, returns an
// error, or the timeout elapses.
func poll(ctx context.Context, interval, timeout time.Duration, ready func() (bool, error)) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		ok, err := ready()
		if err != nil || ok {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			if ok, err := ready(); err != nil || ok {
				return err
			}
			return ErrTimeout
		case <-ticker.C:
		}
	}
}
