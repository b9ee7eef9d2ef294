// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"context"
	"sync/atomic"
	"time"
)

// The Listener interface is implemented by anything the clock can pulse.
type Listener interface {
	Pulse()
}

// A Clock pulses its listeners, in registration order, once per tick.
type Clock struct {
	Period    time.Duration // time between ticks; zero runs as fast as possible
	listeners []Listener
	ticks     atomic.Uint64
	stopped   atomic.Bool
	tracer    Tracer
}

// NewClock creates a clock that ticks once per period.
func NewClock(period time.Duration) *Clock {
	return &Clock{Period: period, tracer: nopTracer{}}
}

// SetTracer attaches a tracer that receives the tick count on every tick.
func (c *Clock) SetTracer(t Tracer) {
	if t == nil {
		t = nopTracer{}
	}
	c.tracer = t
}

// AddListener appends a listener. Listeners must be added before the clock
// runs.
func (c *Clock) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Tick pulses every listener once. It returns after the last listener
// returns.
func (c *Clock) Tick() {
	n := c.ticks.Add(1)
	for _, l := range c.listeners {
		l.Pulse()
	}
	c.tracer.TraceClock(n)
}

// Ticks returns the number of ticks since the clock was created.
func (c *Clock) Ticks() uint64 {
	return c.ticks.Load()
}

// Run ticks the clock until Stop is called or the context is done. It
// returns nil when stopped and the context's error otherwise. Calling Run
// clears any earlier Stop request.
func (c *Clock) Run(ctx context.Context) error {
	c.stopped.Store(false)

	var tick <-chan time.Time
	if c.Period > 0 {
		t := time.NewTicker(c.Period)
		defer t.Stop()
		tick = t.C
	}

	for !c.stopped.Load() {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		c.Tick()
	}
	return nil
}

// Stop asks a running clock to return from Run after the current tick. It
// may be called from any goroutine, including from within a listener.
func (c *Clock) Stop() {
	c.stopped.Store(true)
}
