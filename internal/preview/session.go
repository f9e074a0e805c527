// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package preview

import (
	"image"
	"sync"
	"time"

	"github.com/gogpu/magicwand"
)

// Op is a selection command.
type Op uint8

// Selection commands.
const (
	OpGrow Op = iota
	OpReset
	OpClear
)

// String returns the command name.
func (o Op) String() string {
	switch o {
	case OpGrow:
		return "grow"
	case OpReset:
		return "reset"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

type command struct {
	seq  uint64
	op   Op
	x, y int
}

// Result is the outcome of one command.
type Result struct {
	Seq     uint64
	Op      Op
	X, Y    int
	Count   int64
	Rect    image.Rectangle
	Mask    *magicwand.Mask
	Elapsed time.Duration
	Err     error
}

// Session runs selection commands for one engine on a worker goroutine.
//
// The engine is touched only by the worker, so callers on the UI goroutine
// never block on a long grow. Every command gets a sequence number; a
// result whose Seq is older than Latest is stale and should be dropped.
type Session struct {
	engine *magicwand.Engine
	notify func(Result)

	cmds chan command
	done chan struct{}

	mu     sync.Mutex
	seq    uint64
	closed bool
}

// NewSession starts a worker owning engine. notify is called on the worker
// goroutine after each command.
func NewSession(engine *magicwand.Engine, notify func(Result)) *Session {
	s := &Session{
		engine: engine,
		notify: notify,
		cmds:   make(chan command, 16),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Grow queues a grow from (x, y) and returns its sequence number.
func (s *Session) Grow(x, y int) uint64 { return s.submit(OpGrow, x, y) }

// Reset queues a reset and returns its sequence number.
func (s *Session) Reset() uint64 { return s.submit(OpReset, 0, 0) }

// Clear queues a clear and returns its sequence number.
func (s *Session) Clear() uint64 { return s.submit(OpClear, 0, 0) }

// Latest returns the sequence number of the most recent command.
func (s *Session) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Stale reports whether r was superseded by a later command.
func (s *Session) Stale(r Result) bool {
	return r.Seq != s.Latest()
}

func (s *Session) submit(op Op, x, y int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	s.seq++
	s.cmds <- command{seq: s.seq, op: op, x: x, y: y}
	return s.seq
}

// Close stops the worker, waits for the command in progress and closes
// the engine. Close is idempotent. The session never uploads, so the
// engine holds no texture and may be closed from the calling goroutine.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.cmds)
	s.mu.Unlock()

	<-s.done
	return s.engine.Close()
}

func (s *Session) run() {
	defer close(s.done)
	for cmd := range s.cmds {
		r := s.execute(cmd)
		if s.notify != nil {
			s.notify(r)
		}
	}
}

func (s *Session) execute(cmd command) Result {
	r := Result{Seq: cmd.seq, Op: cmd.op, X: cmd.x, Y: cmd.y}
	start := time.Now()

	switch cmd.op {
	case OpGrow:
		_, r.Err = s.engine.GrowFrom(cmd.x, cmd.y)
	case OpReset:
		r.Err = s.engine.Reset()
	case OpClear:
		r.Err = s.engine.Clear()
	}
	if r.Err == nil {
		r.Mask, r.Err = s.engine.Snapshot()
	}
	if r.Mask != nil {
		r.Count = r.Mask.Count()
		r.Rect = r.Mask.Rect()
	}
	r.Elapsed = time.Since(start)
	return r
}
