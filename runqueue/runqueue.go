/*
 * Copyright (c) 2019 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package runqueue

import (
	"runtime"
	"sync/atomic"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/simplexmpp/simplexmpp/runqueue/mpsc"
)

const (
	idle int32 = iota
	running
)

// RunQueue represents a lock-free operation queue.
//
// Operations posted to a RunQueue never run concurrently with each other
// and run in posting order, which gives every owner of a RunQueue a single
// logical thread of control without explicit locking.
type RunQueue struct {
	name         string
	logger       kitlog.Logger
	queue        *mpsc.Queue
	messageCount int32
	state        int32
	stopped      int32
}

type funcMessage struct{ fn func() }
type stopMessage struct{ stopCb func() }

// New returns an initialized lock-free operation queue.
// Panics raised by queued operations are recovered and logged to logger.
func New(name string, logger kitlog.Logger) *RunQueue {
	return &RunQueue{
		name:   name,
		logger: logger,
		queue:  mpsc.New(),
	}
}

// Run pushes a new operation function into the queue.
func (m *RunQueue) Run(fn func()) {
	if atomic.LoadInt32(&m.stopped) == 1 {
		return
	}
	atomic.AddInt32(&m.messageCount, 1)
	m.queue.Push(&funcMessage{fn: fn})
	m.schedule()
}

// Stop signals the queue to stop running.
//
// Callback function represented by 'stopCb' its guaranteed to be immediately executed only if no job has been
// previously scheduled.
func (m *RunQueue) Stop(stopCb func()) {
	if atomic.CompareAndSwapInt32(&m.stopped, 0, 1) {
		if atomic.LoadInt32(&m.messageCount) > 0 {
			atomic.AddInt32(&m.messageCount, 1)
			m.queue.Push(&stopMessage{stopCb: stopCb})
			m.schedule()
			return
		}
	}
	if stopCb != nil {
		stopCb()
	}
}

func (m *RunQueue) schedule() {
	if atomic.CompareAndSwapInt32(&m.state, idle, running) {
		go m.process()
	}
}

func (m *RunQueue) process() {

process:
	if !m.run() {
		return
	}

	atomic.StoreInt32(&m.state, idle)
	if atomic.LoadInt32(&m.messageCount) > 0 {
		// try setting the queue back to running
		if atomic.CompareAndSwapInt32(&m.state, idle, running) {
			goto process
		}
	}
}

// run drains the queue. It returns false once a stop message is processed.
func (m *RunQueue) run() bool {
	for {
		switch msg := m.queue.Pop().(type) {
		case *funcMessage:
			m.exec(msg.fn)
			atomic.AddInt32(&m.messageCount, -1)
		case *stopMessage:
			if cb := msg.stopCb; cb != nil {
				cb()
			}
			atomic.AddInt32(&m.messageCount, -1)
			return false
		default:
			return true
		}
	}
}

func (m *RunQueue) exec(fn func()) {
	defer func() {
		if err := recover(); err != nil {
			m.logStackTrace(err)
		}
	}()
	fn()
}

func (m *RunQueue) logStackTrace(err interface{}) {
	stackSlice := make([]byte, 4096)
	s := runtime.Stack(stackSlice, false)

	level.Error(m.logger).Log("msg", "runqueue panicked", "runqueue", m.name, "err", err, "stack", string(stackSlice[0:s]))
}
