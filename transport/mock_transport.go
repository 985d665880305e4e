/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package transport

import (
	"sync"

	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
)

// MockTransport represents a mocked transport type.
// It records every sent element and lets tests inject lifecycle events.
type MockTransport struct {
	mu     sync.RWMutex
	hnd    Handler
	sent   []stravaganza.Element
	closed bool
}

// NewMockTransport returns a new MockTransport instance.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Start satisfies Transport interface.
func (mt *MockTransport) Start(h Handler) error {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.hnd != nil {
		return ErrAlreadyStarted
	}
	mt.hnd = h
	return nil
}

// Send records an element as sent.
func (mt *MockTransport) Send(elem stravaganza.Element) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.sent = append(mt.sent, elem)
}

// Close marks a mocked transport as closed.
func (mt *MockTransport) Close() error {
	mt.mu.Lock()
	mt.closed = true
	mt.mu.Unlock()
	return nil
}

// IsClosed returns whether or not the mocked transport
// has been previously closed.
func (mt *MockTransport) IsClosed() bool {
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	return mt.closed
}

// Sent returns all elements sent so far.
func (mt *MockTransport) Sent() []stravaganza.Element {
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	ret := make([]stravaganza.Element, len(mt.sent))
	copy(ret, mt.sent)
	return ret
}

// ClearSent discards recorded elements.
func (mt *MockTransport) ClearSent() {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.sent = nil
}

// Online simulates session establishment.
func (mt *MockTransport) Online(j *jid.JID) {
	mt.handler().OnOnline(j)
}

// Deliver simulates an inbound element.
func (mt *MockTransport) Deliver(elem stravaganza.Element) {
	mt.handler().OnStanza(elem)
}

// Fail simulates a transport failure.
func (mt *MockTransport) Fail(err error) {
	mt.handler().OnError(err)
}

// Disconnect simulates connection closure.
func (mt *MockTransport) Disconnect() {
	mt.handler().OnClose()
}

func (mt *MockTransport) handler() Handler {
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	return mt.hnd
}
