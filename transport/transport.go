/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package transport

import (
	"errors"

	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
)

// ErrAlreadyStarted is returned by Start when the transport is already delivering events.
var ErrAlreadyStarted = errors.New("transport: already started")

// Handler receives transport lifecycle events and inbound stanzas.
type Handler interface {
	// OnOnline is invoked once the XMPP session is established.
	// j is the negotiated session address, or nil if unknown.
	OnOnline(j *jid.JID)

	// OnClose is invoked once when the connection terminates.
	OnClose()

	// OnError is invoked on transport-level failures.
	OnError(err error)

	// OnStanza is invoked for every fully parsed inbound element.
	OnStanza(elem stravaganza.Element)
}

// Transport represents an XMPP stream transport.
// Stream negotiation, authentication and framing are its concern;
// the session only sees lifecycle events and parsed stanzas.
type Transport interface {
	// Start begins delivering events to h.
	Start(h Handler) error

	// Send writes an element to the peer. Delivery is not acknowledged.
	Send(elem stravaganza.Element)

	// Close terminates the connection.
	Close() error
}
