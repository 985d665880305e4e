/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package client

import (
	"errors"
	"sync/atomic"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
	"github.com/simplexmpp/simplexmpp/event"
	"github.com/simplexmpp/simplexmpp/runqueue"
	"github.com/simplexmpp/simplexmpp/transport"
	"github.com/simplexmpp/simplexmpp/xmpp"
)

// ErrAlreadyConnected is returned by Connect when invoked more than once on the same client.
var ErrAlreadyConnected = errors.New("client: already connected")

// Config represents a client session configuration.
type Config struct {
	// JID is the configured session address.
	// It is reported on going online when the transport does not negotiate one.
	JID *jid.JID

	// SkipPresence avoids sending the initial available presence when the session goes online.
	SkipPresence bool
}

// Client represents a single XMPP session.
//
// Every transport notification and every command is executed on the client run queue,
// so correlation stores and the ready gate are never accessed concurrently.
type Client struct {
	hub       *event.Hub
	logger    kitlog.Logger
	runQueue  *runqueue.RunQueue
	connected int32

	// run queue owned state
	cfg     Config
	tr      transport.Transport
	ready   bool
	pending []func()
	stores  *stores
}

// New returns a new client instance posting its events to hub.
func New(hub *event.Hub, logger kitlog.Logger) *Client {
	return &Client{
		hub:      hub,
		logger:   logger,
		runQueue: runqueue.New("client", logger),
		stores:   newStores(),
	}
}

// Hub returns the hub the client events are posted to.
func (c *Client) Hub() *event.Hub {
	return c.hub
}

// Connect binds the client to tr and starts the transport.
// Commands issued before the session goes online are held until then.
func (c *Client) Connect(cfg *Config, tr transport.Transport) error {
	if !atomic.CompareAndSwapInt32(&c.connected, 0, 1) {
		return ErrAlreadyConnected
	}
	c.runQueue.Run(func() {
		if cfg != nil {
			c.cfg = *cfg
		}
		c.tr = tr
	})
	return tr.Start((*transportHandler)(c))
}

// Shutdown stops the client run queue.
// Transport notifications received afterwards are ignored.
func (c *Client) Shutdown() {
	ch := make(chan struct{})
	c.runQueue.Stop(func() { close(ch) })
	<-ch
}

func (c *Client) onOnline(j *jid.JID) {
	if j == nil {
		j = c.cfg.JID
	}
	if !c.cfg.SkipPresence {
		c.send(xmpp.NewPresence("", ""))
	}
	c.openGate()

	level.Info(c.logger).Log("msg", "session online", "jid", j)
	c.hub.Post(event.Online, &event.OnlineInfo{JID: j})
}

func (c *Client) onClose() {
	c.closeGate()

	level.Info(c.logger).Log("msg", "session closed")
	c.hub.Post(event.Close, nil)
}

func (c *Client) onError(err error) {
	level.Error(c.logger).Log("msg", "transport failure", "err", err)
	c.hub.Post(event.Error, &event.ErrorInfo{Err: err})
}

func (c *Client) send(elem stravaganza.Element) {
	if c.tr == nil {
		return
	}
	c.tr.Send(elem)
}

// transportHandler forwards transport notifications into the client run queue.
type transportHandler Client

func (h *transportHandler) OnOnline(j *jid.JID) {
	c := (*Client)(h)
	c.runQueue.Run(func() { c.onOnline(j) })
}

func (h *transportHandler) OnClose() {
	c := (*Client)(h)
	c.runQueue.Run(c.onClose)
}

func (h *transportHandler) OnError(err error) {
	c := (*Client)(h)
	c.runQueue.Run(func() { c.onError(err) })
}

func (h *transportHandler) OnStanza(elem stravaganza.Element) {
	c := (*Client)(h)
	c.runQueue.Run(func() { c.processStanza(elem) })
}
