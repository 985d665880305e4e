/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package client

import (
	"github.com/go-kit/log/level"
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/simplexmpp/simplexmpp/xmpp"
)

func (c *Client) processIQ(stanza stravaganza.Element) {
	id := stanza.Attribute(stravaganza.ID)
	switch {
	case stanza.ChildNamespace("ping", pingNamespace) != nil:
		c.send(xmpp.ResultIQ(stanza))

	case id == discoInfoID:
		c.processDiscoInfo(stanza)

	default:
		c.unhandled(stanza)
	}
	if fn := c.stores.takeIQCallback(id); fn != nil {
		fn(stanza)
	}
}

// processDiscoInfo caches the capabilities answered for a node#ver key
// and notifies every contact waiting for them.
// Error replies are not cached, so a later presence asks again.
func (c *Client) processDiscoInfo(stanza stravaganza.Element) {
	query := stanza.ChildNamespace("query", discoInfoNamespace)
	if query == nil {
		level.Debug(c.logger).Log("msg", "ignoring disco info response without query", "from", stanza.Attribute(stravaganza.From))
		return
	}
	key := query.Attribute("node")
	if xmpp.IsError(stanza) {
		level.Debug(c.logger).Log("msg", "ignoring disco info error response", "from", stanza.Attribute(stravaganza.From), "node", key)
		c.stores.takeCapWaiters(key)
		return
	}
	caps := &Capabilities{}
	if identity := query.Child("identity"); identity != nil {
		caps.ClientName = identity.Attribute("name")
	}
	for _, feature := range query.Children("feature") {
		caps.Features = append(caps.Features, feature.Attribute("var"))
	}
	c.stores.capabilities[key] = caps

	for _, bareJID := range c.stores.takeCapWaiters(key) {
		c.postCapabilities(bareJID, caps, stanza)
	}
}
