/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package client

import (
	"github.com/go-kit/log/level"
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/simplexmpp/simplexmpp/event"
	"github.com/simplexmpp/simplexmpp/xmpp"
)

const (
	chatStatesNamespace = "http://jabber.org/protocol/chatstates"
	capsNamespace       = "http://jabber.org/protocol/caps"
	discoInfoNamespace  = "http://jabber.org/protocol/disco#info"
	pingNamespace       = "urn:xmpp:ping"
	mucNamespace        = "http://jabber.org/protocol/muc"
	mucUserNamespace    = "http://jabber.org/protocol/muc#user"
	vCardNamespace      = "vcard-temp"
	rosterNamespace     = "jabber:iq:roster"
	delayNamespace      = "urn:xmpp:delay"
)

func (c *Client) processStanza(stanza stravaganza.Element) {
	c.hub.Post(event.Stanza, &event.StanzaInfo{Stanza: stanza})

	switch stanza.Name() {
	case stravaganza.MessageName:
		c.processMessage(stanza)
	case xmpp.PresenceName:
		c.processPresence(stanza)
	case stravaganza.IQName:
		c.processIQ(stanza)
	default:
		c.unhandled(stanza)
	}
}

func (c *Client) unhandled(stanza stravaganza.Element) {
	level.Debug(c.logger).Log("msg", "unhandled stanza", "name", stanza.Name(), "id", stanza.Attribute(stravaganza.ID))
	c.hub.Post(event.UnhandledStanza, &event.StanzaInfo{Stanza: stanza})
}
