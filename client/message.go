/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package client

import (
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/simplexmpp/simplexmpp/event"
	"github.com/simplexmpp/simplexmpp/xmpp"
)

func (c *Client) processMessage(stanza stravaganza.Element) {
	switch stanza.Attribute(stravaganza.Type) {
	case stravaganza.ChatType:
		c.processChatMessage(stanza)
	case xmpp.GroupChatType:
		c.processGroupChatMessage(stanza)
	default:
		c.unhandled(stanza)
	}
}

// a chat message may carry both a body and a chat state
func (c *Client) processChatMessage(stanza stravaganza.Element) {
	var handled bool

	from := stanza.Attribute(stravaganza.From)
	if body, ok := xmpp.ChildText(stanza, "body"); ok {
		c.hub.Post(event.Chat, &event.ChatInfo{
			From:   xmpp.BareJID(from),
			Body:   body,
			Stanza: stanza,
		})
		handled = true
	}
	if cs := chatState(stanza); cs != nil {
		c.hub.Post(event.ChatState, &event.ChatStateInfo{
			From:   from,
			State:  cs.Name(),
			Stanza: stanza,
		})
		handled = true
	}
	if !handled {
		c.unhandled(stanza)
	}
}

func (c *Client) processGroupChatMessage(stanza stravaganza.Element) {
	body, ok := xmpp.ChildText(stanza, "body")
	if !ok {
		c.unhandled(stanza) // subject changes, errors...
		return
	}
	room, nick := xmpp.SplitJID(stanza.Attribute(stravaganza.From))
	c.hub.Post(event.GroupChat, &event.GroupChatInfo{
		Room:     room,
		Nickname: nick,
		Body:     body,
		Stamp:    delayStamp(stanza),
		Stanza:   stanza,
	})
}

// delayStamp returns the delayed delivery timestamp of a message.
// Legacy <x stamp=""/> takes precedence over XEP-0203 delay.
func delayStamp(stanza stravaganza.Element) string {
	if x := stanza.Child("x"); x != nil {
		if stamp := x.Attribute("stamp"); len(stamp) > 0 {
			return stamp
		}
	}
	if delay := stanza.ChildNamespace("delay", delayNamespace); delay != nil {
		return delay.Attribute("stamp")
	}
	return ""
}

// chatState returns the first child qualified by the chat states namespace.
func chatState(stanza stravaganza.Element) stravaganza.Element {
	for _, ch := range stanza.AllChildren() {
		if ch.Attribute(stravaganza.Namespace) == chatStatesNamespace {
			return ch
		}
	}
	return nil
}
