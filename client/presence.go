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

// Availability states.
const (
	StateAway    = "away"
	StateDND     = "dnd"
	StateXA      = "xa"
	StateOnline  = "online"
	StateOffline = "offline"
)

const (
	discoInfoID  = "disco1"
	chatShowType = "chat"
)

func (c *Client) processPresence(stanza stravaganza.Element) {
	from := stanza.Attribute(stravaganza.From)
	if len(from) == 0 {
		c.unhandled(stanza)
		return
	}
	switch stanza.Attribute(stravaganza.Type) {
	case stravaganza.SubscribeType:
		c.hub.Post(event.Subscribe, &event.SubscriptionInfo{From: xmpp.BareJID(from), Stanza: stanza})
		return
	case stravaganza.UnsubscribeType:
		c.hub.Post(event.Unsubscribe, &event.SubscriptionInfo{From: xmpp.BareJID(from), Stanza: stanza})
		return
	}
	bareJID, resource := xmpp.SplitJID(from)
	status, _ := xmpp.ChildText(stanza, "status")
	state := presenceState(stanza)

	// probe responses take precedence over room membership
	if fn, ok := c.stores.takeProbe(bareJID); ok {
		if fn != nil {
			fn(state, status, stanza)
		}
		c.hub.Post(event.ProbeResult, &event.ProbeInfo{
			JID:    bareJID,
			State:  state,
			Status: status,
			Stanza: stanza,
		})
	} else if c.stores.isRoom(bareJID) {
		c.hub.Post(event.GroupBuddy, &event.GroupBuddyInfo{
			Room:     bareJID,
			Nickname: resource,
			State:    state,
			Status:   status,
			Stanza:   stanza,
		})
	} else {
		c.hub.Post(event.Buddy, &event.BuddyInfo{
			JID:      bareJID,
			State:    state,
			Status:   status,
			Resource: resource,
			Stanza:   stanza,
		})
	}
	c.processEntityCaps(stanza, bareJID)
}

func (c *Client) processEntityCaps(stanza stravaganza.Element, bareJID string) {
	caps := stanza.ChildNamespace("c", capsNamespace)
	if caps == nil {
		c.unhandled(stanza)
		return
	}
	ver := caps.Attribute("ver")
	if len(ver) == 0 {
		c.unhandled(stanza)
		return
	}
	key := capabilitiesKey(caps.Attribute("node"), ver)
	if cached := c.stores.capabilities[key]; cached != nil {
		c.postCapabilities(bareJID, cached, stanza)
		return
	}
	if c.stores.addCapWaiter(key, bareJID) {
		c.requestCapabilities(stanza.Attribute(stravaganza.From), key)
	}
}

func (c *Client) requestCapabilities(to, key string) {
	c.send(stravaganza.NewBuilder(stravaganza.IQName).
		WithAttribute(stravaganza.ID, discoInfoID).
		WithAttribute(stravaganza.Type, stravaganza.GetType).
		WithAttribute(stravaganza.To, to).
		WithChild(
			stravaganza.NewBuilder("query").
				WithAttribute(stravaganza.Namespace, discoInfoNamespace).
				WithAttribute("node", key).
				Build(),
		).
		Build())
}

func (c *Client) postCapabilities(bareJID string, caps *Capabilities, stanza stravaganza.Element) {
	c.hub.Post(event.BuddyCapabilities, &event.CapabilitiesInfo{
		JID:        bareJID,
		ClientName: caps.ClientName,
		Features:   caps.Features,
		Stanza:     stanza,
	})
}

// presenceState resolves the availability state carried by a presence stanza.
func presenceState(stanza stravaganza.Element) string {
	if stanza.Attribute(stravaganza.Type) == stravaganza.UnavailableType {
		return StateOffline
	}
	show, ok := xmpp.ChildText(stanza, "show")
	if !ok || show == chatShowType {
		return StateOnline
	}
	return show
}

func capabilitiesKey(node, ver string) string {
	return node + "#" + ver
}
