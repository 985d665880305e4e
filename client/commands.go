/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package client

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/simplexmpp/simplexmpp/xmpp"
)

const (
	minPriority = -128
	maxPriority = 127
)

const loggedOutStatus = "Logged out"

// Send sends a message to 'to'. If group is set the message is
// addressed to a room, otherwise it is a one-to-one chat message.
func (c *Client) Send(to, body string, group bool) {
	msgType := stravaganza.ChatType
	if group {
		msgType = xmpp.GroupChatType
	}
	c.runQueue.Run(func() {
		c.whenReady(func() {
			c.send(newMessage(to, msgType, xmpp.NewTextElement("body", body)))
		})
	})
}

// Join enters the room addressed by 'to' (room@service/nick).
// Room presences are reported as group buddy updates from then on.
func (c *Client) Join(to, password string) {
	c.runQueue.Run(func() {
		c.whenReady(func() {
			c.stores.rooms[xmpp.BareJID(to)] = struct{}{}

			x := stravaganza.NewBuilder("x").WithAttribute(stravaganza.Namespace, mucNamespace)
			if len(password) > 0 {
				x = x.WithChild(xmpp.NewTextElement("password", password))
			}
			c.send(xmpp.NewPresence(to, "", x.Build()))
		})
	})
}

// Invite sends a mediated invitation to 'to' through room.
func (c *Client) Invite(to, room, reason string) {
	c.runQueue.Run(func() {
		c.whenReady(func() {
			invite := stravaganza.NewBuilder("invite").WithAttribute("to", to)
			if len(reason) > 0 {
				invite = invite.WithChild(xmpp.NewTextElement("reason", reason))
			}
			x := stravaganza.NewBuilder("x").
				WithAttribute(stravaganza.Namespace, mucUserNamespace).
				WithChild(invite.Build()).
				Build()
			c.send(newMessage(room, "", x))
		})
	})
}

// Subscribe requests a presence subscription to 'to'.
func (c *Client) Subscribe(to string) {
	c.sendPresenceType(to, stravaganza.SubscribeType)
}

// Unsubscribe cancels a presence subscription to 'to'.
func (c *Client) Unsubscribe(to string) {
	c.sendPresenceType(to, stravaganza.UnsubscribeType)
}

// AcceptSubscription approves an incoming subscription request from 'to'.
func (c *Client) AcceptSubscription(to string) {
	c.sendPresenceType(to, stravaganza.SubscribedType)
}

// AcceptUnsubscription acknowledges an incoming unsubscription request from 'to'.
func (c *Client) AcceptUnsubscription(to string) {
	c.sendPresenceType(to, stravaganza.UnsubscribedType)
}

func (c *Client) sendPresenceType(to, presenceType string) {
	c.runQueue.Run(func() {
		c.whenReady(func() {
			c.send(xmpp.NewPresence(to, presenceType))
		})
	})
}

// FetchRoster requests the user roster.
// If fn is not nil it receives the roster items, or nil if the request failed.
func (c *Client) FetchRoster(fn func([]RosterItem)) {
	c.runQueue.Run(func() {
		c.whenReady(func() {
			if fn != nil {
				c.stores.iqCallbacks[rosterRequestID] = func(iq stravaganza.Element) {
					if xmpp.IsError(iq) {
						fn(nil)
						return
					}
					fn(DecodeRoster(iq.ChildNamespace("query", rosterNamespace)))
				}
			}
			c.send(stravaganza.NewBuilder(stravaganza.IQName).
				WithAttribute(stravaganza.ID, rosterRequestID).
				WithAttribute(stravaganza.Type, stravaganza.GetType).
				WithChild(
					stravaganza.NewBuilder("query").
						WithAttribute(stravaganza.Namespace, rosterNamespace).
						Build(),
				).
				Build())
		})
	})
}

// Probe requests the current presence of buddy.
// The first presence received from buddy afterwards is reported to fn
// and posted as a probe result event, instead of a buddy update.
func (c *Client) Probe(buddy string, fn ProbeFunc) {
	c.runQueue.Run(func() {
		c.stores.probes[buddy] = fn
		c.whenReady(func() {
			c.send(xmpp.NewPresence(buddy, stravaganza.ProbeType))
		})
	})
}

// FetchVCard requests buddy vCard. fn receives nil if buddy has no vCard
// or the request failed.
func (c *Client) FetchVCard(buddy string, fn func(VCard)) {
	c.runQueue.Run(func() {
		c.whenReady(func() {
			id := "get-vcard-" + strings.Replace(buddy, "@", "--", -1)
			if fn != nil {
				c.stores.iqCallbacks[id] = func(iq stravaganza.Element) {
					if xmpp.IsError(iq) {
						fn(nil)
						return
					}
					fn(vCardResponse(iq))
				}
			}
			c.send(vCardRequest(id, "", buddy))
		})
	})
}

// FetchVCardFor requests user vCard on behalf of 'from'.
// fn receives nil if the request failed.
func (c *Client) FetchVCardFor(from, user string, fn func(*VCardResult)) {
	c.runQueue.Run(func() {
		c.whenReady(func() {
			id := "get-vcard-" + strings.Replace(user, "@", "-", -1)
			if fn != nil {
				c.stores.iqCallbacks[id] = func(iq stravaganza.Element) {
					if xmpp.IsError(iq) {
						fn(nil)
						return
					}
					fn(&VCardResult{VCard: vCardResponse(iq), JID: from, User: user})
				}
			}
			c.send(vCardRequest(id, from, user))
		})
	})
}

// SetPresence broadcasts the session availability.
//
// show is omitted when empty or "online", status when empty.
// priority is omitted when nil; numeric values are truncated and clamped to [-128, 127],
// any other value is sent as 0.
func (c *Client) SetPresence(show, status string, priority interface{}) {
	c.runQueue.Run(func() {
		c.whenReady(func() {
			var children []stravaganza.Element
			if len(show) > 0 && show != StateOnline {
				children = append(children, xmpp.NewTextElement("show", show))
			}
			if len(status) > 0 {
				children = append(children, xmpp.NewTextElement("status", status))
			}
			if priority != nil {
				prio := strconv.Itoa(presencePriority(priority))
				children = append(children, xmpp.NewTextElement("priority", prio))
			}
			c.send(xmpp.NewPresence("", "", children...))
		})
	})
}

// SetChatState notifies 'to' about the local chat state (active, composing, paused, inactive, gone).
func (c *Client) SetChatState(to, state string) {
	c.runQueue.Run(func() {
		c.whenReady(func() {
			cs := stravaganza.NewBuilder(state).
				WithAttribute(stravaganza.Namespace, chatStatesNamespace).
				Build()
			c.send(newMessage(to, stravaganza.ChatType, cs))
		})
	})
}

// Disconnect announces the session as unavailable and closes the transport.
func (c *Client) Disconnect() {
	c.runQueue.Run(func() {
		c.whenReady(func() {
			c.send(xmpp.NewPresence("", stravaganza.UnavailableType, xmpp.NewTextElement("status", loggedOutStatus)))
		})
		if c.tr == nil {
			return
		}
		if err := c.tr.Close(); err != nil {
			c.onError(err)
		}
	})
}

// newMessage returns a message stanza with a fresh identifier.
func newMessage(to, msgType string, children ...stravaganza.Element) stravaganza.Element {
	b := stravaganza.NewBuilder(stravaganza.MessageName).
		WithAttribute(stravaganza.ID, uuid.New().String())
	if len(msgType) > 0 {
		b = b.WithAttribute(stravaganza.Type, msgType)
	}
	return b.
		WithAttribute(stravaganza.To, to).
		WithChildren(children...).
		Build()
}

func presencePriority(v interface{}) int {
	var f float64
	switch p := v.(type) {
	case int:
		f = float64(p)
	case int8:
		f = float64(p)
	case int16:
		f = float64(p)
	case int32:
		f = float64(p)
	case int64:
		f = float64(p)
	case uint:
		f = float64(p)
	case uint8:
		f = float64(p)
	case uint16:
		f = float64(p)
	case uint32:
		f = float64(p)
	case uint64:
		f = float64(p)
	case float32:
		f = float64(p)
	case float64:
		f = p
	default:
		return 0
	}
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Max(minPriority, math.Min(maxPriority, f)))
}
