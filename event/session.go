/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package event

import (
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
)

const (
	// Online event is posted once the session is established and ready. Info: *OnlineInfo.
	Online = "session.online"

	// Close event is posted when the transport reports connection closure. Info: nil.
	Close = "session.close"

	// Error event is posted on transport failures. Info: *ErrorInfo.
	Error = "session.error"

	// Stanza event is posted for every inbound element before classification. Info: *StanzaInfo.
	Stanza = "session.stanza"

	// UnhandledStanza event is posted for inbound elements no handler could fully interpret. Info: *StanzaInfo.
	UnhandledStanza = "session.unhandled_stanza"

	// Chat event is posted when a one-to-one chat message with a body is received. Info: *ChatInfo.
	Chat = "message.chat"

	// GroupChat event is posted when a room message with a body is received. Info: *GroupChatInfo.
	GroupChat = "message.groupchat"

	// ChatState event is posted when a chat state notification is received. Info: *ChatStateInfo.
	ChatState = "message.chatstate"

	// Subscribe event is posted on incoming subscription requests. Info: *SubscriptionInfo.
	Subscribe = "presence.subscribe"

	// Unsubscribe event is posted on incoming unsubscription requests. Info: *SubscriptionInfo.
	Unsubscribe = "presence.unsubscribe"

	// Buddy event is posted on availability changes of a contact. Info: *BuddyInfo.
	Buddy = "presence.buddy"

	// GroupBuddy event is posted on availability changes of a joined room occupant. Info: *GroupBuddyInfo.
	GroupBuddy = "presence.groupbuddy"

	// ProbeResult event is posted when a presence probe is answered. Info: *ProbeInfo.
	ProbeResult = "presence.probe_result"

	// BuddyCapabilities event is posted when the capabilities advertised by a contact are known. Info: *CapabilitiesInfo.
	BuddyCapabilities = "presence.capabilities"
)

// OnlineInfo contains the info associated to an Online event.
type OnlineInfo struct {
	// JID is the negotiated session address, if the transport provided one.
	JID *jid.JID
}

// ErrorInfo contains the info associated to an Error event.
type ErrorInfo struct {
	Err error
}

// StanzaInfo contains the info associated to Stanza and UnhandledStanza events.
type StanzaInfo struct {
	Stanza stravaganza.Element
}

// ChatInfo contains the info associated to a Chat event.
type ChatInfo struct {
	// From is the sender bare JID.
	From   string
	Body   string
	Stanza stravaganza.Element
}

// GroupChatInfo contains the info associated to a GroupChat event.
type GroupChatInfo struct {
	Room     string
	Nickname string
	Body     string

	// Stamp is the delayed delivery timestamp, empty for live messages.
	Stamp  string
	Stanza stravaganza.Element
}

// ChatStateInfo contains the info associated to a ChatState event.
type ChatStateInfo struct {
	// From is the sender full JID.
	From   string
	State  string
	Stanza stravaganza.Element
}

// SubscriptionInfo contains the info associated to Subscribe and Unsubscribe events.
type SubscriptionInfo struct {
	// From is the requester bare JID.
	From   string
	Stanza stravaganza.Element
}

// BuddyInfo contains the info associated to a Buddy event.
type BuddyInfo struct {
	JID      string
	State    string
	Status   string
	Resource string
	Stanza   stravaganza.Element
}

// GroupBuddyInfo contains the info associated to a GroupBuddy event.
type GroupBuddyInfo struct {
	Room     string
	Nickname string
	State    string
	Status   string
	Stanza   stravaganza.Element
}

// ProbeInfo contains the info associated to a ProbeResult event.
type ProbeInfo struct {
	JID    string
	State  string
	Status string
	Stanza stravaganza.Element
}

// CapabilitiesInfo contains the info associated to a BuddyCapabilities event.
type CapabilitiesInfo struct {
	JID        string
	ClientName string
	Features   []string
	Stanza     stravaganza.Element
}
