/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package client

import (
	"testing"

	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/simplexmpp/simplexmpp/event"
	"github.com/stretchr/testify/require"
)

const bobCaps = `<c xmlns="http://jabber.org/protocol/caps" hash="sha-1" node="http://psi-im.org" ver="q07IKJEyjvHSyhy//CH0CxmKi8w="/>`

func TestPresence_WithoutFrom(t *testing.T) {
	s := newOnlineSession(t)

	s.deliver(t, `<presence><show>away</show></presence>`)

	require.Equal(t, []string{event.UnhandledStanza}, s.rec.names())
}

func TestPresence_Subscription(t *testing.T) {
	s := newOnlineSession(t)

	s.deliver(t, `<presence from="bob@example.com/phone" type="subscribe"/>`)
	s.deliver(t, `<presence from="bob@example.com" type="unsubscribe"/>`)

	require.Equal(t, []string{event.Subscribe, event.Unsubscribe}, s.rec.names())
	require.Equal(t, "bob@example.com", s.rec.named(event.Subscribe)[0].Info.(*event.SubscriptionInfo).From)
	require.Equal(t, "bob@example.com", s.rec.named(event.Unsubscribe)[0].Info.(*event.SubscriptionInfo).From)
}

func TestPresence_Buddy(t *testing.T) {
	s := newOnlineSession(t)

	s.deliver(t, `<presence from="bob@example.com/phone"><show>dnd</show><status>meeting</status></presence>`)

	// capability-less presences are also reported as unhandled
	require.Equal(t, []string{event.Buddy, event.UnhandledStanza}, s.rec.names())

	info := s.rec.named(event.Buddy)[0].Info.(*event.BuddyInfo)
	require.Equal(t, "bob@example.com", info.JID)
	require.Equal(t, StateDND, info.State)
	require.Equal(t, "meeting", info.Status)
	require.Equal(t, "phone", info.Resource)
}

func TestPresence_BareFrom(t *testing.T) {
	s := newOnlineSession(t)

	s.deliver(t, `<presence from="bob@example.com"/>`)

	info := s.rec.named(event.Buddy)[0].Info.(*event.BuddyInfo)
	require.Equal(t, "bob@example.com", info.JID)
	require.Equal(t, "", info.Resource)
	require.Equal(t, StateOnline, info.State)
}

func TestPresence_StateResolution(t *testing.T) {
	var tests = []struct {
		src   string
		state string
	}{
		{`<presence from="b@x.org/r"/>`, StateOnline},
		{`<presence from="b@x.org/r"><show>chat</show></presence>`, StateOnline},
		{`<presence from="b@x.org/r"><show>away</show></presence>`, StateAway},
		{`<presence from="b@x.org/r"><show>xa</show></presence>`, StateXA},
		{`<presence from="b@x.org/r" type="unavailable"/>`, StateOffline},
		{`<presence from="b@x.org/r" type="unavailable"><show>chat</show></presence>`, StateOffline},
		{`<presence from="b@x.org/r" type="unavailable"><show>away</show></presence>`, StateOffline},
	}
	for _, tt := range tests {
		require.Equal(t, tt.state, presenceState(parseStanza(t, tt.src)), tt.src)
	}
}

func TestPresence_RoomMember(t *testing.T) {
	s := newOnlineSession(t)

	s.c.Join("room@conf.example/nick", "")
	s.drain()

	s.deliver(t, `<presence from="room@conf.example/nick"><show>away</show></presence>`)

	require.Len(t, s.rec.named(event.Buddy), 0)
	evs := s.rec.named(event.GroupBuddy)
	require.Len(t, evs, 1)

	info := evs[0].Info.(*event.GroupBuddyInfo)
	require.Equal(t, "room@conf.example", info.Room)
	require.Equal(t, "nick", info.Nickname)
	require.Equal(t, StateAway, info.State)
}

func TestPresence_Probe(t *testing.T) {
	s := newOnlineSession(t)

	var calls int
	var gotState, gotStatus string
	var gotStanza stravaganza.Element
	s.c.Probe("alice@example.com", func(state, status string, stanza stravaganza.Element) {
		calls++
		gotState, gotStatus, gotStanza = state, status, stanza
	})
	s.drain()

	sent := s.tr.Sent()
	require.Len(t, sent, 1)
	requireStanza(t, `<presence to="alice@example.com" type="probe"/>`, sent[0])

	elem := s.deliver(t, `<presence from="alice@example.com/phone" type="unavailable"><status>gone</status></presence>`)

	require.Equal(t, 1, calls)
	require.Equal(t, StateOffline, gotState)
	require.Equal(t, "gone", gotStatus)
	require.Equal(t, elem, gotStanza)
	require.Len(t, s.rec.named(event.Buddy), 0)

	evs := s.rec.named(event.ProbeResult)
	require.Len(t, evs, 1)
	require.Equal(t, "alice@example.com", evs[0].Info.(*event.ProbeInfo).JID)

	_, pending := s.c.stores.probes["alice@example.com"]
	require.False(t, pending)

	// probe registrations are consumed once
	s.deliver(t, `<presence from="alice@example.com/phone"/>`)
	require.Equal(t, 1, calls)
	require.Len(t, s.rec.named(event.ProbeResult), 1)
	require.Len(t, s.rec.named(event.Buddy), 1)
}

func TestPresence_RequestedPresenceBeforeOnline(t *testing.T) {
	s := newTestSession(t, nil)

	var states []string
	s.c.Probe("alice@example.com", func(state, _ string, _ stravaganza.Element) {
		states = append(states, state)
	})
	s.drain()

	// registered right away, the request itself waits for the session
	_, registered := s.c.stores.probes["alice@example.com"]
	require.True(t, registered)
	require.Len(t, s.tr.Sent(), 0)

	s.online()

	sent := s.tr.Sent()
	require.Len(t, sent, 1)
	requireStanza(t, `<presence to="alice@example.com" type="probe"/>`, sent[0])

	s.deliver(t, `<presence from="alice@example.com/phone"/>`)
	require.Equal(t, []string{StateOnline}, states)
	require.Len(t, s.rec.named(event.ProbeResult), 1)
	require.Len(t, s.rec.named(event.Buddy), 0)
}

func TestPresence_RequestedPresenceSurvivesClose(t *testing.T) {
	s := newTestSession(t, nil)

	var calls int
	s.c.Probe("alice@example.com", func(_, _ string, _ stravaganza.Element) { calls++ })
	s.tr.Disconnect()
	s.drain()

	// the queued request is discarded with the session...
	s.online()
	require.Len(t, s.tr.Sent(), 0)

	// ...but the registration still claims the next presence
	_, registered := s.c.stores.probes["alice@example.com"]
	require.True(t, registered)

	s.deliver(t, `<presence from="alice@example.com/phone"/>`)
	require.Equal(t, 1, calls)
	require.Len(t, s.rec.named(event.ProbeResult), 1)
	require.Len(t, s.rec.named(event.Buddy), 0)
}

func TestPresence_ProbeBeforeRoom(t *testing.T) {
	s := newOnlineSession(t)

	s.c.Join("room@conf.example/nick", "")
	s.c.Probe("room@conf.example", nil)
	s.drain()

	s.deliver(t, `<presence from="room@conf.example/nick"/>`)
	require.Len(t, s.rec.named(event.ProbeResult), 1)
	require.Len(t, s.rec.named(event.GroupBuddy), 0)

	s.deliver(t, `<presence from="room@conf.example/nick"/>`)
	require.Len(t, s.rec.named(event.GroupBuddy), 1)
}

func TestPresence_CapabilitiesWithoutVer(t *testing.T) {
	s := newOnlineSession(t)

	s.deliver(t, `<presence from="bob@example.com/phone"><c xmlns="http://jabber.org/protocol/caps" node="http://psi-im.org"/></presence>`)

	require.Equal(t, []string{event.Buddy, event.UnhandledStanza}, s.rec.names())
	require.Len(t, s.tr.Sent(), 0)
}

func TestPresence_CapabilitiesDiscovery(t *testing.T) {
	s := newOnlineSession(t)

	s.deliver(t, `<presence from="bob@example.com/phone">`+bobCaps+`</presence>`)
	s.deliver(t, `<presence from="carol@example.com/desk">`+bobCaps+`</presence>`)

	require.Equal(t, []string{event.Buddy, event.Buddy}, s.rec.names())

	// a single disco request per node#ver
	sent := s.tr.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, stravaganza.IQName, sent[0].Name())
	require.Equal(t, "disco1", sent[0].Attribute(stravaganza.ID))
	require.Equal(t, stravaganza.GetType, sent[0].Attribute(stravaganza.Type))
	require.Equal(t, "bob@example.com/phone", sent[0].Attribute(stravaganza.To))

	query := sent[0].ChildNamespace("query", discoInfoNamespace)
	require.NotNil(t, query)
	require.Equal(t, "http://psi-im.org#q07IKJEyjvHSyhy//CH0CxmKi8w=", query.Attribute("node"))

	s.deliver(t, `<iq from="bob@example.com/phone" id="disco1" type="result">`+
		`<query xmlns="http://jabber.org/protocol/disco#info" node="http://psi-im.org#q07IKJEyjvHSyhy//CH0CxmKi8w=">`+
		`<identity category="client" name="Psi" type="pc"/>`+
		`<feature var="http://jabber.org/protocol/caps"/>`+
		`<feature var="urn:xmpp:ping"/>`+
		`</query></iq>`)

	evs := s.rec.named(event.BuddyCapabilities)
	require.Len(t, evs, 2)
	require.Equal(t, "bob@example.com", evs[0].Info.(*event.CapabilitiesInfo).JID)
	require.Equal(t, "carol@example.com", evs[1].Info.(*event.CapabilitiesInfo).JID)

	info := evs[0].Info.(*event.CapabilitiesInfo)
	require.Equal(t, "Psi", info.ClientName)
	require.Equal(t, []string{"http://jabber.org/protocol/caps", "urn:xmpp:ping"}, info.Features)
	require.Len(t, s.c.stores.capWaiters, 0)

	// cached from now on
	s.rec.reset()
	s.deliver(t, `<presence from="dave@example.com/home">`+bobCaps+`</presence>`)

	require.Equal(t, []string{event.Buddy, event.BuddyCapabilities}, s.rec.names())
	require.Equal(t, "dave@example.com", s.rec.named(event.BuddyCapabilities)[0].Info.(*event.CapabilitiesInfo).JID)
	require.Len(t, s.tr.Sent(), 1)
}
