/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package client

import (
	"errors"
	"strings"
	"sync"
	"testing"

	kitlog "github.com/go-kit/log"
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
	"github.com/simplexmpp/simplexmpp/event"
	"github.com/simplexmpp/simplexmpp/transport"
	"github.com/simplexmpp/simplexmpp/xmpp"
	"github.com/stretchr/testify/require"
)

var allEvents = []string{
	event.Online,
	event.Close,
	event.Error,
	event.Stanza,
	event.UnhandledStanza,
	event.Chat,
	event.GroupChat,
	event.ChatState,
	event.Subscribe,
	event.Unsubscribe,
	event.Buddy,
	event.GroupBuddy,
	event.ProbeResult,
	event.BuddyCapabilities,
}

type eventRecorder struct {
	mu     sync.Mutex
	events []*event.Event
}

func (r *eventRecorder) handle(ev *event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) named(name string) []*event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ret []*event.Event
	for _, ev := range r.events {
		if ev.Name == name {
			ret = append(ret, ev)
		}
	}
	return ret
}

// names returns recorded event names, skipping raw stanza events.
func (r *eventRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ret []string
	for _, ev := range r.events {
		if ev.Name != event.Stanza {
			ret = append(ret, ev.Name)
		}
	}
	return ret
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type testSession struct {
	c   *Client
	tr  *transport.MockTransport
	rec *eventRecorder
}

func newTestSession(t *testing.T, cfg *Config) *testSession {
	hub := event.NewHub()
	rec := &eventRecorder{}
	for _, name := range allEvents {
		hub.Subscribe(name, rec.handle, event.DefaultPriority)
	}
	tr := transport.NewMockTransport()
	c := New(hub, kitlog.NewNopLogger())
	if cfg == nil {
		cfg = &Config{SkipPresence: true}
	}
	require.Nil(t, c.Connect(cfg, tr))
	return &testSession{c: c, tr: tr, rec: rec}
}

func newOnlineSession(t *testing.T) *testSession {
	s := newTestSession(t, nil)
	s.online()
	s.rec.reset()
	return s
}

// drain waits until every operation posted so far has been executed.
func (s *testSession) drain() {
	done := make(chan struct{})
	s.c.runQueue.Run(func() { close(done) })
	<-done
}

func (s *testSession) online() {
	j, _ := jid.NewWithString("alice@example.com/laptop", true)
	s.tr.Online(j)
	s.drain()
}

func (s *testSession) deliver(t *testing.T, src string) stravaganza.Element {
	elem := parseStanza(t, src)
	s.tr.Deliver(elem)
	s.drain()
	return elem
}

func parseStanza(t *testing.T, src string) stravaganza.Element {
	p := xmpp.NewParser(strings.NewReader(src), xmpp.DefaultMode, 0)
	elem, err := p.Parse()
	require.Nil(t, err)
	require.NotNil(t, elem)
	return elem
}

// requireStanza checks elem serializes the same as the expected document.
func requireStanza(t *testing.T, expected string, elem stravaganza.Element) {
	t.Helper()
	require.Equal(t, xmpp.String(parseStanza(t, expected)), xmpp.String(elem))
}

func TestClient_ConnectTwice(t *testing.T) {
	s := newTestSession(t, nil)
	require.Equal(t, ErrAlreadyConnected, s.c.Connect(&Config{}, transport.NewMockTransport()))
}

func TestClient_OnlineSendsInitialPresence(t *testing.T) {
	s := newTestSession(t, &Config{})
	s.online()

	sent := s.tr.Sent()
	require.Len(t, sent, 1)
	requireStanza(t, "<presence/>", sent[0])

	evs := s.rec.named(event.Online)
	require.Len(t, evs, 1)
	require.Equal(t, "alice@example.com/laptop", evs[0].Info.(*event.OnlineInfo).JID.String())
}

func TestClient_OnlineFallsBackToConfiguredJID(t *testing.T) {
	configured, _ := jid.NewWithString("alice@example.com/desk", true)
	s := newTestSession(t, &Config{JID: configured, SkipPresence: true})

	s.tr.Online(nil)
	s.drain()

	evs := s.rec.named(event.Online)
	require.Len(t, evs, 1)
	require.Equal(t, "alice@example.com/desk", evs[0].Info.(*event.OnlineInfo).JID.String())

	// a negotiated address takes precedence
	s.online()
	evs = s.rec.named(event.Online)
	require.Len(t, evs, 2)
	require.Equal(t, "alice@example.com/laptop", evs[1].Info.(*event.OnlineInfo).JID.String())
}

func TestClient_OnlineWithoutAnyJID(t *testing.T) {
	s := newTestSession(t, nil)

	s.tr.Online(nil)
	s.drain()

	evs := s.rec.named(event.Online)
	require.Len(t, evs, 1)
	require.Nil(t, evs[0].Info.(*event.OnlineInfo).JID)
}

func TestClient_SkipPresence(t *testing.T) {
	s := newTestSession(t, &Config{SkipPresence: true})
	s.online()

	require.Len(t, s.tr.Sent(), 0)
	require.Len(t, s.rec.named(event.Online), 1)
}

func TestClient_ReadyGateReplaysInOrder(t *testing.T) {
	s := newTestSession(t, &Config{})

	s.c.Subscribe("bob@example.com")
	s.c.Send("bob@example.com", "hello", false)
	s.c.AcceptSubscription("carol@example.com")
	s.drain()

	// nothing goes out before the session is ready
	require.Len(t, s.tr.Sent(), 0)

	s.online()

	sent := s.tr.Sent()
	require.Len(t, sent, 4)
	requireStanza(t, "<presence/>", sent[0])
	require.Equal(t, stravaganza.SubscribeType, sent[1].Attribute(stravaganza.Type))
	require.Equal(t, stravaganza.MessageName, sent[2].Name())
	require.Equal(t, stravaganza.SubscribedType, sent[3].Attribute(stravaganza.Type))

	// once ready, commands are sent right away
	s.c.Unsubscribe("bob@example.com")
	s.drain()
	require.Len(t, s.tr.Sent(), 5)
}

func TestClient_CloseDiscardsPending(t *testing.T) {
	s := newTestSession(t, nil)

	s.c.Subscribe("bob@example.com")
	s.tr.Disconnect()
	s.drain()
	require.Len(t, s.rec.named(event.Close), 1)

	s.online()
	require.Len(t, s.tr.Sent(), 0)

	// gate closes again after a disconnection
	s.tr.Disconnect()
	s.c.Subscribe("bob@example.com")
	s.drain()
	require.Len(t, s.tr.Sent(), 0)
}

func TestClient_TransportError(t *testing.T) {
	s := newOnlineSession(t)

	err := errors.New("connection reset")
	s.tr.Fail(err)
	s.drain()

	evs := s.rec.named(event.Error)
	require.Len(t, evs, 1)
	require.Equal(t, err, evs[0].Info.(*event.ErrorInfo).Err)
}

func TestClient_RawStanzaEvent(t *testing.T) {
	s := newOnlineSession(t)

	elem := s.deliver(t, `<foo xmlns="urn:example"/>`)

	evs := s.rec.named(event.Stanza)
	require.Len(t, evs, 1)
	require.Equal(t, elem, evs[0].Info.(*event.StanzaInfo).Stanza)

	// unknown elements are never dropped
	require.Equal(t, []string{event.UnhandledStanza}, s.rec.names())
}

func TestClient_HandlerPanicDoesNotKillSession(t *testing.T) {
	s := newOnlineSession(t)
	s.c.Hub().Subscribe(event.Chat, func(_ *event.Event) { panic("boom") }, event.HighestPriority)

	s.deliver(t, `<message from="bob@example.com/phone" type="chat"><body>hi</body></message>`)
	s.deliver(t, `<message from="bob@example.com/phone" type="chat"><body>again</body></message>`)

	require.Len(t, s.rec.named(event.Stanza), 2)
}

func TestClient_Shutdown(t *testing.T) {
	s := newOnlineSession(t)
	s.c.Shutdown()

	s.tr.Deliver(parseStanza(t, `<foo/>`))
	require.Len(t, s.rec.named(event.Stanza), 0)
}
