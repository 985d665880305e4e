/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package client

import "github.com/jackal-xmpp/stravaganza/v2"

// ProbeFunc is invoked once with the availability resolved from a probed contact presence.
type ProbeFunc func(state, status string, stanza stravaganza.Element)

// Capabilities represents the entity capabilities resolved for a node#ver key.
type Capabilities struct {
	ClientName string
	Features   []string
}

// stores groups the session correlation tables.
// Entries are never expired: unanswered probes and IQ requests
// live as long as the client does.
type stores struct {
	probes       map[string]ProbeFunc                 // bare JID
	rooms        map[string]struct{}                  // room bare JID
	capabilities map[string]*Capabilities             // node#ver
	capWaiters   map[string][]string                  // node#ver -> bare JIDs
	iqCallbacks  map[string]func(stravaganza.Element) // stanza id
}

func newStores() *stores {
	return &stores{
		probes:       make(map[string]ProbeFunc),
		rooms:        make(map[string]struct{}),
		capabilities: make(map[string]*Capabilities),
		capWaiters:   make(map[string][]string),
		iqCallbacks:  make(map[string]func(stravaganza.Element)),
	}
}

func (s *stores) takeProbe(bareJID string) (ProbeFunc, bool) {
	fn, ok := s.probes[bareJID]
	if ok {
		delete(s.probes, bareJID)
	}
	return fn, ok
}

func (s *stores) isRoom(bareJID string) bool {
	_, ok := s.rooms[bareJID]
	return ok
}

// addCapWaiter registers bareJID as waiting for key.
// It returns true if bareJID is the first waiter for key.
func (s *stores) addCapWaiter(key, bareJID string) bool {
	waiters, ok := s.capWaiters[key]
	s.capWaiters[key] = append(waiters, bareJID)
	return !ok
}

func (s *stores) takeCapWaiters(key string) []string {
	waiters := s.capWaiters[key]
	delete(s.capWaiters, key)
	return waiters
}

func (s *stores) takeIQCallback(id string) func(stravaganza.Element) {
	fn := s.iqCallbacks[id]
	if fn != nil {
		delete(s.iqCallbacks, id)
	}
	return fn
}
