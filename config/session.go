/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package config

import (
	"github.com/jackal-xmpp/stravaganza/v2/jid"
	"github.com/pkg/errors"
)

// Session represents a client session configuration.
type Session struct {
	JID          *jid.JID
	SkipPresence bool
}

type sessionProxyType struct {
	JID          string `yaml:"jid"`
	SkipPresence bool   `yaml:"skip_presence"`
}

// UnmarshalYAML satisfies Unmarshaler interface.
func (s *Session) UnmarshalYAML(unmarshal func(interface{}) error) error {
	p := sessionProxyType{}
	if err := unmarshal(&p); err != nil {
		return err
	}
	if len(p.JID) == 0 {
		return errors.New("config.Session: jid not specified")
	}
	j, err := jid.NewWithString(p.JID, false)
	if err != nil {
		return errors.Wrapf(err, "config.Session: invalid jid %s", p.JID)
	}
	s.JID = j
	s.SkipPresence = p.SkipPresence
	return nil
}
