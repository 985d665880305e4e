/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package xmpp

import (
	"strings"

	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/simplexmpp/simplexmpp/bufferpool"
)

// PresenceName represents "presence" stanza name.
const PresenceName = "presence"

// GroupChatType represents a 'groupchat' message type.
const GroupChatType = "groupchat"

// IsError tells whether elem is an error-typed stanza.
func IsError(elem stravaganza.Element) bool {
	return elem.Attribute(stravaganza.Type) == stravaganza.ErrorType
}

// ChildText returns the text of the first child named name,
// and whether such a child exists.
func ChildText(elem stravaganza.Element, name string) (string, bool) {
	child := elem.Child(name)
	if child == nil {
		return "", false
	}
	return child.Text(), true
}

// ResultIQ returns the empty result IQ answering iq: same identifier,
// addressed back to the requesting entity.
func ResultIQ(iq stravaganza.Element) stravaganza.Element {
	b := stravaganza.NewBuilder(stravaganza.IQName).
		WithAttribute(stravaganza.ID, iq.Attribute(stravaganza.ID)).
		WithAttribute(stravaganza.Type, stravaganza.ResultType)
	if from := iq.Attribute(stravaganza.From); len(from) > 0 {
		b = b.WithAttribute(stravaganza.To, from)
	}
	return b.Build()
}

// NewPresence returns a presence stanza addressed to 'to' of type presenceType.
// Empty arguments leave the matching attribute out.
func NewPresence(to string, presenceType string, children ...stravaganza.Element) stravaganza.Element {
	b := stravaganza.NewBuilder(PresenceName)
	if len(to) > 0 {
		b = b.WithAttribute(stravaganza.To, to)
	}
	if len(presenceType) > 0 {
		b = b.WithAttribute(stravaganza.Type, presenceType)
	}
	return b.WithChildren(children...).Build()
}

// NewTextElement returns a childless element named name holding text.
func NewTextElement(name, text string) stravaganza.Element {
	return stravaganza.NewBuilder(name).WithText(text).Build()
}

// String returns the XML serialization of elem.
func String(elem stravaganza.Element) string {
	buf := bufferpool.Get()
	defer bufferpool.Put(buf)

	if err := elem.ToXML(buf, true); err != nil {
		return ""
	}
	return buf.String()
}

// SplitJID separates an address into its bare part and its resource,
// cutting at the first '/'. It never fails: an address with no
// resource yields an empty resource.
func SplitJID(str string) (bare, resource string) {
	if i := strings.IndexByte(str, '/'); i >= 0 {
		return str[:i], str[i+1:]
	}
	return str, ""
}

// BareJID returns the bare part of an address string.
func BareJID(str string) string {
	bare, _ := SplitJID(str)
	return bare
}
