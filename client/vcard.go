/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package client

import (
	"strings"

	"github.com/jackal-xmpp/stravaganza/v2"
)

// VCard represents a decoded vCard.
// Values are either strings or nested VCard maps.
type VCard map[string]interface{}

// VCardResult is the outcome of a vCard request issued on behalf of another entity.
type VCardResult struct {
	VCard VCard
	JID   string
	User  string
}

// DecodeVCard folds a vCard element into a VCard map keyed by lower-cased child name.
// A nil element decodes to a nil VCard. Repeated children keep the last value.
func DecodeVCard(elem stravaganza.Element) VCard {
	if elem == nil {
		return nil
	}
	ret := VCard{}
	for _, child := range elem.AllChildren() {
		key := strings.ToLower(child.Name())
		if child.ChildrenCount() > 0 {
			ret[key] = DecodeVCard(child)
		} else {
			ret[key] = child.Text()
		}
	}
	return ret
}

func vCardRequest(id, from, to string) stravaganza.Element {
	b := stravaganza.NewBuilder(stravaganza.IQName).
		WithAttribute(stravaganza.ID, id).
		WithAttribute(stravaganza.Type, stravaganza.GetType)
	if len(from) > 0 {
		b = b.WithAttribute(stravaganza.From, from)
	}
	return b.
		WithAttribute(stravaganza.To, to).
		WithChild(
			stravaganza.NewBuilder("vCard").
				WithAttribute(stravaganza.Namespace, vCardNamespace).
				Build(),
		).
		Build()
}

func vCardResponse(iq stravaganza.Element) VCard {
	return DecodeVCard(iq.Child("vCard"))
}
