/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package client

import "github.com/jackal-xmpp/stravaganza/v2"

const rosterRequestID = "roster_0"

// RosterItem represents a roster item.
type RosterItem struct {
	JID          string
	Name         string
	Subscription string
	Groups       []string
}

// DecodeRoster returns the items of a roster query element.
func DecodeRoster(query stravaganza.Element) []RosterItem {
	if query == nil {
		return nil
	}
	itemElems := query.Children("item")
	items := make([]RosterItem, 0, len(itemElems))
	for _, itemElem := range itemElems {
		ri := RosterItem{
			JID:          itemElem.Attribute("jid"),
			Name:         itemElem.Attribute("name"),
			Subscription: itemElem.Attribute("subscription"),
		}
		for _, group := range itemElem.Children("group") {
			ri.Groups = append(ri.Groups, group.Text())
		}
		items = append(items, ri)
	}
	return items
}
