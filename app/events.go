/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package app

import (
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/simplexmpp/simplexmpp/event"
	"github.com/simplexmpp/simplexmpp/xmpp"
)

// subscribeLoggers logs every session event.
func subscribeLoggers(hub *event.Hub, logger kitlog.Logger) {
	hub.Subscribe(event.Online, func(ev *event.Event) {
		level.Info(logger).Log("msg", "online", "jid", ev.Info.(*event.OnlineInfo).JID)
	}, event.DefaultPriority)

	hub.Subscribe(event.Close, func(_ *event.Event) {
		level.Info(logger).Log("msg", "closed")
	}, event.DefaultPriority)

	hub.Subscribe(event.Error, func(ev *event.Event) {
		level.Error(logger).Log("msg", "transport error", "err", ev.Info.(*event.ErrorInfo).Err)
	}, event.DefaultPriority)

	hub.Subscribe(event.UnhandledStanza, func(ev *event.Event) {
		level.Debug(logger).Log("msg", "unhandled", "xml", xmpp.String(ev.Info.(*event.StanzaInfo).Stanza))
	}, event.DefaultPriority)

	hub.Subscribe(event.Chat, func(ev *event.Event) {
		info := ev.Info.(*event.ChatInfo)
		level.Info(logger).Log("msg", "chat", "from", info.From, "body", info.Body)
	}, event.DefaultPriority)

	hub.Subscribe(event.GroupChat, func(ev *event.Event) {
		info := ev.Info.(*event.GroupChatInfo)
		kv := []interface{}{"msg", "groupchat", "room", info.Room, "nick", info.Nickname, "body", info.Body}
		if len(info.Stamp) > 0 {
			kv = append(kv, "stamp", info.Stamp)
		}
		level.Info(logger).Log(kv...)
	}, event.DefaultPriority)

	hub.Subscribe(event.ChatState, func(ev *event.Event) {
		info := ev.Info.(*event.ChatStateInfo)
		level.Debug(logger).Log("msg", "chat state", "from", info.From, "state", info.State)
	}, event.DefaultPriority)

	hub.Subscribe(event.Subscribe, func(ev *event.Event) {
		level.Info(logger).Log("msg", "subscription request", "from", ev.Info.(*event.SubscriptionInfo).From)
	}, event.DefaultPriority)

	hub.Subscribe(event.Unsubscribe, func(ev *event.Event) {
		level.Info(logger).Log("msg", "unsubscription request", "from", ev.Info.(*event.SubscriptionInfo).From)
	}, event.DefaultPriority)

	hub.Subscribe(event.Buddy, func(ev *event.Event) {
		info := ev.Info.(*event.BuddyInfo)
		level.Info(logger).Log("msg", "buddy", "jid", info.JID, "resource", info.Resource, "state", info.State, "status", info.Status)
	}, event.DefaultPriority)

	hub.Subscribe(event.GroupBuddy, func(ev *event.Event) {
		info := ev.Info.(*event.GroupBuddyInfo)
		level.Info(logger).Log("msg", "room occupant", "room", info.Room, "nick", info.Nickname, "state", info.State, "status", info.Status)
	}, event.DefaultPriority)

	hub.Subscribe(event.ProbeResult, func(ev *event.Event) {
		info := ev.Info.(*event.ProbeInfo)
		level.Info(logger).Log("msg", "presence answered", "jid", info.JID, "state", info.State, "status", info.Status)
	}, event.DefaultPriority)

	hub.Subscribe(event.BuddyCapabilities, func(ev *event.Event) {
		info := ev.Info.(*event.CapabilitiesInfo)
		level.Info(logger).Log("msg", "buddy capabilities", "jid", info.JID, "client", info.ClientName, "features", strings.Join(info.Features, ","))
	}, event.DefaultPriority)
}
