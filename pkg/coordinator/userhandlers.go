package coordinator

import (
	"context"
	"time"

	"github.com/virtual-classroom/coordinator/pkg/api"
	"github.com/virtual-classroom/coordinator/pkg/com"
	"github.com/virtual-classroom/coordinator/pkg/store"
)

// roomFor resolves the user's current room for a room-scoped command.
// Commands tagged with a room the user is not in are dropped.
func (u *User) roomFor(rid string) *Room {
	room := u.Room()
	if rid == "" || room == nil || room.id != rid {
		u.log.Debug().Str("room", rid).Msg("room scope mismatch, dropped")
		return nil
	}
	return room
}

// moderate additionally gates on the authenticated teacher role.
// Denials are silent: an unauthorized caller learns nothing.
func (u *User) moderate(rid string) *Room {
	if u.Role() != api.RoleTeacher {
		u.log.Debug().Msg("moderation by non-teacher, dropped")
		return nil
	}
	return u.roomFor(rid)
}

func (u *User) HandleJoinSession(rq api.JoinRequest, h *Hub) {
	if rq.Rid == "" {
		u.log.Warn().Msg("join without a room id, dropped")
		return
	}
	name := rq.DisplayName
	if name == "" {
		name = u.UserId()
	}
	if cur := u.Room(); cur != nil && cur.id != rq.Rid {
		h.leaveRoom(u)
	}
	// a freshly fetched room may lose to the GC once, retry then
	for {
		room := h.rooms.GetOrCreate(rq.Rid)
		u.setRoom(room, name)
		if room.join(u) {
			u.log.Info().Str("room", rq.Rid).Msg("Joined")
			return
		}
	}
}

func (u *User) HandleLeaveSession(h *Hub) { h.leaveRoom(u) }

// HandleSignal relays an offer/answer/ICE blob to one peer. The
// target is addressed by connection id and deliberately not
// membership-checked, so the very first offer can go out before the
// callee finished joining; the room id is a tag only.
func (u *User) HandleSignal(t api.PT, rq api.SignalRequest, h *Hub) {
	target, err := com.UidFrom(rq.To)
	if err != nil {
		u.log.Warn().Str("to", rq.To).Msgf("%v with a bad target, dropped", t)
		return
	}
	peer, err := h.users.Find(target)
	if err != nil {
		u.log.Debug().Str("to", rq.To).Msgf("%v target is gone, dropped", t)
		relayDropCount.Inc()
		return
	}
	peer.Notify(t, api.SignalNotice{Room: rq.Room, From: u.Id().String(), Payload: rq.Payload})
}

func (u *User) HandleWhiteboardDraw(rq api.WhiteboardDrawRequest) {
	if room := u.roomFor(rq.Rid); room != nil {
		room.broadcast(u.Id(), api.WhiteboardDraw, api.WhiteboardNotice{From: u.Id().String(), Data: rq.Data})
	}
}

func (u *User) HandleWhiteboardClear(rq api.Room) {
	if room := u.roomFor(rq.Rid); room != nil {
		room.broadcast(u.Id(), api.WhiteboardClear, api.WhiteboardNotice{From: u.Id().String()})
	}
}

func (u *User) HandleRaiseHand(rq api.RaiseHandRequest) {
	if room := u.roomFor(rq.Rid); room != nil {
		room.setHand(u, rq.Raised)
	}
}

func (u *User) HandleFileShared(rq api.FileSharedRequest) {
	if room := u.roomFor(rq.Rid); room != nil {
		room.broadcast(u.Id(), api.FileShared, api.FileSharedNotice{From: u.Id().String(), File: rq.File})
	}
}

func (u *User) HandleStartScreenShare(rq api.ScreenShareRequest) {
	if room := u.roomFor(rq.Rid); room != nil {
		room.startShare(u.Id())
	}
}

func (u *User) HandleStopScreenShare(rq api.ScreenShareRequest) {
	if room := u.roomFor(rq.Rid); room != nil {
		room.stopShare(u.Id())
	}
}

func (u *User) HandleMuteAll(rq api.MuteAllRequest) {
	if room := u.moderate(rq.Rid); room != nil {
		u.log.Info().Str("room", rq.Rid).Msg("Mute all")
		room.broadcast(u.Id(), api.ForceMute, nil)
	}
}

func (u *User) HandleMuteStudent(rq api.ModerateRequest) {
	room := u.moderate(rq.Rid)
	if room == nil {
		return
	}
	target, err := com.UidFrom(rq.Target)
	if err != nil {
		u.log.Warn().Str("target", rq.Target).Msg("mute with a bad target, dropped")
		return
	}
	if peer := room.find(target); peer != nil {
		u.log.Info().Str("target", rq.Target).Msg("Mute student")
		peer.Notify(api.ForceMute, nil)
	}
}

// HandleRemoveStudent delivers force-disconnect and immediately runs
// the server-side leave, so presence updates don't wait for the
// removed client's transport to die.
func (u *User) HandleRemoveStudent(rq api.ModerateRequest, h *Hub) {
	room := u.moderate(rq.Rid)
	if room == nil {
		return
	}
	target, err := com.UidFrom(rq.Target)
	if err != nil {
		u.log.Warn().Str("target", rq.Target).Msg("remove with a bad target, dropped")
		return
	}
	peer := room.find(target)
	if peer == nil {
		u.log.Debug().Str("target", rq.Target).Msg("removal target is gone")
		return
	}
	u.log.Info().Str("target", rq.Target).Msg("Remove student")
	peer.Notify(api.ForceDisconnect, nil)
	h.leaveRoom(peer)
}

func (u *User) HandleSendMessage(rq api.SendMessageRequest, h *Hub) {
	room := u.roomFor(rq.Rid)
	if room == nil {
		return
	}
	now := time.Now().UTC()
	if err := h.chat.SaveMessage(context.Background(), store.ChatMessage{
		RoomId:      rq.Rid,
		UserId:      u.UserId(),
		DisplayName: u.Name(),
		Text:        rq.Text,
		SentAt:      now,
	}); err != nil {
		u.log.Error().Err(err).Msg("chat message wasn't persisted")
	}
	room.broadcastAll(api.NewMessage, api.NewMessageNotice{
		Room:        rq.Room,
		UserId:      u.UserId(),
		DisplayName: u.Name(),
		Role:        u.Role(),
		Text:        rq.Text,
		SentAt:      now,
	})
}
