package coordinator

import (
	"sync"

	"github.com/virtual-classroom/coordinator/pkg/api"
	"github.com/virtual-classroom/coordinator/pkg/com"
	"github.com/virtual-classroom/coordinator/pkg/logger"
)

// Room is one live class session. All mutations and presence
// broadcasts happen under its lock, so every emitted member list is
// exact at the moment of emission. Writes to member sockets are
// queue-and-forget and never block the lock.
type Room struct {
	id  string
	log *logger.Logger

	mu      sync.Mutex
	members map[com.Uid]*User
	sharer  com.Uid
	hands   map[string]struct{}
	closed  bool
}

func newRoom(id string, log *logger.Logger) *Room {
	return &Room{
		id:      id,
		log:     log.Extend(log.With().Str("room", id)),
		members: make(map[com.Uid]*User, 8),
		hands:   make(map[string]struct{}, 4),
	}
}

func (r *Room) Id() string { return r.id }

// join adds the user, replacing a previous record under the same
// connection id, and announces the membership change. False means the
// room was already garbage-collected and the caller must grab a fresh
// one from the registry.
func (r *Room) join(u *User) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.members[u.Id()] = u
	r.notifyAll(api.SessionUsers, r.listLocked())
	r.notifyExcept(u.Id(), api.UserJoined, api.UserJoinedNotice{
		Room:   api.Room{Rid: r.id},
		Member: u.member(r.raisedLocked(u.UserId())),
	})
	r.log.Debug().Msgf("+ %v (%v)", u.UserId(), u.Id().Short())
	return true
}

// leave removes the user and announces the change; an implicit
// screen-share stop is emitted when the active sharer goes away.
// No-op when the user is not a member.
func (r *Room) leave(u *User) (wasMember bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[u.Id()]; !ok {
		return false
	}
	delete(r.members, u.Id())
	delete(r.hands, u.UserId())
	if r.sharer == u.Id() {
		r.sharer = com.NilUid
		r.notifyAll(api.ScreenShareStopped, nil)
	}
	r.notifyAll(api.SessionUsers, r.listLocked())
	r.notifyAll(api.UserLeft, api.UserLeftNotice{
		Cid:         u.Id().String(),
		UserId:      u.UserId(),
		DisplayName: u.Name(),
		Role:        u.Role(),
	})
	r.log.Debug().Msgf("- %v (%v)", u.UserId(), u.Id().Short())
	return true
}

// close marks an empty room as dead so no join can resurrect it.
func (r *Room) close() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.members) > 0 {
		return false
	}
	r.closed = true
	return true
}

func (r *Room) has(uid com.Uid) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[uid]
	return ok
}

func (r *Room) find(uid com.Uid) *User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members[uid]
}

func (r *Room) list() []api.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked()
}

func (r *Room) listLocked() []api.Member {
	list := make([]api.Member, 0, len(r.members))
	for _, u := range r.members {
		list = append(list, u.member(r.raisedLocked(u.UserId())))
	}
	return list
}

func (r *Room) raisedLocked(userId string) bool {
	_, ok := r.hands[userId]
	return ok
}

// setHand records the raise-hand toggle and fans it out, so late
// joiners see current hands through session-users.
func (r *Room) setHand(u *User, raised bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[u.Id()]; !ok {
		return
	}
	if raised {
		r.hands[u.UserId()] = struct{}{}
	} else {
		delete(r.hands, u.UserId())
	}
	r.notifyExcept(u.Id(), api.RaiseHand, api.RaiseHandNotice{UserId: u.UserId(), Raised: raised})
}

// startShare records a new active sharer, last writer wins: a second
// start simply replaces the first and every start is broadcast, so
// clients converge on the latest sharer. Membership is re-checked
// under the lock: a server-side removal can land between the command's
// room resolution and this call, and the sharer must stay a member.
func (r *Room) startShare(uid com.Uid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[uid]; !ok {
		return
	}
	r.sharer = uid
	r.notifyAll(api.ScreenShareStarted, api.ScreenShareStartedNotice{SharerId: uid.String()})
}

// stopShare clears the state only when the caller is the recorded
// sharer; anyone else's stop is a no-op.
func (r *Room) stopShare(uid com.Uid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sharer != uid {
		return
	}
	r.sharer = com.NilUid
	r.notifyAll(api.ScreenShareStopped, nil)
}

func (r *Room) activeSharer() com.Uid {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sharer
}

// broadcast fans a packet out to every member except the sender.
func (r *Room) broadcast(except com.Uid, t api.PT, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifyExcept(except, t, payload)
}

// broadcastAll fans a packet out to the whole room, sender included.
func (r *Room) broadcastAll(t api.PT, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifyAll(t, payload)
}

func (r *Room) notifyAll(t api.PT, payload any) { r.notifyExcept(com.NilUid, t, payload) }

func (r *Room) notifyExcept(except com.Uid, t api.PT, payload any) {
	for uid, u := range r.members {
		if uid == except {
			continue
		}
		u.Notify(t, payload)
	}
}
