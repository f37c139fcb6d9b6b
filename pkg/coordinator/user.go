package coordinator

import (
	"sync"

	"github.com/goccy/go-json"

	"github.com/virtual-classroom/coordinator/pkg/api"
	"github.com/virtual-classroom/coordinator/pkg/auth"
	"github.com/virtual-classroom/coordinator/pkg/com"
	"github.com/virtual-classroom/coordinator/pkg/logger"
)

// socket is the outbound half of a transport session.
type socket interface {
	Write(data []byte)
	Close()
}

// User is one authenticated connection. The identity is pinned at
// admission and never changes; the room link is set by join commands
// and taken exactly once by the leave/disconnect cleanup.
type User struct {
	id       com.Uid
	identity auth.Identity
	sock     socket
	log      *logger.Logger

	mu   sync.Mutex
	name string
	room *Room
}

func NewUser(sock socket, identity auth.Identity, log *logger.Logger) *User {
	id := com.NewUid()
	ulog := log.Extend(log.With().Str("cid", id.Short()).Str("uid", identity.UserId))
	return &User{id: id, identity: identity, sock: sock, log: ulog}
}

func (u *User) Id() com.Uid    { return u.id }
func (u *User) UserId() string { return u.identity.UserId }
func (u *User) Role() api.Role { return u.identity.Role }
func (u *User) Disconnect()    { u.sock.Close() }

func (u *User) Name() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.name
}

func (u *User) Room() *Room {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.room
}

func (u *User) setRoom(r *Room, name string) {
	u.mu.Lock()
	u.room, u.name = r, name
	u.mu.Unlock()
}

// takeRoom clears and returns the room link; the second taker gets
// nil, which makes the cleanup cascade run once per connection.
func (u *User) takeRoom() *Room {
	u.mu.Lock()
	defer u.mu.Unlock()
	r := u.room
	u.room = nil
	return r
}

func (u *User) member(raisedHand bool) api.Member {
	return api.Member{
		Cid:         u.id.String(),
		UserId:      u.identity.UserId,
		DisplayName: u.Name(),
		Role:        u.identity.Role,
		RaisedHand:  raisedHand,
	}
}

// Notify queues one packet for the user; it never blocks.
func (u *User) Notify(t api.PT, payload any) {
	data, err := json.Marshal(api.Out{T: t, Payload: payload})
	if err != nil {
		u.log.Error().Err(err).Msgf("broken packet %v", t)
		return
	}
	u.log.Debug().Str(logger.DirectionField, "→").Msgf("%v", t)
	u.sock.Write(data)
}

func (u *User) String() string { return u.id.String() }
