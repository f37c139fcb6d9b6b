package coordinator

import (
	"github.com/virtual-classroom/coordinator/pkg/com"
	"github.com/virtual-classroom/coordinator/pkg/logger"
)

// Rooms is the registry of live class sessions. Rooms come to life on
// the first join and are garbage-collected as soon as the last member
// leaves; the closed flag on the room itself guards the create/collect
// race, so a stale pointer can never be joined.
type Rooms struct {
	com.Map[string, *Room]
	log *logger.Logger
}

func NewRooms(log *logger.Logger) *Rooms {
	return &Rooms{Map: com.NewMap[string, *Room](), log: log}
}

func (r *Rooms) GetOrCreate(id string) *Room {
	return r.FindOrInsert(id, func() *Room {
		r.log.Info().Str("room", id).Msg("Room opened")
		roomCount.Inc()
		return newRoom(id, r.log)
	})
}

// GC drops the room from the registry when its member set is empty.
func (r *Rooms) GC(room *Room) {
	if r.RemoveIf(room.id, func(v *Room) bool { return v == room && v.close() }) {
		r.log.Info().Str("room", room.id).Msg("Room closed")
		roomCount.Dec()
	}
}
