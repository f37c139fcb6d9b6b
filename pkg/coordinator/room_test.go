package coordinator

import (
	"testing"

	"github.com/virtual-classroom/coordinator/pkg/api"
	"github.com/virtual-classroom/coordinator/pkg/auth"
	"github.com/virtual-classroom/coordinator/pkg/logger"
)

func newMember(name string) *User {
	u := NewUser(&fakeSock{}, auth.Identity{UserId: name, Role: api.RoleStudent}, logger.New(false))
	return u
}

func TestRoomCloseOnlyWhenEmpty(t *testing.T) {
	r := newRoom("R1", logger.New(false))
	u := newMember("a")
	if !r.join(u) {
		t.Fatal("join into a fresh room failed")
	}
	if r.close() {
		t.Errorf("an occupied room was closed")
	}
	r.leave(u)
	if !r.close() {
		t.Errorf("an empty room wasn't closed")
	}
}

func TestClosedRoomRejectsJoins(t *testing.T) {
	r := newRoom("R1", logger.New(false))
	r.close()
	if r.join(newMember("a")) {
		t.Errorf("a collected room was resurrected")
	}
}

func TestRoomLeaveIsIdempotent(t *testing.T) {
	r := newRoom("R1", logger.New(false))
	u := newMember("a")
	r.join(u)
	if !r.leave(u) {
		t.Errorf("the first leave didn't report membership")
	}
	if r.leave(u) {
		t.Errorf("the second leave reported membership")
	}
}

func TestRoomsRegistry(t *testing.T) {
	rooms := NewRooms(logger.New(false))
	r1 := rooms.GetOrCreate("R1")
	if r2 := rooms.GetOrCreate("R1"); r1 != r2 {
		t.Fatalf("the same id produced two rooms")
	}

	u := newMember("a")
	r1.join(u)
	rooms.GC(r1)
	if !rooms.Has("R1") {
		t.Errorf("an occupied room was collected")
	}

	r1.leave(u)
	rooms.GC(r1)
	if rooms.Has("R1") {
		t.Errorf("an empty room survived the collection")
	}
	if fresh := rooms.GetOrCreate("R1"); fresh == r1 {
		t.Errorf("the registry returned a collected room")
	}
}
