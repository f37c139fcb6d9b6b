package coordinator

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/virtual-classroom/coordinator/pkg/api"
	"github.com/virtual-classroom/coordinator/pkg/auth"
	"github.com/virtual-classroom/coordinator/pkg/com"
	"github.com/virtual-classroom/coordinator/pkg/config"
	"github.com/virtual-classroom/coordinator/pkg/logger"
	"github.com/virtual-classroom/coordinator/pkg/network/websocket"
	"github.com/virtual-classroom/coordinator/pkg/service"
	"github.com/virtual-classroom/coordinator/pkg/store"
)

// Hub owns every live connection and the room registry.
type Hub struct {
	service.RunnableService

	conf     config.Coordinator
	log      *logger.Logger
	verifier *auth.Verifier
	chat     store.ChatStore
	upgrader *websocket.Upgrader

	users com.NetMap[com.Uid, *User]
	rooms *Rooms
}

func NewHub(conf config.Coordinator, chat store.ChatStore, log *logger.Logger) *Hub {
	up := &websocket.DefaultUpgrader
	if conf.Origin != "" {
		up = websocket.NewUpgrader(conf.Origin)
	}
	return &Hub{
		conf:     conf,
		log:      log,
		verifier: auth.NewVerifier(conf.Auth),
		chat:     chat,
		upgrader: up,
		users:    com.NewNetMap[com.Uid, *User](),
		rooms:    NewRooms(log),
	}
}

// handleUserConnection admits one participant connection: the bearer
// credential is verified before the upgrade, so unauthenticated
// clients never reach room logic.
func (h *Hub) handleUserConnection(w http.ResponseWriter, r *http.Request) {
	identity, err := h.verifier.Verify(auth.TokenFromRequest(r))
	if err != nil {
		h.log.Debug().Err(err).Msg("connection rejected")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.NewServer(w, r, h.upgrader, h.log)
	if err != nil {
		h.log.Error().Err(err).Msg("couldn't init user connection")
		return
	}

	usr := NewUser(conn, identity, h.log)
	usr.log.Debug().Str(logger.DirectionField, "←").Msg("Connect")
	h.users.Add(usr)
	connCount.Inc()

	conn.OnMessage = func(message []byte, _ error) {
		defer func() {
			if v := recover(); v != nil {
				usr.log.Error().Msgf("recovered: %v", v)
			}
		}()
		h.handleMessage(usr, message)
	}
	conn.Listen()

	<-conn.Done
	h.finish(usr)
}

func (h *Hub) handleMessage(u *User, message []byte) {
	var in api.In
	if err := json.Unmarshal(message, &in); err != nil {
		u.log.Warn().Err(err).Msg("unreadable packet")
		return
	}
	u.log.Debug().Str(logger.DirectionField, "←").Msgf("%v", in.T)
	packetCount.WithLabelValues(string(in.T)).Inc()

	switch in.T {
	case api.JoinSession:
		dispatch(u, in, func(rq api.JoinRequest) { u.HandleJoinSession(rq, h) })
	case api.LeaveSession:
		u.HandleLeaveSession(h)
	case api.WebrtcOffer, api.WebrtcAnswer, api.WebrtcIceCandidate:
		dispatch(u, in, func(rq api.SignalRequest) { u.HandleSignal(in.T, rq, h) })
	case api.WhiteboardDraw:
		dispatch(u, in, u.HandleWhiteboardDraw)
	case api.WhiteboardClear:
		dispatch(u, in, u.HandleWhiteboardClear)
	case api.RaiseHand:
		dispatch(u, in, u.HandleRaiseHand)
	case api.StartScreenShare:
		dispatch(u, in, u.HandleStartScreenShare)
	case api.StopScreenShare:
		dispatch(u, in, u.HandleStopScreenShare)
	case api.TeacherMuteAll:
		dispatch(u, in, u.HandleMuteAll)
	case api.TeacherMuteStudent:
		dispatch(u, in, u.HandleMuteStudent)
	case api.TeacherRemoveStudent:
		dispatch(u, in, func(rq api.ModerateRequest) { u.HandleRemoveStudent(rq, h) })
	case api.SendMessage:
		dispatch(u, in, func(rq api.SendMessageRequest) { u.HandleSendMessage(rq, h) })
	case api.FileShared:
		dispatch(u, in, u.HandleFileShared)
	default:
		u.log.Warn().Msgf("unknown packet %v", in.T)
	}
}

// dispatch unwraps the typed payload and feeds it to the handler;
// packets that don't parse are dropped with a local diagnostic while
// the connection stays alive.
func dispatch[T any](u *User, in api.In, fn func(rq T)) {
	rq := api.Unwrap[T](in.Payload)
	if rq == nil {
		u.log.Warn().Msgf("malformed %v", in.T)
		return
	}
	fn(*rq)
}

// leaveRoom runs the cleanup cascade for the user's current room.
// Safe to invoke twice: the room link is taken atomically, the loser
// of a leave/disconnect race finds nothing to do.
func (h *Hub) leaveRoom(u *User) {
	room := u.takeRoom()
	if room == nil {
		return
	}
	if room.leave(u) {
		h.rooms.GC(room)
	}
}

// finish tears a disconnected user down.
func (h *Hub) finish(u *User) {
	h.leaveRoom(u)
	h.users.Remove(u)
	connCount.Dec()
	u.log.Debug().Str(logger.DirectionField, "x").Msg("Disconnect")
}

// Run implements service.RunnableService; the hub is driven by the
// HTTP server's connection handlers.
func (h *Hub) Run() {}

// Shutdown disconnects every user; the room GC follows through the
// normal cleanup cascade of each connection.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.users.ForEach(func(u *User) { u.Disconnect() })
	return nil
}

func (h *Hub) String() string { return "hub" }
