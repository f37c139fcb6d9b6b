// Package api defines the wire protocol of the classroom coordinator.
//
// Each message is a JSON-encoded packet of the following structure:
//
//	t - (required) one of the predefined event names;
//	p - (optional) packet payload with event-specific data.
//
// The payload is unwrapped in two passes: the packet is decoded with a
// raw payload first, and the handler decodes the payload into a typed
// request once the event name is known.
//
// Example:
//
//	{"t":"join-session","p":{"roomId":"math-101","displayName":"Ada"}}
package api

import (
	"errors"

	"github.com/goccy/go-json"
)

// PT is a packet type, the event name on the wire.
type PT string

// Inbound events.
const (
	JoinSession          PT = "join-session"
	LeaveSession         PT = "leave-session"
	WebrtcOffer          PT = "offer"
	WebrtcAnswer         PT = "answer"
	WebrtcIceCandidate   PT = "ice-candidate"
	WhiteboardDraw       PT = "whiteboard-draw"
	WhiteboardClear      PT = "whiteboard-clear"
	RaiseHand            PT = "raise-hand"
	StartScreenShare     PT = "start-screen-share"
	StopScreenShare      PT = "stop-screen-share"
	TeacherMuteAll       PT = "teacher-mute-all"
	TeacherMuteStudent   PT = "teacher-mute-student"
	TeacherRemoveStudent PT = "teacher-remove-student"
	SendMessage          PT = "send-message"
	FileShared           PT = "file-shared"
)

// Outbound-only events.
const (
	SessionUsers       PT = "session-users"
	UserJoined         PT = "user-joined"
	UserLeft           PT = "user-left"
	ForceMute          PT = "force-mute"
	ForceDisconnect    PT = "force-disconnect"
	ScreenShareStarted PT = "screen-share-started"
	ScreenShareStopped PT = "screen-share-stopped"
	NewMessage         PT = "new-message"
)

type In struct {
	T       PT              `json:"t"`
	Payload json.RawMessage `json:"p,omitempty"`
}

type Out struct {
	T       PT  `json:"t"`
	Payload any `json:"p,omitempty"`
}

var (
	ErrForbidden = errors.New("forbidden")
	ErrMalformed = errors.New("malformed")
)

// Unwrap decodes a raw payload into a typed request.
// Nil means the payload doesn't parse into the T.
func Unwrap[T any](data []byte) *T {
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil
	}
	return out
}
