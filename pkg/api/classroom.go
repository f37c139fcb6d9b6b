package api

import (
	"time"

	"github.com/goccy/go-json"
)

// Role is a participant role carried inside the verified token.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool { return r == RoleTeacher || r == RoleStudent }

type Room struct {
	Rid string `json:"roomId"`
}

type (
	// JoinRequest is sent once per room entry. The role field is what
	// the client claims for display purposes only and is never used
	// for authorization.
	JoinRequest struct {
		Room
		DisplayName string `json:"displayName"`
		Role        Role   `json:"role,omitempty"`
	}
	Member struct {
		Cid         string `json:"connectionId"`
		UserId      string `json:"userId"`
		DisplayName string `json:"displayName"`
		Role        Role   `json:"role"`
		RaisedHand  bool   `json:"raisedHand,omitempty"`
	}
	UserJoinedNotice struct {
		Room
		Member
	}
	UserLeftNotice struct {
		Cid         string `json:"connectionId"`
		UserId      string `json:"userId"`
		DisplayName string `json:"displayName"`
		Role        Role   `json:"role"`
	}
)

type (
	// SignalRequest addresses one peer by connection id; the payload
	// (SDP or ICE blob) is opaque to the coordinator.
	SignalRequest struct {
		Room
		To      string          `json:"to"`
		Payload json.RawMessage `json:"payload"`
	}
	SignalNotice struct {
		Room
		From    string          `json:"from"`
		Payload json.RawMessage `json:"payload"`
	}
)

type (
	WhiteboardDrawRequest struct {
		Room
		Data json.RawMessage `json:"data"`
	}
	WhiteboardNotice struct {
		From string          `json:"from"`
		Data json.RawMessage `json:"data,omitempty"`
	}
	RaiseHandRequest struct {
		Room
		Raised bool `json:"raised"`
	}
	RaiseHandNotice struct {
		UserId string `json:"userId"`
		Raised bool   `json:"raised"`
	}
	FileSharedRequest struct {
		Room
		File json.RawMessage `json:"file"`
	}
	FileSharedNotice struct {
		From string          `json:"from"`
		File json.RawMessage `json:"file"`
	}
)

type (
	ScreenShareRequest struct {
		Room
	}
	ScreenShareStartedNotice struct {
		SharerId string `json:"sharerId"`
	}
)

type (
	MuteAllRequest struct {
		Room
	}
	// ModerateRequest names one connection for a mute or a removal.
	ModerateRequest struct {
		Room
		Target string `json:"targetConnectionId"`
	}
)

type (
	SendMessageRequest struct {
		Room
		Text string `json:"text"`
	}
	NewMessageNotice struct {
		Room
		UserId      string    `json:"userId"`
		DisplayName string    `json:"displayName"`
		Role        Role      `json:"role"`
		Text        string    `json:"text"`
		SentAt      time.Time `json:"sentAt"`
	}
)
