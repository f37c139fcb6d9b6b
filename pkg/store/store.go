// Package store declares the persistence collaborator of the
// coordinator. Chat history, notes, and session records live in the
// main application's database; the coordinator only pushes chat
// messages through this interface and never reads them back.
package store

import (
	"context"
	"time"
)

type ChatMessage struct {
	RoomId      string
	UserId      string
	DisplayName string
	Text        string
	SentAt      time.Time
}

type ChatStore interface {
	SaveMessage(ctx context.Context, m ChatMessage) error
}
