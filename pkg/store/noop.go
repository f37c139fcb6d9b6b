package store

import "context"

// NoopChatStore drops everything. Used when the coordinator runs
// without the persistence backend.
type NoopChatStore struct{}

func NewNoopChatStore() NoopChatStore { return NoopChatStore{} }

func (NoopChatStore) SaveMessage(context.Context, ChatMessage) error { return nil }
