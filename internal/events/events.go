// Package events is the fire-and-forget side channel for room lifecycle
// and move notifications. Nothing in the game core ever reads it back; a
// dropped event costs an observer a notification, never game state.
package events

import (
	"context"
	"time"
)

const (
	SubjectRoomCreated  = "games.room_created"
	SubjectGameFinished = "games.finished"
	SubjectRoomClosed   = "games.room_closed"
)

// MoveSubject builds the per-room move log subject.
func MoveSubject(roomID string) string {
	return "games." + roomID + ".moves"
}

type Event struct {
	ID       string    `json:"id,omitempty"`
	Type     string    `json:"type"`
	RoomID   string    `json:"roomId"`
	GameType string    `json:"gameType,omitempty"`
	PlayerID string    `json:"playerId,omitempty"`
	Winner   string    `json:"winner,omitempty"`
	At       time.Time `json:"at"`
	Data     any       `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, e Event) error
	Close()
}

// Nop swallows everything; the default when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
func (Nop) Close()                                       {}
