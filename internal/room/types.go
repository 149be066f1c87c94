package room

import "encoding/json"

// WSMessage is the envelope for every frame in both directions.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound frame types.
const (
	msgMove    = "move"
	msgReady   = "ready"
	msgBuyIn   = "buy_in"
	msgRebuy   = "rebuy"
	msgCashOut = "cash_out"
	msgChat    = "chat"
	msgLeave   = "leave"
)

// Outbound frame types.
const (
	msgRoomInfo     = "room_info"
	msgGameUpdate   = "game_update"
	msgMoveError    = "move_error"
	msgPlayerJoined = "player_joined"
	msgPlayerLeft   = "player_left"
)

// command is one unit of work for the room actor. Everything that mutates
// a room flows through its mailbox, moves and timer expiries alike, so a
// timeout can never race a just-in-time move.
type command struct {
	kind string
	p    *Player
	data json.RawMessage

	// seq pins timeout commands to the turn they were armed for; stale
	// timers are dropped on arrival.
	seq uint64
}

const cmdTimeout = "timeout"

type readyPayload struct {
	Ready bool `json:"ready"`
}

type amountPayload struct {
	Amount int `json:"amount"`
}

type chatPayload struct {
	Message string `json:"message"`
}

type chatBroadcast struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Message  string `json:"message"`
}

type errorPayload struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}
