package room

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/MmmDelicious/lovememory-gameserver/logger"
)

// Player is one live websocket connection bound to a player identity. The
// read pump turns frames into room commands; the write pump drains the
// send channel. Both stop through the shared context and the sync.Once
// cleanup, whichever side fails first.
type Player struct {
	ID   string `json:"playerId"`
	Name string `json:"name"`

	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func NewPlayer(id, name string, conn *websocket.Conn) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		ID:     id,
		Name:   name,
		conn:   conn,
		send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (p *Player) cleanup() {
	p.once.Do(func() {
		p.cancel()
		close(p.send)
		if p.conn != nil {
			p.conn.Close()
		}
	})
}

// trySend queues a frame, dropping it when the client is too slow to
// drain its channel.
func (p *Player) trySend(msg []byte) {
	select {
	case <-p.ctx.Done():
	case p.send <- msg:
	default:
	}
}

func (p *Player) sendMsg(msgType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("marshal %s for player %s: %v", msgType, p.ID, err)
		return
	}
	frame, _ := json.Marshal(WSMessage{Type: msgType, Data: data})
	p.trySend(frame)
}

// ReadPump parses inbound frames and posts them to the room mailbox until
// the connection dies.
func (p *Player) ReadPump(r *Room) {
	defer func() {
		p.cleanup()
		select {
		case r.Unregister <- p:
		case <-r.done:
		}
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		default:
			_, msg, err := p.conn.ReadMessage()
			if err != nil {
				logger.Info("read error for player %s: %v", p.ID, err)
				return
			}

			var wsMsg WSMessage
			if err := json.Unmarshal(msg, &wsMsg); err != nil {
				logger.Info("invalid frame from player %s: %v", p.ID, err)
				continue
			}

			switch wsMsg.Type {
			case msgMove, msgReady, msgBuyIn, msgRebuy, msgCashOut, msgChat, msgLeave:
				r.post(command{kind: wsMsg.Type, p: p, data: wsMsg.Data})
				if wsMsg.Type == msgLeave {
					return
				}
			default:
				p.sendMsg(msgMoveError, errorPayload{
					Code:   "bad_request",
					Reason: "unknown message type " + wsMsg.Type,
				})
			}
		}
	}
}

// WritePump drains the send channel and keeps the connection alive with
// pings.
func (p *Player) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		p.cleanup()
	}()

	for {
		select {
		case <-p.ctx.Done():
			return

		case msg, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("write error for player %s: %v", p.ID, err)
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Info("ping error for player %s: %v", p.ID, err)
				return
			}
		}
	}
}
