package room

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/MmmDelicious/lovememory-gameserver/internal/events"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/poker"
	"github.com/MmmDelicious/lovememory-gameserver/logger"
)

// Room owns one game instance and every connection watching it. All
// mutations funnel through the Run loop, so the game only ever sees one
// writer; handlers and the sweeper may still read through the manager.
type Room struct {
	ID       string
	GameType game.Type

	Register   chan *Player
	Unregister chan *Player

	commands chan command
	done     chan struct{}

	Mu      sync.RWMutex
	Players map[*Player]bool
	HostID  string

	game game.Game
	pub  events.Publisher

	turnSeq     uint64
	timer       *time.Timer
	turnTimeout time.Duration

	emptySince time.Time

	closeOnce sync.Once
	finished  bool
}

func NewRoom(id string, g game.Game, pub events.Publisher, turnTimeout time.Duration) *Room {
	return &Room{
		ID:          id,
		GameType:    g.Type(),
		Register:    make(chan *Player),
		Unregister:  make(chan *Player),
		commands:    make(chan command, 64),
		done:        make(chan struct{}),
		Players:     make(map[*Player]bool),
		game:        g,
		pub:         pub,
		turnTimeout: turnTimeout,
		emptySince:  time.Now(),
	}
}

// post delivers a command to the actor unless the room is already closed.
func (r *Room) post(cmd command) {
	select {
	case <-r.done:
	case r.commands <- cmd:
	}
}

// Run is the room actor loop. It exits when Close fires.
func (r *Room) Run() {
	logger.Info("room %s (%s) started", r.ID, r.GameType)
	for {
		select {
		case <-r.done:
			return

		case p := <-r.Register:
			r.handleJoin(p)

		case p := <-r.Unregister:
			r.handleLeave(p)

		case cmd := <-r.commands:
			r.dispatch(cmd)
		}
	}
}

func (r *Room) handleJoin(p *Player) {
	if err := r.game.AddPlayer(game.Player{ID: p.ID, Name: p.Name}); err != nil {
		r.sendError(p, err)
		p.cleanup()
		return
	}

	r.Mu.Lock()
	r.Players[p] = true
	if r.HostID == "" {
		r.HostID = p.ID
	}
	r.emptySince = time.Time{}
	r.Mu.Unlock()

	logger.Info("player %s joined room %s", p.ID, r.ID)
	p.sendMsg(msgRoomInfo, map[string]any{
		"roomId":   r.ID,
		"gameType": r.GameType,
		"hostId":   r.HostID,
	})
	r.broadcastExcept(p, msgPlayerJoined, map[string]string{
		"playerId": p.ID,
		"name":     p.Name,
	})
	r.afterMutation("")
}

func (r *Room) handleLeave(p *Player) {
	r.Mu.Lock()
	if !r.Players[p] {
		r.Mu.Unlock()
		return
	}
	delete(r.Players, p)
	if len(r.Players) == 0 {
		r.emptySince = time.Now()
	}
	r.Mu.Unlock()

	p.cleanup()
	if err := r.game.RemovePlayer(p.ID); err != nil && !errors.Is(err, game.ErrNotInGame) {
		logger.Error("remove player %s from room %s: %v", p.ID, r.ID, err)
	}

	logger.Info("player %s left room %s", p.ID, r.ID)
	r.broadcastExcept(nil, msgPlayerLeft, map[string]string{"playerId": p.ID})
	r.afterMutation("")
}

func (r *Room) dispatch(cmd command) {
	switch cmd.kind {
	case msgMove:
		if err := r.game.ApplyMove(cmd.p.ID, cmd.data); err != nil {
			r.sendError(cmd.p, err)
			return
		}
		r.afterMutation(cmd.p.ID)

	case msgReady:
		var pl readyPayload
		if err := json.Unmarshal(cmd.data, &pl); err != nil {
			pl.Ready = true
		}
		if err := r.game.SetReady(cmd.p.ID, pl.Ready); err != nil {
			r.sendError(cmd.p, err)
			return
		}
		r.afterMutation("")

	case msgBuyIn, msgRebuy, msgCashOut:
		r.dispatchEconomy(cmd)

	case msgChat:
		var pl chatPayload
		if err := json.Unmarshal(cmd.data, &pl); err != nil || pl.Message == "" {
			return
		}
		r.broadcastExcept(nil, msgChat, chatBroadcast{
			PlayerID: cmd.p.ID,
			Name:     cmd.p.Name,
			Message:  pl.Message,
		})

	case msgLeave:
		r.handleLeave(cmd.p)

	case cmdTimeout:
		r.handleTimeout(cmd.seq)
	}
}

// dispatchEconomy routes wallet backed table operations. Only poker has a
// table economy; other games reject these frames.
func (r *Room) dispatchEconomy(cmd command) {
	table, ok := r.game.(*poker.Table)
	if !ok {
		r.sendError(cmd.p, game.Errf(game.CodeIllegalMove, "%s has no table economy", r.GameType))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch cmd.kind {
	case msgBuyIn, msgRebuy:
		var pl amountPayload
		if err := json.Unmarshal(cmd.data, &pl); err != nil {
			r.sendError(cmd.p, game.Errf(game.CodeIllegalMove, "bad amount payload"))
			return
		}
		var err error
		if cmd.kind == msgBuyIn {
			err = table.BuyIn(ctx, cmd.p.ID, pl.Amount)
		} else {
			err = table.Rebuy(ctx, cmd.p.ID, pl.Amount)
		}
		if err != nil {
			r.sendError(cmd.p, err)
			return
		}

	case msgCashOut:
		amount, err := table.CashOut(ctx, cmd.p.ID)
		if err != nil {
			r.sendError(cmd.p, err)
			return
		}
		cmd.p.sendMsg(msgCashOut, amountPayload{Amount: amount})
	}
	r.afterMutation("")
}

// handleTimeout fires the game's default move for the player who let the
// clock run out. Stale timers, armed for an earlier turn, are dropped.
func (r *Room) handleTimeout(seq uint64) {
	if seq != r.turnSeq {
		return
	}
	st := r.game.State()
	if st.Status != game.StatusInProgress || st.CurrentPlayerID == "" {
		return
	}
	move, ok := r.game.TimeoutMove(st.CurrentPlayerID)
	if !ok {
		r.armTimer()
		return
	}
	logger.Info("turn timeout for player %s in room %s", st.CurrentPlayerID, r.ID)
	if err := r.game.ApplyMove(st.CurrentPlayerID, move); err != nil {
		logger.Error("timeout move in room %s: %v", r.ID, err)
		return
	}
	r.afterMutation(st.CurrentPlayerID)
}

// afterMutation runs after every accepted state change: rebroadcast views,
// publish the move event, re-arm the turn clock and notice game over.
func (r *Room) afterMutation(moverID string) {
	r.broadcastViews()

	st := r.game.State()
	if moverID != "" {
		r.publish(events.MoveSubject(r.ID), events.Event{
			Type:     "move",
			RoomID:   r.ID,
			GameType: string(st.GameType),
			PlayerID: moverID,
		})
	}
	if st.Status == game.StatusFinished && !r.finished {
		r.finished = true
		r.publish(events.SubjectGameFinished, events.Event{
			Type:     "finished",
			RoomID:   r.ID,
			GameType: string(st.GameType),
			Winner:   st.Winner,
		})
	}
	r.armTimer()
}

// armTimer restarts the turn clock for the current player. Bumping turnSeq
// invalidates any timer already in flight.
func (r *Room) armTimer() {
	r.turnSeq++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.turnTimeout <= 0 {
		return
	}
	st := r.game.State()
	if st.Status != game.StatusInProgress || st.CurrentPlayerID == "" {
		return
	}
	seq := r.turnSeq
	r.timer = time.AfterFunc(r.turnTimeout, func() {
		r.post(command{kind: cmdTimeout, seq: seq})
	})
}

func (r *Room) broadcastViews() {
	r.Mu.RLock()
	defer r.Mu.RUnlock()
	for p := range r.Players {
		p.sendMsg(msgGameUpdate, r.game.ViewFor(p.ID))
	}
}

// broadcastExcept sends a frame to everyone but skip. A nil skip reaches
// the whole room.
func (r *Room) broadcastExcept(skip *Player, msgType string, payload any) {
	r.Mu.RLock()
	defer r.Mu.RUnlock()
	for p := range r.Players {
		if p == skip {
			continue
		}
		p.sendMsg(msgType, payload)
	}
}

func (r *Room) sendError(p *Player, err error) {
	var gerr *game.Error
	if errors.As(err, &gerr) {
		p.sendMsg(msgMoveError, errorPayload{Code: string(gerr.Code), Reason: gerr.Reason})
		return
	}
	p.sendMsg(msgMoveError, errorPayload{Code: "internal", Reason: err.Error()})
}

func (r *Room) publish(subject string, e events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.pub.Publish(ctx, subject, e); err != nil {
		logger.Error("publish %s for room %s: %v", subject, r.ID, err)
	}
}

// EmptySince reports how long the room has had no connections; the zero
// time means someone is connected.
func (r *Room) EmptySince() time.Time {
	r.Mu.RLock()
	defer r.Mu.RUnlock()
	if len(r.Players) > 0 {
		return time.Time{}
	}
	return r.emptySince
}

// Close stops the actor and drops every connection. Safe to call twice.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		// The turn timer is owned by the actor goroutine; a late fire
		// posts into the closed room and is dropped by post.
		close(r.done)

		r.Mu.Lock()
		players := make([]*Player, 0, len(r.Players))
		for p := range r.Players {
			players = append(players, p)
		}
		r.Players = make(map[*Player]bool)
		r.Mu.Unlock()

		for _, p := range players {
			p.cleanup()
		}
		logger.Info("room %s closed", r.ID)
	})
}
