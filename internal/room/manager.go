package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/MmmDelicious/lovememory-gameserver/internal/economy"
	"github.com/MmmDelicious/lovememory-gameserver/internal/events"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/chessgame"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/codenames"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/memory"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/poker"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/quiz"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/tictactoe"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/wordle"
	"github.com/MmmDelicious/lovememory-gameserver/logger"
	"github.com/MmmDelicious/lovememory-gameserver/pkg/utils"
)

// Factories maps every supported game type to its constructor. The map
// lives here, not in the game package, so the registry stays free of
// per-game imports.
func Factories() map[game.Type]game.Factory {
	return map[game.Type]game.Factory{
		game.TypeTicTacToe: tictactoe.New,
		game.TypeMemory:    memory.New,
		game.TypeChess:     chessgame.New,
		game.TypeWordle:    wordle.New,
		game.TypeCodenames: codenames.New,
		game.TypeQuiz:      quiz.New,
		game.TypePoker:     poker.New,
	}
}

type RoomManager struct {
	mu    sync.RWMutex
	Rooms map[string]*Room

	games       *game.Manager
	wallet      economy.Wallet
	pub         events.Publisher
	turnTimeout time.Duration
}

func NewRoomManager(wallet economy.Wallet, pub events.Publisher, turnTimeout time.Duration) *RoomManager {
	return &RoomManager{
		Rooms:       make(map[string]*Room),
		games:       game.NewManager(Factories()),
		wallet:      wallet,
		pub:         pub,
		turnTimeout: turnTimeout,
	}
}

// Games exposes the registry for read-only handlers.
func (rm *RoomManager) Games() *game.Manager { return rm.games }

type createRoomRequest struct {
	GameType string       `json:"gameType"`
	RoomID   string       `json:"roomId"`
	Options  game.Options `json:"options"`
	Players  []game.Player `json:"players"`
}

// CreateRoomHandler builds a room plus its game instance. A client
// supplied roomId makes the call idempotent; omitting it gets a fresh id.
func (rm *RoomManager) CreateRoomHandler(c *fiber.Ctx) error {
	var body createRoomRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if body.GameType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "gameType is required"})
	}

	roomID := body.RoomID
	if roomID == "" {
		roomID = utils.GenShortID()
	}

	rm.mu.RLock()
	existing, ok := rm.Rooms[roomID]
	rm.mu.RUnlock()
	if ok {
		return c.JSON(fiber.Map{"roomId": existing.ID, "gameType": existing.GameType})
	}

	g, err := rm.games.CreateGame(roomID, game.Type(body.GameType), game.Config{
		Players: body.Players,
		Options: body.Options,
		Wallet:  rm.wallet,
	})
	if err != nil {
		return rm.errorResponse(c, err)
	}

	r := NewRoom(roomID, g, rm.pub, rm.turnTimeout)
	rm.mu.Lock()
	rm.Rooms[roomID] = r
	rm.mu.Unlock()
	go r.Run()

	rm.publish(events.SubjectRoomCreated, events.Event{
		Type:     "room_created",
		RoomID:   roomID,
		GameType: string(g.Type()),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"roomId":   roomID,
		"gameType": g.Type(),
	})
}

func (rm *RoomManager) ListRoomsHandler(c *fiber.Ctx) error {
	return c.JSON(rm.games.ActiveGames())
}

func (rm *RoomManager) RoomInfoHandler(c *fiber.Ctx) error {
	g, err := rm.games.GetGame(c.Params("roomId"))
	if err != nil {
		return rm.errorResponse(c, err)
	}
	return c.JSON(g.State())
}

func (rm *RoomManager) StatsHandler(c *fiber.Ctx) error {
	return c.JSON(rm.games.Stats())
}

func (rm *RoomManager) GetRoom(id string) (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	r, ok := rm.Rooms[id]
	return r, ok
}

// ServeWS attaches an authenticated connection to its room. Identity
// comes from the JWT the middleware already verified.
func (rm *RoomManager) ServeWS(conn *websocket.Conn) {
	roomID := conn.Params("roomId")
	r, ok := rm.GetRoom(roomID)
	if !ok {
		conn.WriteJSON(WSMessage{Type: msgMoveError})
		conn.Close()
		return
	}

	playerID, name := identityFrom(conn)
	if playerID == "" {
		conn.Close()
		return
	}

	p := NewPlayer(playerID, name, conn)
	select {
	case r.Register <- p:
	case <-r.done:
		conn.Close()
		return
	}

	go p.WritePump()
	p.ReadPump(r)
}

// identityFrom prefers the verified JWT claims; when the server runs
// without auth it falls back to query parameters.
func identityFrom(conn *websocket.Conn) (id, name string) {
	if token, ok := conn.Locals("user").(*jwt.Token); ok {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			id, _ = claims["sub"].(string)
			name, _ = claims["name"].(string)
		}
	}
	if id == "" {
		id = conn.Query("playerId")
		name = conn.Query("name")
	}
	if name == "" {
		name = id
	}
	return id, name
}

// StartSweeper reclaims rooms nobody will come back to: finished games
// and rooms that have sat empty past the grace period.
func (rm *RoomManager) StartSweeper(ctx context.Context, interval, grace time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rm.sweep(grace)
			}
		}
	}()
}

func (rm *RoomManager) sweep(grace time.Duration) {
	for _, roomID := range rm.games.Sweep(grace) {
		rm.closeRoom(roomID)
	}

	now := time.Now()
	rm.mu.RLock()
	var stale []string
	for id, r := range rm.Rooms {
		if since := r.EmptySince(); !since.IsZero() && now.Sub(since) > grace {
			stale = append(stale, id)
		}
	}
	rm.mu.RUnlock()

	for _, id := range stale {
		rm.games.RemoveGame(id)
		rm.closeRoom(id)
	}
}

func (rm *RoomManager) closeRoom(roomID string) {
	rm.mu.Lock()
	r, ok := rm.Rooms[roomID]
	delete(rm.Rooms, roomID)
	rm.mu.Unlock()
	if !ok {
		return
	}
	r.Close()
	rm.publish(events.SubjectRoomClosed, events.Event{
		Type:     "room_closed",
		RoomID:   roomID,
		GameType: string(r.GameType),
	})
}

// Shutdown closes every room; used on server exit.
func (rm *RoomManager) Shutdown() {
	rm.mu.Lock()
	rooms := make([]*Room, 0, len(rm.Rooms))
	for _, r := range rm.Rooms {
		rooms = append(rooms, r)
	}
	rm.Rooms = make(map[string]*Room)
	rm.mu.Unlock()

	for _, r := range rooms {
		r.Close()
		rm.games.RemoveGame(r.ID)
	}
}

func (rm *RoomManager) errorResponse(c *fiber.Ctx, err error) error {
	var gerr *game.Error
	if errors.As(err, &gerr) {
		status := fiber.StatusBadRequest
		if gerr.Code == game.CodeRoomNotFound {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(gerr)
	}
	logger.Error("room handler: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

func (rm *RoomManager) publish(subject string, e events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rm.pub.Publish(ctx, subject, e); err != nil {
		logger.Error("publish %s: %v", subject, err)
	}
}
