package game

import (
	"encoding/json"
	"sync"
	"time"
)

// Manager is the registry of live game instances, one per room. It is a
// plain object, no package level state; the room layer owns exactly one.
type Manager struct {
	mu        sync.RWMutex
	factories map[Type]Factory
	games     map[string]Game
	created   map[string]time.Time
}

func NewManager(factories map[Type]Factory) *Manager {
	return &Manager{
		factories: factories,
		games:     make(map[string]Game),
		created:   make(map[string]time.Time),
	}
}

// CreateGame builds and registers an instance for roomID. Creating a room
// that already exists returns the existing instance untouched, so a retried
// create is harmless. Unsupported types and bad player counts fail before
// anything is registered.
func (m *Manager) CreateGame(roomID string, t Type, cfg Config) (Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if g, ok := m.games[roomID]; ok {
		return g, nil
	}
	factory, ok := m.factories[t]
	if !ok {
		return nil, Errf(CodeUnsupportedGameType, "unsupported game type %q", t)
	}
	cfg.RoomID = roomID
	g, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	m.games[roomID] = g
	m.created[roomID] = time.Now()
	return g, nil
}

func (m *Manager) GetGame(roomID string) (Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[roomID]
	if !ok {
		return nil, Errf(CodeRoomNotFound, "room %q not found", roomID)
	}
	return g, nil
}

// RemoveGame unregisters the instance and runs its Cleanup. Removing an
// unknown room is a no-op.
func (m *Manager) RemoveGame(roomID string) {
	m.mu.Lock()
	g, ok := m.games[roomID]
	delete(m.games, roomID)
	delete(m.created, roomID)
	m.mu.Unlock()
	if ok {
		g.Cleanup()
	}
}

// ApplyMove routes a move to the room's instance.
func (m *Manager) ApplyMove(roomID, playerID string, move json.RawMessage) error {
	g, err := m.GetGame(roomID)
	if err != nil {
		return err
	}
	return g.ApplyMove(playerID, move)
}

func (m *Manager) IsValidMove(roomID, playerID string, move json.RawMessage) bool {
	g, err := m.GetGame(roomID)
	if err != nil {
		return false
	}
	return g.IsValidMove(playerID, move)
}

type GameInfo struct {
	RoomID   string `json:"roomId"`
	GameType Type   `json:"gameType"`
	Status   Status `json:"status"`
	Players  int    `json:"players"`
}

func (m *Manager) ActiveGames() []GameInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]GameInfo, 0, len(m.games))
	for roomID, g := range m.games {
		st := g.State()
		out = append(out, GameInfo{
			RoomID:   roomID,
			GameType: st.GameType,
			Status:   st.Status,
			Players:  len(st.Players),
		})
	}
	return out
}

type Stats struct {
	Total    int            `json:"totalGames"`
	ByType   map[Type]int   `json:"byType"`
	ByStatus map[Status]int `json:"byStatus"`
}

func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{
		ByType:   make(map[Type]int),
		ByStatus: make(map[Status]int),
	}
	for _, g := range m.games {
		st := g.State()
		s.Total++
		s.ByType[st.GameType]++
		s.ByStatus[st.Status]++
	}
	return s
}

// Sweep reclaims instances nobody will come back to: finished games past
// maxAge and waiting games that never got a player. Returns the removed
// room ids so the room layer can drop its side too.
func (m *Manager) Sweep(maxAge time.Duration) []string {
	now := time.Now()

	m.mu.RLock()
	var stale []string
	for roomID, g := range m.games {
		st := g.State()
		switch st.Status {
		case StatusFinished:
			if now.Sub(st.FinishedAt) > maxAge {
				stale = append(stale, roomID)
			}
		case StatusWaiting:
			if len(st.Players) == 0 && now.Sub(m.created[roomID]) > maxAge {
				stale = append(stale, roomID)
			}
		}
	}
	m.mu.RUnlock()

	for _, roomID := range stale {
		m.RemoveGame(roomID)
	}
	return stale
}
