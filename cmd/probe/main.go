// Command probe is a smoke test client: it creates a room over HTTP,
// attaches two websocket players and plays a few tic-tac-toe moves,
// printing every frame the server pushes back.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

var (
	addr     = flag.String("addr", "localhost:3000", "server host:port")
	gameType = flag.String("game", "tic-tac-toe", "game type to create")
	moves    = flag.Int("moves", 5, "how many random moves to attempt")
)

type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func createRoom() string {
	body, _ := json.Marshal(map[string]any{"gameType": *gameType})
	resp, err := http.Post("http://"+*addr+"/rooms", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("create room: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		RoomID string `json:"roomId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.RoomID == "" {
		log.Fatalf("create room: bad response (status %d)", resp.StatusCode)
	}
	return out.RoomID
}

func connect(roomID, playerID string) *websocket.Conn {
	u := url.URL{
		Scheme:   "ws",
		Host:     *addr,
		Path:     "/ws/" + roomID,
		RawQuery: "playerId=" + playerID + "&name=" + playerID,
	}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("dial %s: %v", playerID, err)
	}
	return c
}

func send(c *websocket.Conn, msgType string, payload any) {
	data, _ := json.Marshal(payload)
	frame, _ := json.Marshal(wsMessage{Type: msgType, Data: data})
	if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
		log.Fatalf("write %s: %v", msgType, err)
	}
}

func drain(c *websocket.Conn, who string) {
	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			return
		}
		fmt.Printf("[%s] %s\n", who, msg)
	}
}

func main() {
	flag.Parse()

	roomID := createRoom()
	fmt.Println("room:", roomID)

	a := connect(roomID, "probe-a")
	b := connect(roomID, "probe-b")
	defer a.Close()
	defer b.Close()

	go drain(a, "a")
	go drain(b, "b")

	send(a, "ready", map[string]bool{"ready": true})
	send(b, "ready", map[string]bool{"ready": true})
	time.Sleep(200 * time.Millisecond)

	// Fire moves from both sides; the off-turn ones should come back as
	// move_error frames.
	for i := 0; i < *moves; i++ {
		send(a, "move", map[string]int{"position": i})
		send(b, "move", map[string]int{"position": i})
		time.Sleep(200 * time.Millisecond)
	}

	send(a, "leave", struct{}{})
	send(b, "leave", struct{}{})
	time.Sleep(200 * time.Millisecond)
}
