// Command ws_smoke requests a timer in a room and watches the WebSocket
// stream until the request comes back. Defaults target the smoketest room so
// runs against production do not pollute the usage statistics.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const smoketestRoom = "testroom-310a9c47-515c-4ad7-a229-ae8efbab7387"

type frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	base := flag.String("base", "http://localhost:8080", "server base URL")
	room := flag.String("room", smoketestRoom, "room name")
	user := flag.String("user", "smoketest", "user requesting the timer")
	minutes := flag.Int64("minutes", 1, "timer length in minutes")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	wsURL := "ws" + (*base)[len("http"):] + "/" + *room + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	var initial frame
	if err := wsjson.Read(ctx, conn, &initial); err != nil {
		return fmt.Errorf("read initial history: %w", err)
	}
	if initial.Event != "INITIAL_HISTORY" {
		return fmt.Errorf("first frame is %q, want INITIAL_HISTORY", initial.Event)
	}
	fmt.Println("got initial history")

	body := fmt.Sprintf(`{"timer":%d,"user":%q}`, *minutes, *user)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, *base+"/"+*room, bytes.NewBufferString(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("put timer: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("put timer: status %d", resp.StatusCode)
	}

	for {
		var f frame
		if err := wsjson.Read(ctx, conn, &f); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		fmt.Printf("received frame: event=%s\n", f.Event)
		if f.Event == "TIMER_REQUEST" {
			fmt.Println("timer request observed, smoke test passed")
			return nil
		}
	}
}
