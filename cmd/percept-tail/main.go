// percept-tail connects to a running perceptd dashboard and prints the
// live event stream. Useful for watching a headless deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func main() {
	addr := flag.String("addr", "localhost:8090", "perceptd host:port")
	raw := flag.Bool("raw", false, "Print raw JSON instead of formatted lines")
	flag.Parse()

	url := "ws://" + *addr + "/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", url, err)
	}
	defer conn.Close()
	fmt.Printf("connected to %s\n", url)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(100 * time.Millisecond)
		os.Exit(0)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}
		if *raw {
			fmt.Println(string(msg))
			continue
		}

		var ev envelope
		if err := json.Unmarshal(msg, &ev); err != nil {
			fmt.Println(string(msg))
			continue
		}
		printEvent(ev)
	}
}

func printEvent(ev envelope) {
	ts := time.Now().Format("15:04:05")
	switch ev.Type {
	case "emotion":
		var e struct {
			Dominant   string  `json:"dominant_emotion"`
			Confidence float64 `json:"confidence"`
		}
		json.Unmarshal(ev.Data, &e)
		fmt.Printf("%s  emotion  %-10s %.0f%%\n", ts, e.Dominant, e.Confidence*100)
	case "action":
		var a struct {
			Action     string  `json:"action"`
			Confidence float64 `json:"confidence"`
		}
		json.Unmarshal(ev.Data, &a)
		if a.Action == "" {
			fmt.Printf("%s  action   (stopped)\n", ts)
			return
		}
		fmt.Printf("%s  action   %-12s %.0f%%\n", ts, a.Action, a.Confidence*100)
	case "gesture":
		var g struct {
			Gesture    string  `json:"gesture"`
			Confidence float64 `json:"confidence"`
			Hand       string  `json:"hand"`
		}
		json.Unmarshal(ev.Data, &g)
		if g.Gesture == "" {
			fmt.Printf("%s  gesture  (stopped)\n", ts)
			return
		}
		fmt.Printf("%s  gesture  %-12s %s %.0f%%\n", ts, g.Gesture, g.Hand, g.Confidence*100)
	case "commentary":
		var c struct {
			Line string `json:"line"`
		}
		json.Unmarshal(ev.Data, &c)
		fmt.Printf("%s  🎙  %s\n", ts, c.Line)
	default:
		fmt.Printf("%s  %s  %s\n", ts, ev.Type, string(ev.Data))
	}
}
