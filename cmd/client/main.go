package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/Rierra/amongbot/internal/domain"
	"github.com/gorilla/websocket"
)

var (
	addr = flag.String("addr", "localhost:8080", "http service address")
	room = flag.String("room", "general", "room to join")
)

func main() {
	flag.Parse()

	username := getUsername()
	conn := connectWebSocket(username)
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})
	go readMessages(conn, done)

	// Join the room before anything else.
	if err := conn.WriteJSON(domain.ChatMessage{
		Type:   domain.MessageTypeJoin,
		Sender: username,
		Room:   *room,
	}); err != nil {
		log.Fatalf("Failed to join room: %v", err)
	}

	fmt.Println("Write messages (Enter to send). Commands: /ai on|off, #users")
	writeMessages(conn, username, interrupt, done)
}

func getUsername() string {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("Enter your username: ")
	scanner.Scan()
	return scanner.Text()
}

func connectWebSocket(username string) *websocket.Conn {
	u := url.URL{
		Scheme:   "ws",
		Host:     *addr,
		Path:     "/ws",
		RawQuery: "username=" + url.QueryEscape(username),
	}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Failed to connect to WebSocket server: %v", err)
	}
	log.Println("Connected to WebSocket server.")
	return conn
}

func readMessages(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		var msg domain.ChatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("Error reading message: %v", err)
			return
		}

		switch msg.Type {
		case domain.MessageTypeChat:
			fmt.Printf("\n[%s] %s: %s\n", msg.Timestamp, msg.Sender, msg.Content)
		case domain.MessageTypeSystem:
			fmt.Printf("\n[%s] * %s\n", msg.Timestamp, msg.Content)
		case domain.MessageTypeUserTyping:
			fmt.Printf("\n%s is typing...\n", msg.Sender)
		case domain.MessageTypeUserStoppedTyping:
			// quiet; the next chat line supersedes it
		}
	}
}

func writeMessages(conn *websocket.Conn, username string, interrupt chan os.Signal, done chan struct{}) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection...")
			err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Printf("Error during close: %v", err)
			}
			return
		default:
			if scanner.Scan() {
				content := scanner.Text()
				if content == "" {
					continue
				}

				msg, ok := buildMessage(username, content)
				if !ok {
					continue
				}

				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("Error sending message: %v", err)
					return
				}
			}
		}
	}
}

func buildMessage(username, content string) (domain.ChatMessage, bool) {
	if strings.HasPrefix(content, "/ai ") {
		var enabled bool
		switch strings.TrimSpace(strings.TrimPrefix(content, "/ai ")) {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			fmt.Println("usage: /ai on|off")
			return domain.ChatMessage{}, false
		}
		return domain.ChatMessage{
			Type:    domain.MessageTypeToggleAI,
			Room:    *room,
			Enabled: &enabled,
		}, true
	}

	return domain.ChatMessage{
		Type:      domain.MessageTypeChat,
		Sender:    username,
		Content:   content,
		Room:      *room,
		Timestamp: time.Now().Format("15:04:05"),
	}, true
}
