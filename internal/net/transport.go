// Package net moves chat messages between the host and its peers over
// websockets and makes the host discoverable on the local network. It
// carries the payloads opaquely: pixel data inside a message is never
// inspected or rewritten here.
package net

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"PixelChat/internal/chat"
)

// Hub is run by the host. It accepts peer connections, relays every
// inbound message to the other peers, and hands each message to the
// application.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[*websocket.Conn]*sync.Mutex // per-conn write lock

	// OnMessage receives every message that arrives from a peer.
	OnMessage func(chat.Message)
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// LAN tool: peers connect straight to the share link.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// ListenAndServe starts the host endpoint. Blocks like
// http.ListenAndServe does.
func (h *Hub) ListenAndServe(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	log.Printf("[NET] Host listening on port %d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

// ServeWS upgrades one HTTP request into a peer connection and pumps
// its messages until it drops.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[NET] Upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	h.add(conn)
	defer h.remove(conn)

	for {
		var msg chat.Message
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("[NET] Peer %s disconnected: %v", conn.RemoteAddr(), err)
			return
		}
		if h.OnMessage != nil {
			h.OnMessage(msg)
		}
		h.Broadcast(msg, conn)
	}
}

// Broadcast sends a message to every peer except the excluded one
// (the peer it came from, or nil to reach everyone).
func (h *Hub) Broadcast(msg chat.Message, exclude *websocket.Conn) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn, wmu := range h.conns {
		if conn == exclude {
			continue
		}
		wmu.Lock()
		err := conn.WriteJSON(msg)
		wmu.Unlock()
		if err != nil {
			log.Printf("[NET] Send to %s failed: %v", conn.RemoteAddr(), err)
		}
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = &sync.Mutex{}
	h.mu.Unlock()
	log.Printf("[NET] Peer connected: %s", conn.RemoteAddr())
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
	log.Printf("[NET] Peer removed: %s", conn.RemoteAddr())
}

// PeerCount returns the number of connected peers.
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Client is one peer's connection to a host.
type Client struct {
	conn *websocket.Conn
	wmu  sync.Mutex

	// OnMessage receives every message relayed by the host.
	OnMessage func(chat.Message)
}

// Dial connects to a host at host:port.
func Dial(addr string) (*Client, error) {
	url := fmt.Sprintf("ws://%s/ws", addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial host %s: %w", addr, err)
	}
	log.Printf("[NET] Connected to host at %s", addr)
	return &Client{conn: conn}, nil
}

// Send transmits one message to the host.
func (c *Client) Send(msg chat.Message) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Listen pumps inbound messages until the connection drops. Run it on
// its own goroutine.
func (c *Client) Listen() {
	for {
		var msg chat.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			log.Printf("[NET] Disconnected from host: %v", err)
			return
		}
		if c.OnMessage != nil {
			c.OnMessage(msg)
		}
	}
}

// Close tears the connection down.
func (c *Client) Close() {
	c.conn.Close()
}
