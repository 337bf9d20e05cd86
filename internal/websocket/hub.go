package chatws

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/services"
)

const (
	EventUserConnected = "userConnected"
	EventSendMessage   = "sendMessage"
	EventNewMessage    = "newMessage"
	EventWelcome       = "welcome"
	EventError         = "error"

	presenceTimeout = 3 * time.Second
	presenceBuffer  = 256
	sendTimeout     = 5 * time.Second
)

// Hub owns the room table. Rooms are named after the stringified user id and
// every mutation goes through Run's goroutine.
type Hub struct {
	clients    map[*Client]string
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	join       chan roomJoin
	broadcast  chan *models.Message
	presence   services.PresenceStore
	changes    chan presenceChange
}

type presenceChange struct {
	userID int64
	online bool
}

type roomJoin struct {
	client *Client
	room   string
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

type messageSender interface {
	SendMessage(ctx context.Context, input services.SendMessageInput) (*models.Message, error)
}

type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outgoingEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type welcomePayload struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id,omitempty"`
}

type errorPayload struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func NewHub(presence services.PresenceStore) *Hub {
	return &Hub{
		clients:    make(map[*Client]string),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan roomJoin),
		broadcast:  make(chan *models.Message, 64),
		presence:   presence,
		changes:    make(chan presenceChange, presenceBuffer),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	if h.presence != nil {
		go h.applyPresence()
	}
	for {
		select {
		case client := <-h.register:
			h.clients[client] = ""
		case change := <-h.join:
			h.moveToRoom(change.client, change.room)
		case client := <-h.unregister:
			room, ok := h.clients[client]
			if !ok {
				continue
			}
			h.leaveRoom(client, room)
			delete(h.clients, client)
			close(client.send)
		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) Join(client *Client, userID string) {
	h.join <- roomJoin{client: client, room: userID}
}

// PublishMessage queues a stored message for both participants. When the
// queue is full the message is dropped; the database copy stays authoritative.
func (h *Hub) PublishMessage(message *models.Message) {
	if message == nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
		log.Printf("chat hub broadcast queue full, dropping message %d", message.ID)
	}
}

func (h *Hub) moveToRoom(client *Client, room string) {
	current, ok := h.clients[client]
	if !ok || current == room {
		return
	}
	h.leaveRoom(client, current)

	set, exists := h.rooms[room]
	if !exists {
		set = make(map[*Client]struct{})
		h.rooms[room] = set
	}
	set[client] = struct{}{}
	h.clients[client] = room
	h.notifyPresence(room, true)
}

func (h *Hub) leaveRoom(client *Client, room string) {
	if room == "" {
		return
	}
	set, ok := h.rooms[room]
	if !ok {
		return
	}
	if _, exists := set[client]; exists {
		delete(set, client)
		h.notifyPresence(room, false)
	}
	if len(set) == 0 {
		delete(h.rooms, room)
	}
}

// notifyPresence queues a change for applyPresence. Changes must reach the
// store in the order the hub saw them.
func (h *Hub) notifyPresence(room string, online bool) {
	if h.presence == nil {
		return
	}
	userID, err := strconv.ParseInt(room, 10, 64)
	if err != nil {
		return
	}
	h.changes <- presenceChange{userID: userID, online: online}
}

func (h *Hub) applyPresence() {
	for change := range h.changes {
		ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
		var err error
		if change.online {
			err = h.presence.MarkOnline(ctx, change.userID)
		} else {
			err = h.presence.MarkOffline(ctx, change.userID)
		}
		cancel()
		if err != nil {
			log.Printf("chat hub presence update for user %d: %v", change.userID, err)
		}
	}
}

func (h *Hub) deliver(message *models.Message) {
	encoded, err := encodeEvent(EventNewMessage, message)
	if err != nil {
		log.Printf("chat hub encode message: %v", err)
		return
	}

	sender := strconv.FormatInt(message.SenderID, 10)
	receiver := strconv.FormatInt(message.ReceiverID, 10)
	h.sendToRoom(sender, encoded)
	if receiver != sender {
		h.sendToRoom(receiver, encoded)
	}
}

func (h *Hub) sendToRoom(room string, payload []byte) {
	set, ok := h.rooms[room]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			delete(h.clients, client)
			close(client.send)
			h.notifyPresence(room, false)
		}
	}
	if len(set) == 0 {
		delete(h.rooms, room)
	}
}

func encodeEvent(name string, data any) ([]byte, error) {
	return json.Marshal(outgoingEvent{Event: name, Data: data})
}

// ReadPump processes client events until the connection closes. A client that
// authenticated with a token is pinned to its own user id.
func (c *Client) ReadPump(service messageSender) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.greet()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.handleEvent(service, payload)
	}
}

func (c *Client) handleEvent(service messageSender, payload []byte) {
	var incoming Event
	if err := json.Unmarshal(payload, &incoming); err != nil {
		writeError(c, "invalid event payload")
		return
	}

	switch incoming.Event {
	case EventUserConnected:
		var data struct {
			UserID json.Number `json:"user_id"`
		}
		if err := json.Unmarshal(incoming.Data, &data); err != nil {
			writeError(c, "invalid user id")
			return
		}
		userID, err := data.UserID.Int64()
		if err != nil || userID <= 0 {
			writeError(c, "invalid user id")
			return
		}
		room := strconv.FormatInt(userID, 10)
		if c.userID != "" && c.userID != room {
			writeError(c, "user id does not match token")
			return
		}
		c.userID = room
		c.joinRoom(room)
	case EventSendMessage:
		var data struct {
			SenderID   json.Number `json:"sender_id"`
			ReceiverID json.Number `json:"receiver_id"`
			Message    string      `json:"message"`
		}
		if err := json.Unmarshal(incoming.Data, &data); err != nil {
			writeError(c, "invalid message payload")
			return
		}
		senderID, senderErr := data.SenderID.Int64()
		receiverID, receiverErr := data.ReceiverID.Int64()
		if senderErr != nil || receiverErr != nil {
			writeError(c, "invalid message payload")
			return
		}
		if c.userID != "" && strconv.FormatInt(senderID, 10) != c.userID {
			writeError(c, "sender does not match connected user")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if _, err := service.SendMessage(ctx, services.SendMessageInput{
			SenderID:   senderID,
			ReceiverID: receiverID,
			Message:    data.Message,
		}); err != nil {
			writeError(c, "failed to send message")
		}
	default:
		writeError(c, "unsupported event")
	}
}

// greet sends the connect-time welcome. Token holders join their room right
// away; anonymous clients are greeted and expected to send userConnected.
func (c *Client) greet() {
	if c.userID != "" {
		c.joinRoom(c.userID)
		return
	}
	payload, err := encodeEvent(EventWelcome, welcomePayload{Message: "Welcome, send userConnected to join your room"})
	if err != nil {
		return
	}
	c.trySend(payload)
}

func (c *Client) joinRoom(room string) {
	c.hub.Join(c, room)

	userID, _ := strconv.ParseInt(room, 10, 64)
	payload, err := encodeEvent(EventWelcome, welcomePayload{
		Message: "Welcome user " + room,
		UserID:  userID,
	})
	if err != nil {
		return
	}
	c.trySend(payload)
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// trySend never blocks the read loop; a full buffer means a stalled writer.
func (c *Client) trySend(payload []byte) {
	defer func() {
		// send may already be closed by the hub after a slow-consumer drop.
		_ = recover()
	}()
	select {
	case c.send <- payload:
	default:
	}
}

func writeError(client *Client, message string) {
	payload, err := encodeEvent(EventError, errorPayload{
		Message:   message,
		Timestamp: services.FormatChatTimestamp(time.Now().UTC()),
	})
	if err != nil {
		return
	}
	client.trySend(payload)
}
