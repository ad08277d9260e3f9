package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"khana-lineup/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Message is the envelope for every frame on the socket, in both directions.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type registration struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Name   string `json:"name"`
}

type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type client struct {
	id      string
	conn    *websocket.Conn
	rooms   map[string]bool
	writeMu sync.Mutex
}

func (cl *client) write(msg Message) error {
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	return cl.conn.WriteJSON(msg)
}

var (
	mu      sync.Mutex
	clients = make(map[*client]bool)
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS upgrades the connection and keeps it registered until it drops.
// Clients announce themselves with a register_user frame carrying their id and
// role, which joins them to the role room and their own user room.
func ServeWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.Printf("websocket upgrade failed: %v", err)
			return
		}

		cl := &client{id: uuid.NewString(), conn: conn, rooms: make(map[string]bool)}
		mu.Lock()
		clients[cl] = true
		mu.Unlock()

		if err := cl.write(Message{Event: "connected", Payload: cl.id}); err != nil {
			mu.Lock()
			delete(clients, cl)
			mu.Unlock()
			conn.Close()
			return
		}

		defer func() {
			mu.Lock()
			delete(clients, cl)
			mu.Unlock()
			conn.Close()
		}()

		for {
			var raw struct {
				Event   string          `json:"event"`
				Payload json.RawMessage `json:"payload"`
			}
			if err := conn.ReadJSON(&raw); err != nil {
				return
			}
			if raw.Event != "register_user" {
				continue
			}

			var reg registration
			if err := json.Unmarshal(raw.Payload, &reg); err != nil {
				logrus.Printf("bad register_user payload from %s: %v", cl.id, err)
				continue
			}

			mu.Lock()
			if reg.Role != "" {
				cl.rooms[reg.Role] = true
			}
			if reg.UserID != "" {
				cl.rooms["user_"+reg.UserID] = true
				if reg.Role == models.RoleVendor {
					cl.rooms["vendor_"+reg.UserID] = true
				}
			}
			mu.Unlock()

			if err := cl.write(Message{Event: "registered", Payload: cl.id}); err != nil {
				return
			}
		}
	}
}

// Emit broadcasts an event to every connected client.
func Emit(event string, payload interface{}) {
	mu.Lock()
	defer mu.Unlock()
	for cl := range clients {
		deliver(cl, Message{Event: event, Payload: payload})
	}
}

// EmitRoom broadcasts an event to clients that joined the given room.
func EmitRoom(room, event string, payload interface{}) {
	mu.Lock()
	defer mu.Unlock()
	for cl := range clients {
		if cl.rooms[room] {
			deliver(cl, Message{Event: event, Payload: payload})
		}
	}
}

// deliver writes under the hub lock and drops clients whose socket is gone.
func deliver(cl *client, msg Message) {
	if err := cl.write(msg); err != nil {
		cl.conn.Close()
		delete(clients, cl)
	}
}

// Notify sends a notification event to a single user's room.
func Notify(userID string, n Notification) {
	EmitRoom("user_"+userID, "notification", n)
}

// MenuCreated, MenuUpdated and MenuDeleted mirror catalog mutations to the UI.
func MenuCreated(item models.MenuItem) {
	Emit("menu:created", item)
}

func MenuUpdated(item models.MenuItem) {
	Emit("menu:updated", item)
}

func MenuDeleted(itemID string) {
	Emit("menu:deleted", map[string]string{"menuItemId": itemID})
}

// OrderCreated fans a fresh order out to the vendor queue and the customer.
func OrderCreated(order models.Order) {
	Emit("order:created", order)
	EmitRoom(models.RoleVendor, "new_order", order)
	EmitRoom("vendor_"+order.Vendor.Hex(), "new_order", order)
	EmitRoom("vendor_"+order.Vendor.Hex(), "notification", Notification{
		Title:   "New Order!",
		Message: fmt.Sprintf("Order #%d received", order.TokenID),
		Type:    "success",
	})
	Notify(order.Customer.Hex(), Notification{
		Title:   "Order Placed!",
		Message: fmt.Sprintf("Your order #%d has been placed successfully", order.TokenID),
		Type:    "success",
	})
}

var statusMessages = map[string]string{
	models.StatusConfirmed: "Order confirmed!",
	models.StatusPreparing: "Your order is being prepared",
	models.StatusReady:     "Your order is ready for pickup!",
	models.StatusCompleted: "Order completed. Enjoy your meal!",
}

// OrderStatusUpdated pushes a status change to everyone watching the order.
func OrderStatusUpdated(order models.Order) {
	Emit("order:updated", order)
	EmitRoom("user_"+order.Customer.Hex(), "order_status_updated", order)
	EmitRoom("vendor_"+order.Vendor.Hex(), "order_status_updated", order)

	if msg, ok := statusMessages[order.Status]; ok {
		typ := "info"
		if order.Status == models.StatusReady {
			typ = "success"
		}
		Notify(order.Customer.Hex(), Notification{
			Title:   "Order Status Update",
			Message: fmt.Sprintf("Order #%d: %s", order.TokenID, msg),
			Type:    typ,
		})
	}
}

// OrderCancelled notifies both parties of a cancellation.
func OrderCancelled(order models.Order) {
	Emit("order:updated", order)
	EmitRoom("user_"+order.Customer.Hex(), "order_cancelled", order)
	EmitRoom(models.RoleVendor, "order_cancelled", order)
	EmitRoom("vendor_"+order.Vendor.Hex(), "order_cancelled", order)
}

// OrderDeleted announces a hard delete of an order record.
func OrderDeleted(orderID string) {
	Emit("order:deleted", map[string]string{"orderId": orderID})
}
