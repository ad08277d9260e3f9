package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", ServeWS())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// The hub confirms the connection is tracked before anything is emitted.
	var hello Message
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, "connected", hello.Event)
	return conn
}

// register announces the client and waits for the hub's ack so room joins are
// visible before the test emits anything.
func register(t *testing.T, conn *websocket.Conn, userID, role string) {
	t.Helper()
	err := conn.WriteJSON(Message{Event: "register_user", Payload: map[string]string{
		"userId": userID,
		"role":   role,
		"name":   "test user",
	}})
	require.NoError(t, err)

	var ack Message
	require.NoError(t, conn.ReadJSON(&ack))
	require.Equal(t, "registered", ack.Event)
}

func readEvent(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestEmitReachesAllClients(t *testing.T) {
	srv := newTestServer(t)
	customer := dial(t, srv)
	vendor := dial(t, srv)
	register(t, customer, "u1", "customer")
	register(t, vendor, "v1", "vendor")

	Emit("menu:created", map[string]string{"name": "Biryani"})

	assert.Equal(t, "menu:created", readEvent(t, customer).Event)
	assert.Equal(t, "menu:created", readEvent(t, vendor).Event)
}

func TestEmitRoomScopesDelivery(t *testing.T) {
	srv := newTestServer(t)
	customer := dial(t, srv)
	vendor := dial(t, srv)
	register(t, customer, "u1", "customer")
	register(t, vendor, "v1", "vendor")

	EmitRoom("user_u1", "order_status_updated", map[string]string{"status": "ready"})

	msg := readEvent(t, customer)
	assert.Equal(t, "order_status_updated", msg.Event)

	vendor.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var stray Message
	assert.Error(t, vendor.ReadJSON(&stray), "a room event must not leak to other rooms")
}

func TestRoleRoomDelivery(t *testing.T) {
	srv := newTestServer(t)
	vendor := dial(t, srv)
	register(t, vendor, "v1", "vendor")

	EmitRoom("vendor", "new_order", map[string]int{"tokenId": 7})

	msg := readEvent(t, vendor)
	assert.Equal(t, "new_order", msg.Event)
}

func TestNotifyTargetsSingleUser(t *testing.T) {
	srv := newTestServer(t)
	customer := dial(t, srv)
	register(t, customer, "u9", "customer")

	Notify("u9", Notification{Title: "Order Placed!", Message: "Your order #3 has been placed successfully", Type: "success"})

	msg := readEvent(t, customer)
	assert.Equal(t, "notification", msg.Event)
	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Order Placed!", payload["title"])
}

func TestUnregisteredClientGetsBroadcastsOnly(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	EmitRoom("user_u1", "notification", Notification{Title: "x"})
	Emit("menu:updated", map[string]string{"name": "Lassi"})

	msg := readEvent(t, conn)
	assert.Equal(t, "menu:updated", msg.Event)
}
