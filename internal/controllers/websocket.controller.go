package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"netgauge/internal/middleware"
	"netgauge/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now (can be restricted based on config)
		return true
	},
}

// HandleWebSocket handles incoming WebSocket connections
func HandleWebSocket(c *gin.Context) {
	// Extract and validate token from query parameter
	token := c.Query("token")
	if token == "" {
		if middleware.GlobalSecurityLogger != nil {
			middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "missing token")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	// Reject obviously malformed tokens before doing signature work
	if !middleware.NewInputValidator().ValidateToken(token) {
		if middleware.GlobalSecurityLogger != nil {
			middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "malformed token")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "malformed token"})
		return
	}

	claims, err := services.ValidateToken(token)
	if err != nil {
		if middleware.GlobalSecurityLogger != nil {
			middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "invalid token: "+err.Error())
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
		return
	}

	if middleware.GlobalSecurityLogger != nil {
		middleware.GlobalSecurityLogger.LogWebSocketConnected(c.ClientIP(), claims.ClientName)
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	clientID := c.ClientIP() + "-" + claims.ClientName
	client := &services.ClientConnection{
		ID:    clientID,
		Conn:  ws,
		Send:  make(chan services.WebSocketMessage, 256),
		Close: make(chan bool),
	}

	hub := services.GetWebSocketHub()
	hub.Register(client)

	ip := c.ClientIP()
	go func() {
		readPump(client, hub)
		if middleware.GlobalSecurityLogger != nil {
			middleware.GlobalSecurityLogger.LogWebSocketDisconnected(ip, clientID)
		}
	}()
	go writePump(client)
}

// readPump reads messages from the WebSocket client
func readPump(client *services.ClientConnection, hub *services.WebSocketHub) {
	defer func() {
		hub.Unregister(client.ID)
		client.Conn.Close()
	}()

	client.Conn.SetPongHandler(func(string) error {
		return nil
	})

	for {
		var msg services.WebSocketMessage
		err := client.Conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] WebSocket error: %v", err)
			}
			return
		}

		switch msg.Type {
		case "ping":
			pong := services.WebSocketMessage{Type: "pong"}
			select {
			case client.Send <- pong:
			case <-client.Close:
				return
			default:
				return
			}

		case "subscribe":
			// Already subscribed; every client receives the delta stream
			log.Printf("[WS] Client %s subscribed to updates", client.ID)

		case "unsubscribe":
			return

		default:
			log.Printf("[WS] Unknown message type: %s", msg.Type)
		}
	}
}

// writePump writes messages to the WebSocket client
func writePump(client *services.ClientConnection) {
	defer func() {
		client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			err := client.Conn.WriteJSON(msg)
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[WS] Write error: %v", err)
				}
				return
			}

		case <-client.Close:
			client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// HandleGetToken generates a new JWT token for the WebSocket stream
func HandleGetToken(c *gin.Context) {
	clientName := c.DefaultQuery("client_name", "netgauge-viewer")

	validator := middleware.NewInputValidator()
	if !validator.ValidateClientName(clientName) {
		if middleware.GlobalSecurityLogger != nil {
			middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "invalid client name format")
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client name format"})
		return
	}

	token, err := services.GenerateToken(clientName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	if middleware.GlobalSecurityLogger != nil {
		middleware.GlobalSecurityLogger.LogTokenGenerated(c.ClientIP(), clientName)
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
