package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/labelbridge/ppla-engine/internal/label"
	"github.com/labelbridge/ppla-engine/internal/printer"
	"github.com/labelbridge/ppla-engine/pkg/labelformat"
)

// WebSocket message types
const (
	EventPrint          = "print"
	EventPrinterAdded   = "printer_added"
	EventPrinterRemoved = "printer_removed"
	EventResponse       = "response"
	EventError          = "error"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// WSClient represents a connected WebSocket client
type WSClient struct {
	conn   *websocket.Conn
	send   chan WSMessage
	server *Server
	mu     sync.Mutex
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		fmt.Printf("WebSocket upgrade failed: %v\n", err)
		return
	}

	client := &WSClient{
		conn:   conn,
		send:   make(chan WSMessage, 256),
		server: s,
	}

	fmt.Println("WebSocket client connected")

	// Start goroutines
	go client.readPump()
	go client.writePump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		c.mu.Lock()
		err := c.conn.WriteJSON(msg)
		c.mu.Unlock()

		if err != nil {
			fmt.Printf("WebSocket write error: %v\n", err)
			return
		}
	}
}

func (c *WSClient) handleMessage(msg *WSMessage) {
	switch msg.Event {
	case EventPrint:
		c.handlePrintEvent(msg.Data)
	default:
		c.sendError(fmt.Sprintf("unknown event: %s", msg.Event))
	}
}

func (c *WSClient) handlePrintEvent(data map[string]interface{}) {
	// Extract printer_id
	printerID, ok := data["printer_id"].(string)
	if !ok {
		c.sendError("printer_id is required")
		return
	}

	// Load label from path/URL if provided, otherwise use the inline document
	var doc *labelformat.Label
	var err error

	if labelURL, ok := data["label_url"].(string); ok && labelURL != "" {
		doc, err = loadLabelFromPathOrURL(labelURL)
		if err != nil {
			c.sendError(fmt.Sprintf("failed to load label from URL: %v", err))
			return
		}
	} else if labelPath, ok := data["label_path"].(string); ok && labelPath != "" {
		doc, err = loadLabelFromPathOrURL(labelPath)
		if err != nil {
			c.sendError(fmt.Sprintf("failed to load label from path: %v", err))
			return
		}
	} else if labelData, ok := data["label"]; ok {
		// Use inline label JSON
		labelBytes, _ := json.Marshal(labelData)
		doc, err = labelformat.Parse(labelBytes)
		if err != nil {
			c.sendError(fmt.Sprintf("invalid label: %v", err))
			return
		}
	} else {
		c.sendError("label, label_path, or label_url is required")
		return
	}

	// Render
	img, err := label.Render(doc)
	if err != nil {
		c.sendError(fmt.Sprintf("failed to render label: %v", err))
		return
	}

	copies := 0
	if n, ok := data["copies"].(float64); ok && n > 0 {
		copies = int(n)
	}

	// Enqueue print job, document setup plus the event's copies override
	jobID := c.server.queue.Enqueue(printerID, img, label.Options(doc, copies))

	c.sendResponse(map[string]interface{}{
		"success": true,
		"job_id":  jobID,
	})
}

func (c *WSClient) sendResponse(data map[string]interface{}) {
	c.send <- WSMessage{
		Event: EventResponse,
		Data:  data,
	}
}

// Client tracking for broadcasts
var (
	clients   = make(map[*WSClient]bool)
	clientsMu sync.RWMutex
)

func addClient(client *WSClient) {
	clientsMu.Lock()
	clients[client] = true
	clientsMu.Unlock()
}

func removeClient(client *WSClient) {
	clientsMu.Lock()
	delete(clients, client)
	clientsMu.Unlock()
}

func (c *WSClient) readPump() {
	defer func() {
		removeClient(c)
		c.conn.Close()
		fmt.Println("WebSocket client disconnected")
	}()

	addClient(c)

	for {
		var msg WSMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("WebSocket error: %v\n", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

func (c *WSClient) sendError(message string) {
	c.send <- WSMessage{
		Event: EventError,
		Data: map[string]interface{}{
			"error": message,
		},
	}
}

// BroadcastPrinterAdded broadcasts a printer added event to all connected clients
func (s *Server) BroadcastPrinterAdded(printer *printer.Printer) {
	clientsMu.RLock()
	defer clientsMu.RUnlock()

	message := WSMessage{
		Event: EventPrinterAdded,
		Data: map[string]interface{}{
			"id":          printer.ID,
			"type":        printer.Type,
			"description": printer.Description,
			"name":        printer.Name,
		},
	}

	for client := range clients {
		select {
		case client.send <- message:
		default:
			// Client send buffer full, skip
		}
	}

	fmt.Printf("Broadcast: printer added - %s\n", printer.Description)
}

// BroadcastPrinterRemoved broadcasts a printer removed event to all connected clients
func (s *Server) BroadcastPrinterRemoved(printerID string) {
	clientsMu.RLock()
	defer clientsMu.RUnlock()

	message := WSMessage{
		Event: EventPrinterRemoved,
		Data: map[string]interface{}{
			"id": printerID,
		},
	}

	for client := range clients {
		select {
		case client.send <- message:
		default:
			// Client send buffer full, skip
		}
	}

	fmt.Printf("Broadcast: printer removed - %s\n", printerID)
}
