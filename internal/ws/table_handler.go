package ws

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablescore/internal/access"
	"github.com/playmatatu/tablescore/internal/config"
	"github.com/playmatatu/tablescore/internal/game"
)

// TableHub is the single hub for all tables.
var TableHub = NewHub()

// BallData is the payload of register_ball and unregister_ball.
type BallData struct {
	Ball int `json:"ball"`
}

// AutoContinueData is the payload of set_auto_continue.
type AutoContinueData struct {
	Enabled bool `json:"enabled"`
}

// EightBallData is the payload of eight_ball.
type EightBallData struct {
	CalledPocket bool `json:"called_pocket"`
}

func newClientID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return "c_" + hex.EncodeToString(b)
}

// HandleWebSocket upgrades a scoreboard connection for the table in ?tid=.
// A control token in ?ct= for the same table lets the client drive the table.
func HandleWebSocket(hub *Hub, tm *game.TableManager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID := c.Query("tid")
		if tableID == "" {
			tableID = c.Param("id")
		}
		if tableID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tid required"})
			return
		}

		tbl, err := tm.GetTable(tableID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
			return
		}

		controller := false
		if ct := c.Query("ct"); ct != "" {
			id, err := access.ParseControlToken(cfg.JWTSecret, ct)
			if err != nil || id != tableID {
				c.JSON(http.StatusForbidden, gin.H{"error": "invalid control token"})
				return
			}
			controller = true
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			hub:        hub,
			conn:       conn,
			id:         newClientID(),
			tableID:    tableID,
			controller: controller,
			send:       make(chan []byte, 256),
		}
		hub.Register(client)
		client.sendJSON(stateMessage(tbl.Snapshot(), controller))

		h := &tableHandler{tm: tm}
		go client.writePump()
		go client.readPump(h.handleMessage)
	}
}

func stateMessage(snap game.Snapshot, controller bool) map[string]interface{} {
	return map[string]interface{}{
		"type":       "table_state",
		"controller": controller,
		"snapshot":   snap,
	}
}

type tableHandler struct {
	tm *game.TableManager
}

// handleMessage applies one client message to the client's table. The
// resulting table event reaches the room through the event relay.
func (h *tableHandler) handleMessage(c *Client, msg WSMessage) {
	tbl, err := h.tm.GetTable(c.tableID)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	if msg.Type == "get_state" {
		c.sendJSON(stateMessage(tbl.Snapshot(), c.controller))
		return
	}
	if !c.controller {
		c.sendError("spectators can only request state")
		return
	}

	switch msg.Type {
	case "register_ball", "unregister_ball":
		var data BallData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid ball data")
			return
		}
		if msg.Type == "register_ball" {
			_, err = tbl.RegisterBall(data.Ball)
		} else {
			_, err = tbl.UnregisterBall(data.Ball)
		}
	case "foul":
		_, err = tbl.Foul()
	case "miss":
		_, err = tbl.Miss()
	case "advance":
		_, err = tbl.Advance()
	case "clear_ball_in_hand":
		_, err = tbl.ClearBallInHand()
	case "set_auto_continue":
		var data AutoContinueData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid auto-continue data")
			return
		}
		_, err = tbl.SetAutoContinue(data.Enabled)
	case "eight_ball":
		var data EightBallData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid eight-ball data")
			return
		}
		_, err = tbl.ResolveEightBall(data.CalledPocket)
	case "eight_ball_early":
		_, err = tbl.ResolveEightBallEarly()
	case "new_game":
		_, err = tbl.NewGame()
	default:
		c.sendError("unknown message type: " + msg.Type)
		return
	}

	if err != nil {
		log.Printf("[WS] %s on table %s by %s failed: %v", msg.Type, c.tableID, c.id, err)
		c.sendError(err.Error())
	}
}
