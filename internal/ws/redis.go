package ws

import (
	"context"
	"log"

	"github.com/playmatatu/tablescore/internal/game"
	"github.com/redis/go-redis/v9"
)

// HandleEvent broadcasts a table event to the table's room. A closed table
// also has its room dropped.
func (h *Hub) HandleEvent(ev game.Event) {
	if n := h.RoomSize(ev.TableID); n == 0 {
		return
	}
	h.BroadcastToTable(ev.TableID, ev)
	if ev.Type == game.EventTableClosed {
		h.CloseTable(ev.TableID)
	}
}

// StartEventRelay feeds table events into hub. With Redis every instance
// receives events from the shared channel; without it the in-process
// publisher is used.
func StartEventRelay(ctx context.Context, hub *Hub, rdb *redis.Client, local *game.LocalPublisher) {
	if rdb != nil {
		game.SubscribeEvents(ctx, rdb, hub.HandleEvent)
		return
	}
	if local == nil {
		log.Println("[WS] no event source configured; scoreboards will not update live")
		return
	}
	local.Subscribe(hub.HandleEvent)
	log.Println("[WS] relaying table events in-process")
}
