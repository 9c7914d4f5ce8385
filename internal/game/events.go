package game

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// EventsChannel is the Redis pub/sub channel table events travel on.
const EventsChannel = "table_events"

const (
	EventTableUpdate = "table_update"
	EventTableClosed = "table_closed"
)

// Event is a change notification for one table.
type Event struct {
	Type     string    `json:"type"`
	TableID  string    `json:"table_id"`
	Action   string    `json:"action,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// Publisher delivers table events to whoever renders them.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// LocalPublisher fans events out to in-process subscribers.
type LocalPublisher struct {
	subs []func(Event)
	mu   sync.RWMutex
}

// NewLocalPublisher creates a publisher with no subscribers.
func NewLocalPublisher() *LocalPublisher {
	return &LocalPublisher{}
}

// Subscribe registers fn for every future event.
func (p *LocalPublisher) Subscribe(fn func(Event)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}

// Publish calls every subscriber synchronously.
func (p *LocalPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.RLock()
	subs := append([]func(Event){}, p.subs...)
	p.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
	return nil
}

// RedisPublisher publishes events on EventsChannel so every instance's
// subscriber can broadcast them to its own WebSocket clients.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher wraps a connected client.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// decodeEvent parses a payload written by RedisPublisher.
func decodeEvent(payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Publish marshals ev and publishes it.
func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	n, err := p.rdb.Publish(ctx, EventsChannel, b).Result()
	if err != nil {
		log.Printf("[REDIS] publish %s for table %s failed: %v", ev.Type, ev.TableID, err)
		return err
	}
	log.Printf("[REDIS] published %s/%s for table %s (subscribers=%d)", ev.Type, ev.Action, ev.TableID, n)
	return nil
}

// SubscribeEvents relays events from EventsChannel to fn until ctx is done.
func SubscribeEvents(ctx context.Context, rdb *redis.Client, fn func(Event)) {
	pubsub := rdb.Subscribe(ctx, EventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[REDIS] %s subscriber started", EventsChannel)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[REDIS] %s subscriber stopping", EventsChannel)
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				ev, err := decodeEvent(msg.Payload)
				if err != nil {
					log.Printf("[REDIS] invalid event payload: %v", err)
					continue
				}
				fn(ev)
			}
		}
	}()
}
