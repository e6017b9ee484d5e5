// apps/go-server/internal/broadcast/bus.go
//
// Fan-out of game updates to live viewers.
// Responsibilities:
//   - Per-game subscriptions (WebSocket handlers subscribe, unsubscribe on disconnect).
//   - Non-blocking publish: a slow subscriber misses messages, the game never waits.
//   - Forwarding every message to optional sinks (NATS).
//
// Notes:
//   - Each Message carries the full snapshot, so a subscriber that dropped
//     messages catches up with the next one.

package broadcast

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
)

// Message is one state change of one game.
type Message struct {
	GameID     string        `json:"gameId"`
	Generation uint64        `json:"generation"`
	Events     []game.Event  `json:"events"`
	Snapshot   game.Snapshot `json:"snapshot"`
}

// Publisher accepts game updates.
type Publisher interface {
	Publish(Message)
}

// Sink receives every published message after local fan-out.
type Sink interface {
	Send(Message) error
}

// subscriberBuffer bounds how far a subscriber may fall behind.
const subscriberBuffer = 16

// Bus is an in-process publish/subscribe hub keyed by game id.
type Bus struct {
	log   zerolog.Logger
	sinks []Sink

	mu   sync.RWMutex
	subs map[string]map[chan Message]struct{}
}

// NewBus returns an empty bus forwarding to sinks.
func NewBus(log zerolog.Logger, sinks ...Sink) *Bus {
	return &Bus{log: log, sinks: sinks, subs: make(map[string]map[chan Message]struct{})}
}

// Subscribe registers for gameID's messages. The returned func unsubscribes
// and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe(gameID string) (<-chan Message, func()) {
	ch := make(chan Message, subscriberBuffer)
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan Message]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[gameID], ch)
			if len(b.subs[gameID]) == 0 {
				delete(b.subs, gameID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscriptions for gameID.
func (b *Bus) Subscribers(gameID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[gameID])
}

// Publish delivers m to every subscriber of its game, then to the sinks.
func (b *Bus) Publish(m Message) {
	b.mu.RLock()
	for ch := range b.subs[m.GameID] {
		select {
		case ch <- m:
		default:
			b.log.Warn().Str("gameId", m.GameID).Msg("subscriber lagging, dropped update")
		}
	}
	b.mu.RUnlock()

	for _, s := range b.sinks {
		if err := s.Send(m); err != nil {
			b.log.Warn().Err(err).Str("gameId", m.GameID).Msg("sink send failed")
		}
	}
}
