package presence

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/matheus3301/localchat/internal/bus"
	"github.com/matheus3301/localchat/internal/model"
)

// Delays bounds the random timers of the simulated provider.
type Delays struct {
	StartMin, StartMax time.Duration
	HideMin, HideMax   time.Duration
}

// DefaultDelays makes the peer start typing within a second and stop after 2-5s.
var DefaultDelays = Delays{
	StartMin: 300 * time.Millisecond,
	StartMax: time.Second,
	HideMin:  2 * time.Second,
	HideMax:  5 * time.Second,
}

// Simulated fakes a peer that starts typing shortly after receiving a message.
type Simulated struct {
	bus    *bus.Bus
	delays Delays

	mu     sync.Mutex
	timers map[model.ChatID]*peerTimer
	closed bool
}

type peerTimer struct {
	gen    uint64
	timer  *time.Timer
	typing bool
}

// NewSimulated creates a simulated provider publishing to b.
func NewSimulated(b *bus.Bus, d Delays) *Simulated {
	return &Simulated{
		bus:    b,
		delays: d,
		timers: make(map[model.ChatID]*peerTimer),
	}
}

// Typing publishes the local user's state as is.
func (s *Simulated) Typing(chatID model.ChatID, userKey string, typing bool) {
	publish(s.bus, chatID, userKey, typing)
}

// Delivered arms the chat's timer, replacing any run that is still pending.
func (s *Simulated) Delivered(chatID model.ChatID, peerKey string) {
	if peerKey == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	pt, ok := s.timers[chatID]
	if !ok {
		pt = &peerTimer{}
		s.timers[chatID] = pt
	}
	if pt.timer != nil {
		pt.timer.Stop()
	}
	if pt.typing {
		pt.typing = false
		publish(s.bus, chatID, peerKey, false)
	}
	pt.gen++
	gen := pt.gen

	pt.timer = time.AfterFunc(between(s.delays.StartMin, s.delays.StartMax), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || pt.gen != gen {
			return
		}
		pt.typing = true
		publish(s.bus, chatID, peerKey, true)
		pt.timer = time.AfterFunc(between(s.delays.HideMin, s.delays.HideMax), func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed || pt.gen != gen {
				return
			}
			pt.typing = false
			publish(s.bus, chatID, peerKey, false)
		})
	})
}

// Close stops every pending timer. Later calls to Delivered are ignored.
func (s *Simulated) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, pt := range s.timers {
		if pt.timer != nil {
			pt.timer.Stop()
		}
		delete(s.timers, id)
	}
}

func between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo)
}
