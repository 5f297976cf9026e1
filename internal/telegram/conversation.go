package telegram

import (
	"sync"
	"time"

	"ai-event-planner/internal/planner"
	"ai-event-planner/internal/session"
)

// briefForm collects the brief one field per message.
type briefForm struct {
	brief planner.EventBrief
	step  int
}

func (f *briefForm) field() planner.Field {
	return planner.Fields[f.step]
}

func (f *briefForm) done() bool {
	return f.step >= len(planner.Fields)
}

// chat is the state of one Telegram chat. mu is held for the whole of an action so each
// chat has at most one model call in flight.
type chat struct {
	mu       sync.Mutex
	sess     *session.Session
	form     *briefForm
	lastSeen time.Time
}

// Conversations keeps per-chat state in memory and forgets chats idle for longer than ttl.
type Conversations struct {
	mu    sync.Mutex
	chats map[int64]*chat
	ttl   time.Duration
	now   func() time.Time
}

// NewConversations creates an empty store. A ttl of zero keeps chats forever.
func NewConversations(ttl time.Duration) *Conversations {
	return &Conversations{
		chats: make(map[int64]*chat),
		ttl:   ttl,
		now:   time.Now,
	}
}

// acquire returns the locked state of chatID, creating it when needed. The caller must
// unlock it.
func (c *Conversations) acquire(chatID int64) *chat {
	c.mu.Lock()
	now := c.now()
	c.sweepLocked(now)
	ch, ok := c.chats[chatID]
	if !ok {
		ch = &chat{sess: session.New()}
		c.chats[chatID] = ch
	}
	ch.lastSeen = now
	c.mu.Unlock()

	ch.mu.Lock()
	return ch
}

// Sweep drops idle chats and returns how many were removed.
func (c *Conversations) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(c.now())
}

// Len returns the number of tracked chats.
func (c *Conversations) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.chats)
}

func (c *Conversations) sweepLocked(now time.Time) int {
	if c.ttl <= 0 {
		return 0
	}
	removed := 0
	for id, ch := range c.chats {
		if now.Sub(ch.lastSeen) > c.ttl {
			delete(c.chats, id)
			removed++
		}
	}
	return removed
}
