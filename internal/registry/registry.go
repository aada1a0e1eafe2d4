package registry

import (
	"sync"

	"github.com/Rierra/amongbot/internal/domain"
)

// maxHistory is the number of conversation turns kept per room as
// completion context. Oldest turns are evicted first.
const maxHistory = 10

// StyleCounters accumulates per-room tone markers. Counters only ever
// increase; there is no reset.
type StyleCounters struct {
	Casual     int
	Formal     int
	EmojiUsage int
}

type room struct {
	history    []domain.HistoryEntry
	style      StyleCounters
	aiEnabled  bool
	replyBusy  bool
}

// Registry holds all in-memory conversational state, keyed by room name.
// Rooms are created lazily on first reference and live for the process
// lifetime. Unlike the hub, which tracks live connections, the registry
// tracks what the bot knows about each room.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*room
}

func New() *Registry {
	return &Registry{rooms: make(map[string]*room)}
}

// get returns the room state, creating it with AI enabled by default.
// Callers must hold r.mu.
func (r *Registry) get(name string) *room {
	rm, ok := r.rooms[name]
	if !ok {
		rm = &room{aiEnabled: true}
		r.rooms[name] = rm
	}
	return rm
}

// Touch ensures the room exists so that joining alone pins the AI default.
func (r *Registry) Touch(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(name)
}

// SetAIEnabled records the most recent toggle for the room. Last write wins.
func (r *Registry) SetAIEnabled(name string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(name).aiEnabled = enabled
}

// AIEnabled reports whether bot replies are generated for the room.
// Unknown rooms default to enabled.
func (r *Registry) AIEnabled(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(name).aiEnabled
}

// AppendHistory adds one conversation turn, evicting the oldest when the
// cap is exceeded.
func (r *Registry) AppendHistory(name string, entry domain.HistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm := r.get(name)
	rm.history = append(rm.history, entry)
	if len(rm.history) > maxHistory {
		rm.history = rm.history[len(rm.history)-maxHistory:]
	}
}

// History returns a copy of the room's recent turns.
func (r *Registry) History(name string) []domain.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm := r.get(name)
	out := make([]domain.HistoryEntry, len(rm.history))
	copy(out, rm.history)
	return out
}

// TryAcquireReply claims the room's single bot-reply slot. It returns false
// when a reply is already in flight, which keeps overlapping sendMessage
// timers from racing each other on the same history.
func (r *Registry) TryAcquireReply(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm := r.get(name)
	if rm.replyBusy {
		return false
	}
	rm.replyBusy = true
	return true
}

// ReleaseReply frees the slot claimed by TryAcquireReply.
func (r *Registry) ReleaseReply(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(name).replyBusy = false
}

// Styles returns the room's accumulated tone counters.
func (r *Registry) Styles(name string) StyleCounters {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(name).style
}
