package services

import "sync"

// GuildLocks hands out one mutex per guild. Entry admission and close
// finalization for the same guild serialize on it; different guilds never
// contend.
type GuildLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGuildLocks creates an empty lock table.
func NewGuildLocks() *GuildLocks {
	return &GuildLocks{locks: make(map[string]*sync.Mutex)}
}

// Get returns the mutex for a guild, creating it on first use. Locks are
// never removed; the per-guild footprint is a single mutex.
func (g *GuildLocks) Get(guildID string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	lock, ok := g.locks[guildID]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[guildID] = lock
	}
	return lock
}
