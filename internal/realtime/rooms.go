package realtime

import (
	"errors"
	"sync"
)

var (
	ErrUnknownConn    = errors.New("connection is not registered")
	ErrRegistryClosed = errors.New("registry is closed")
)

// Registry keeps live connections and the rooms they joined. Rooms live in an
// index keyed by poll id; connections never carry their own membership.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]Conn
	rooms  map[int64]map[string]struct{}
	joined map[string]map[int64]struct{}
	closed bool
}

type Stats struct {
	Connections int `json:"connections"`
	Rooms       int `json:"rooms"`
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]Conn),
		rooms:  make(map[int64]map[string]struct{}),
		joined: make(map[string]map[int64]struct{}),
	}
}

// Register fails with ErrRegistryClosed once CloseAll has run.
func (r *Registry) Register(c Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRegistryClosed
	}

	r.conns[c.ID()] = c
	if _, ok := r.joined[c.ID()]; !ok {
		r.joined[c.ID()] = make(map[int64]struct{})
	}

	return nil
}

// Unregister drops the connection and removes it from every room it joined.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for pollID := range r.joined[connID] {
		r.removeLocked(connID, pollID)
	}
	delete(r.joined, connID)
	delete(r.conns, connID)
}

// Join is idempotent.
func (r *Registry) Join(connID string, pollID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	polls, ok := r.joined[connID]
	if !ok {
		return ErrUnknownConn
	}

	room, ok := r.rooms[pollID]
	if !ok {
		room = make(map[string]struct{})
		r.rooms[pollID] = room
	}
	room[connID] = struct{}{}
	polls[pollID] = struct{}{}

	return nil
}

// Leave is idempotent; leaving a room never joined is a no-op.
func (r *Registry) Leave(connID string, pollID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(connID, pollID)
	if polls, ok := r.joined[connID]; ok {
		delete(polls, pollID)
	}
}

func (r *Registry) removeLocked(connID string, pollID int64) {
	room, ok := r.rooms[pollID]
	if !ok {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(r.rooms, pollID)
	}
}

// MembersOf returns a snapshot of the connections in a poll's room.
func (r *Registry) MembersOf(pollID int64) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[pollID]
	if len(room) == 0 {
		return nil
	}

	members := make([]Conn, 0, len(room))
	for id := range room {
		if c, ok := r.conns[id]; ok {
			members = append(members, c)
		}
	}

	return members
}

func (r *Registry) HasMembers(pollID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[pollID]) > 0
}

// RoomsOf lists the polls a connection has joined.
func (r *Registry) RoomsOf(connID string) []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, 0, len(r.joined[connID]))
	for pollID := range r.joined[connID] {
		out = append(out, pollID)
	}

	return out
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Stats{Connections: len(r.conns), Rooms: len(r.rooms)}
}

// CloseAll closes every live connection and refuses new ones. Transports
// unregister themselves as their connections wind down.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	r.closed = true
	conns := make([]Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}
