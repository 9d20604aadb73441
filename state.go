package main

import (
	"sync"

	"github.com/google/uuid"
)

// User is a connected client: its id, display name, outbound stream
// handle, and the room it currently participates in (uuid.Nil if none).
type User struct {
	ID     uuid.UUID
	Name   string
	Codec  *Codec
	RoomID uuid.UUID
}

// RoomSummary is what REQUEST_ROOMS reports about a joinable room.
type RoomSummary struct {
	ID                  uuid.UUID
	ParticipantCount    int
	MaxParticipantCount int
}

// ServerState is the single shared registry of connected users and active
// rooms. Every read and write to either map — including pushing a
// notification to another user's stream — happens while holding mu: one
// exclusive lock guards both maps.
type ServerState struct {
	mu    sync.Mutex
	users map[uuid.UUID]*User
	rooms map[uuid.UUID]*Room
}

// NewServerState builds an empty registry.
func NewServerState() *ServerState {
	return &ServerState{
		users: make(map[uuid.UUID]*User),
		rooms: make(map[uuid.UUID]*Room),
	}
}

// Lock and Unlock expose the single mutex directly so a connection
// handler can hold it across a whole command's mutation plus any peer
// notification writes — the critical section is the command, not a
// single map access. Callers must defer Unlock immediately after Lock so
// the lock releases on every exit path, including early returns.
func (s *ServerState) Lock()   { s.mu.Lock() }
func (s *ServerState) Unlock() { s.mu.Unlock() }

// AddUser registers a newly accepted connection's codec and returns its
// fresh user id. Must be called with the lock held.
func (s *ServerState) AddUser(codec *Codec) *User {
	u := &User{ID: uuid.New(), Codec: codec}
	s.users[u.ID] = u
	return u
}

// RemoveUser deletes a user entry. Must be called with the lock held.
func (s *ServerState) RemoveUser(id uuid.UUID) {
	delete(s.users, id)
}

// User looks up a user by id. Must be called with the lock held.
func (s *ServerState) User(id uuid.UUID) (*User, bool) {
	u, ok := s.users[id]
	return u, ok
}

// AddRoom creates a fresh empty room with the given participant cap and
// registers it. Must be called with the lock held.
func (s *ServerState) AddRoom(maxParticipants int) *Room {
	r := NewRoom(uuid.New(), maxParticipants)
	s.rooms[r.ID] = r
	return r
}

// Room looks up a room by id. Must be called with the lock held.
func (s *ServerState) Room(id uuid.UUID) (*Room, bool) {
	r, ok := s.rooms[id]
	return r, ok
}

// RemoveRoom deletes a room entry. Must be called with the lock held.
func (s *ServerState) RemoveRoom(id uuid.UUID) {
	delete(s.rooms, id)
}

// AvailableRooms lists every room with spare capacity, for REQUEST_ROOMS.
// Must be called with the lock held.
func (s *ServerState) AvailableRooms() []RoomSummary {
	var out []RoomSummary
	for id, r := range s.rooms {
		if len(r.Participants) < r.MaxParticipants {
			out = append(out, RoomSummary{
				ID:                  id,
				ParticipantCount:    len(r.Participants),
				MaxParticipantCount: r.MaxParticipants,
			})
		}
	}
	return out
}
