package main

import "github.com/google/uuid"

// Role is which side of the asymmetry a participant plays.
type Role uint8

const (
	RoleMouse Role = 0
	RoleWall  Role = 1
)

// Participant is one (user, role) pair in a room.
type Participant struct {
	UserID uuid.UUID
	Role   Role
}

// Room is one game instance: its participants and the grid they share.
// There is no separate state machine beyond the grid — "game over" is
// derived directly from the result of a turn.
type Room struct {
	ID              uuid.UUID
	MaxParticipants int
	Participants    []Participant
	Grid            *Grid
}

// NewRoom builds a fresh room with a new board.
func NewRoom(id uuid.UUID, maxParticipants int) *Room {
	return &Room{
		ID:              id,
		MaxParticipants: maxParticipants,
		Grid:            NewGrid(boardWidth, boardHeight, initialWalls),
	}
}

// RoleAvailable reports whether role can still be claimed. Only a
// 2-participant room with exactly one participant already holding role
// makes it unavailable; every other state (empty room, different role
// taken, solo room) is available.
func (r *Room) RoleAvailable(role Role) bool {
	if r.MaxParticipants == 2 && len(r.Participants) == 1 && r.Participants[0].Role == role {
		return false
	}
	return true
}

// AddParticipant appends a (user, role) pair. Callers must have checked
// RoleAvailable first.
func (r *Room) AddParticipant(userID uuid.UUID, role Role) {
	r.Participants = append(r.Participants, Participant{UserID: userID, Role: role})
}

// Opponent returns the other participant's id in a 2-participant room.
func (r *Room) Opponent(userID uuid.UUID) (uuid.UUID, bool) {
	if len(r.Participants) != 2 {
		return uuid.Nil, false
	}
	for _, p := range r.Participants {
		if p.UserID != userID {
			return p.UserID, true
		}
	}
	return uuid.Nil, false
}

func (r *Room) participant(userID uuid.UUID) (Participant, bool) {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participant{}, false
}

// AITurn plays the server-controlled side of a solo room: if the human
// is Mouse, the AI is Wall and places a random wall; if the human is
// Wall, the AI is Mouse and plays the BFS escape move. Only valid in a
// 1-participant room.
func (r *Room) AITurn() TurnResult {
	if len(r.Participants) != 1 {
		return Bad
	}
	human := r.Participants[0]
	if human.Role == RoleMouse {
		return r.Grid.PlaceRandom(Wall)
	}
	return r.Grid.MoveMouseAI()
}

// ProcessTurn dispatches a move by the acting user's role. Bad if the
// user is not a participant of this room.
func (r *Room) ProcessTurn(userID uuid.UUID, row, col int) TurnResult {
	p, ok := r.participant(userID)
	if !ok {
		return Bad
	}
	switch p.Role {
	case RoleMouse:
		return r.Grid.MoveMouse(row, col)
	default:
		return r.Grid.Place(row, col, Wall)
	}
}
