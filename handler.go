package main

import (
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ErrInvalidUsername marks a username that fails the 1–10 UTF-8 code
// point rule. Treated as fatal for the connection, same as an unknown
// opcode: the protocol has no dedicated error reply for it.
var ErrInvalidUsername = fmt.Errorf("handler: invalid username")

func validUsername(name string) bool {
	if !utf8.ValidString(name) {
		return false
	}
	n := utf8.RuneCountInString(name)
	return n >= 1 && n <= maxUsernameRunes
}

// HandleConnection runs one client's command loop until it disconnects or
// sends something fatal. userID must already be registered in state by
// the listener, which registers the user before spawning the handler.
func HandleConnection(state *ServerState, codec *Codec, userID uuid.UUID) {
	defer func() {
		state.Lock()
		handleDisconnect(state, userID)
		state.Unlock()
	}()

	for {
		opcode, err := codec.ReadOpcode()
		if err != nil {
			return
		}

		var handleErr error
		switch opcode {
		case OpRequestRooms:
			handleErr = handleRequestRooms(state, codec)
		case OpStartRoomBot:
			handleErr = handleStartRoomBot(state, codec, userID)
		case OpJoinRoom:
			handleErr = handleJoinRoom(state, codec, userID)
		case OpRequestTiles:
			handleErr = handleRequestTiles(state, codec, userID)
		case OpTurn:
			handleErr = handleTurn(state, codec, userID)
		default:
			log.Printf("handler: unknown opcode %d from %s, closing connection", opcode, userID)
			return
		}

		if handleErr != nil {
			return
		}
	}
}

func handleRequestRooms(state *ServerState, codec *Codec) error {
	state.Lock()
	defer state.Unlock()

	rooms := state.AvailableRooms()
	return codec.WriteRoomsReply(rooms)
}

func handleStartRoomBot(state *ServerState, codec *Codec, userID uuid.UUID) error {
	req, err := codec.ReadStartRoomBot()
	if err != nil {
		return err
	}
	if !validUsername(req.Name) {
		return ErrInvalidUsername
	}
	role := Role(req.Role)

	state.Lock()
	defer state.Unlock()

	user, ok := state.User(userID)
	if !ok {
		return fmt.Errorf("handler: unregistered user %s", userID)
	}
	user.Name = req.Name

	room := state.AddRoom(soloRoomCapacity)
	room.AddParticipant(userID, role)
	user.RoomID = room.ID

	if err := codec.WriteJoinSuccess(room.ID); err != nil {
		return err
	}
	if err := codec.WriteStartGame("BOT"); err != nil {
		return err
	}

	// Human-Wall moves first; the AI moves only in response. When the
	// human is Mouse, the AI is Wall and plays its opening placement
	// before the human's first turn.
	if role == RoleMouse {
		room.AITurn()
	}

	return codec.WriteYourTurn()
}

func handleJoinRoom(state *ServerState, codec *Codec, userID uuid.UUID) error {
	req, err := codec.ReadJoinRoom()
	if err != nil {
		return err
	}
	if !validUsername(req.Name) {
		return ErrInvalidUsername
	}
	role := Role(req.Role)

	state.Lock()
	defer state.Unlock()

	user, ok := state.User(userID)
	if !ok {
		return fmt.Errorf("handler: unregistered user %s", userID)
	}

	room, ok := state.Room(req.RoomID)
	if !ok || !room.RoleAvailable(role) {
		return codec.WriteJoinFail()
	}

	user.Name = req.Name
	room.AddParticipant(userID, role)
	user.RoomID = room.ID

	if err := codec.WriteJoinSuccessBare(); err != nil {
		return err
	}

	if len(room.Participants) != room.MaxParticipants {
		return nil
	}

	if err := startVersusMatch(state, room, userID); err != nil {
		return err
	}

	// Keep the lobby joinable: a fresh empty 2-participant room replaces
	// the one that just filled.
	state.AddRoom(versusRoomCapacity)
	return nil
}

// startVersusMatch sends the match-start frames to both participants: the
// Wall participant gets START_GAME + YOUR_TURN (the Wall player moves
// first), the Mouse participant gets START_GAME + WAIT_TURN.
func startVersusMatch(state *ServerState, room *Room, actingUserID uuid.UUID) error {
	var wallUser, mouseUser *User
	for _, p := range room.Participants {
		u, ok := state.User(p.UserID)
		if !ok {
			continue
		}
		if p.Role == RoleWall {
			wallUser = u
		} else {
			mouseUser = u
		}
	}
	if wallUser == nil || mouseUser == nil {
		return fmt.Errorf("handler: room %s missing a participant at match start", room.ID)
	}

	if err := writeToParticipant(wallUser, actingUserID, func(c *Codec) error {
		if err := c.WriteStartGame(mouseUser.Name); err != nil {
			return err
		}
		return c.WriteYourTurn()
	}); err != nil {
		return err
	}

	return writeToParticipant(mouseUser, actingUserID, func(c *Codec) error {
		if err := c.WriteStartGame(wallUser.Name); err != nil {
			return err
		}
		return c.WriteWaitTurn()
	})
}

// writeToParticipant runs fn against target's stream. A failure writing
// to the stream the caller itself owns is fatal (propagated); a failure
// pushing to any other participant's stream is logged and ignored, since
// one dead peer connection should never take down the caller's own turn.
func writeToParticipant(target *User, actingUserID uuid.UUID, fn func(*Codec) error) error {
	err := fn(target.Codec)
	if err == nil {
		return nil
	}
	if target.ID == actingUserID {
		return err
	}
	log.Printf("handler: push to peer %s failed: %v", target.ID, err)
	return nil
}

func handleRequestTiles(state *ServerState, codec *Codec, userID uuid.UUID) error {
	roomID, err := codec.ReadRequestTiles()
	if err != nil {
		return err
	}

	state.Lock()
	defer state.Unlock()

	user, ok := state.User(userID)
	if !ok {
		return fmt.Errorf("handler: unregistered user %s", userID)
	}

	room, ok := state.Room(roomID)
	if !ok || user.RoomID != room.ID {
		return fmt.Errorf("handler: request-tiles rejected for room %s", roomID)
	}

	return codec.WriteTilesReply(room.Grid.Serialize())
}

func handleTurn(state *ServerState, codec *Codec, userID uuid.UUID) error {
	req, err := codec.ReadTurn()
	if err != nil {
		return err
	}

	state.Lock()
	defer state.Unlock()

	user, ok := state.User(userID)
	if !ok {
		return fmt.Errorf("handler: unregistered user %s", userID)
	}
	if user.RoomID == uuid.Nil {
		return nil
	}

	room, ok := state.Room(user.RoomID)
	if !ok {
		return nil
	}

	result := room.ProcessTurn(userID, int(req.Row), int(req.Col))

	if room.MaxParticipants == soloRoomCapacity {
		return handleSoloTurn(state, codec, room, result)
	}
	return handleVersusTurn(state, user, room, result)
}

func handleSoloTurn(state *ServerState, codec *Codec, room *Room, result TurnResult) error {
	switch result {
	case Bad:
		return nil
	case Good:
		aiResult := room.AITurn()
		if aiResult != GameOver {
			return codec.WriteYourTurn()
		}
		grid := room.Grid.Serialize()
		err := codec.WriteGameOver(grid)
		state.RemoveRoom(room.ID)
		return err
	default: // GameOver
		grid := room.Grid.Serialize()
		err := codec.WriteGameOver(grid)
		state.RemoveRoom(room.ID)
		return err
	}
}

func handleVersusTurn(state *ServerState, actor *User, room *Room, result TurnResult) error {
	switch result {
	case Bad:
		return nil
	case Good:
		err := writeToParticipant(actor, actor.ID, func(c *Codec) error { return c.WriteWaitTurn() })
		if err != nil {
			return err
		}
		if opponentID, ok := room.Opponent(actor.ID); ok {
			if opponent, exists := state.User(opponentID); exists {
				_ = writeToParticipant(opponent, actor.ID, func(c *Codec) error { return c.WriteYourTurn() })
			}
		}
		return nil
	default: // GameOver
		grid := room.Grid.Serialize()
		err := writeToParticipant(actor, actor.ID, func(c *Codec) error { return c.WriteGameOver(grid) })
		if opponentID, ok := room.Opponent(actor.ID); ok {
			if opponent, exists := state.User(opponentID); exists {
				_ = writeToParticipant(opponent, actor.ID, func(c *Codec) error { return c.WriteGameOver(grid) })
			}
		}
		state.RemoveRoom(room.ID)
		return err
	}
}

// handleDisconnect tears down a departing user: if mid-game, synthesizes
// a GAME_OVER for the remaining participant (best-effort) and removes
// the room; if still waiting for an opponent, frees its seat and keeps the
// room; always removes the user. Must be called with the lock held.
func handleDisconnect(state *ServerState, userID uuid.UUID) {
	user, ok := state.User(userID)
	if !ok {
		return
	}

	if user.RoomID != uuid.Nil {
		if room, ok := state.Room(user.RoomID); ok {
			if len(room.Participants) < room.MaxParticipants {
				kept := room.Participants[:0]
				for _, p := range room.Participants {
					if p.UserID != userID {
						kept = append(kept, p)
					}
				}
				room.Participants = kept
				state.RemoveUser(userID)
				return
			}
			if opponentID, ok2 := room.Opponent(userID); ok2 {
				if opponent, exists := state.User(opponentID); exists {
					grid := room.Grid.Serialize()
					if err := opponent.Codec.WriteGameOver(grid); err != nil {
						log.Printf("handler: disconnect GAME_OVER push to %s failed: %v", opponentID, err)
					}
				}
			}
			state.RemoveRoom(room.ID)
		}
	}

	state.RemoveUser(userID)
}
