package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/google/uuid"
)

// Opcode values identify each request/response frame kind on the wire.
const (
	OpRequestRooms byte = 0
	OpStartRoomBot byte = 1
	OpJoinRoom     byte = 2
	OpJoinSuccess  byte = 3
	OpJoinFail     byte = 4
	OpRequestTiles byte = 5
	OpStartGame    byte = 6
	OpTurn         byte = 7
	OpWaitTurn     byte = 8
	OpYourTurn     byte = 9
	OpGameOver     byte = 10
)

// ErrUnknownOpcode names the error for a byte outside the opcode table above
// read as a command. No function here returns it: ReadOpcode hands back any
// byte, and HandleConnection logs an unknown one and closes the connection.
var ErrUnknownOpcode = fmt.Errorf("protocol: unknown opcode")

// Codec reads and writes frames on one connection's byte stream: a single
// opcode byte on the request path, then fixed-width little-endian
// integers and length-prefixed byte strings for the payload. Writes
// mirror reads byte for byte.
type Codec struct {
	r *bufio.Reader
	w *bufio.Writer
}

// NewCodec wraps a connection for buffered framed I/O.
func NewCodec(conn net.Conn) *Codec {
	return &Codec{r: bufio.NewReader(conn), w: bufio.NewWriter(conn)}
}

// ReadOpcode reads the single opcode byte that starts every request frame.
func (c *Codec) ReadOpcode() (byte, error) {
	return c.r.ReadByte()
}

func (c *Codec) readUint32() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(c.r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (c *Codec) readUint8() (byte, error) {
	return c.r.ReadByte()
}

func (c *Codec) readUUID() (uuid.UUID, error) {
	var buf [16]byte
	if _, err := io.ReadFull(c.r, buf[:]); err != nil {
		return uuid.Nil, err
	}
	return uuid.UUID(buf), nil
}

// readLengthPrefixed reads a u32 length_le followed by exactly that many
// bytes.
func (c *Codec) readLengthPrefixed() ([]byte, error) {
	n, err := c.readUint32()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (c *Codec) writeUint32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := c.w.Write(buf[:])
	return err
}

func (c *Codec) writeUint8(v byte) error {
	return c.w.WriteByte(v)
}

func (c *Codec) writeUUID(id uuid.UUID) error {
	_, err := c.w.Write(id[:])
	return err
}

func (c *Codec) writeLengthPrefixed(b []byte) error {
	if err := c.writeUint32(uint32(len(b))); err != nil {
		return err
	}
	_, err := c.w.Write(b)
	return err
}

// StartRoomBotRequest is the decoded payload of a START_ROOM_BOT frame.
type StartRoomBotRequest struct {
	Role byte
	Name string
}

// ReadStartRoomBot decodes: u8 role; u32 name_len; name_len UTF-8 bytes.
func (c *Codec) ReadStartRoomBot() (*StartRoomBotRequest, error) {
	role, err := c.readUint8()
	if err != nil {
		return nil, err
	}
	nameBytes, err := c.readLengthPrefixed()
	if err != nil {
		return nil, err
	}
	return &StartRoomBotRequest{Role: role, Name: string(nameBytes)}, nil
}

// JoinRoomRequest is the decoded payload of a JOIN_ROOM frame.
type JoinRoomRequest struct {
	RoomID uuid.UUID
	Role   byte
	Name   string
}

// ReadJoinRoom decodes: 16-byte room_id; u8 role; u32 name_len; name bytes.
func (c *Codec) ReadJoinRoom() (*JoinRoomRequest, error) {
	roomID, err := c.readUUID()
	if err != nil {
		return nil, err
	}
	role, err := c.readUint8()
	if err != nil {
		return nil, err
	}
	nameBytes, err := c.readLengthPrefixed()
	if err != nil {
		return nil, err
	}
	return &JoinRoomRequest{RoomID: roomID, Role: role, Name: string(nameBytes)}, nil
}

// ReadRequestTiles decodes: 16-byte room_id.
func (c *Codec) ReadRequestTiles() (uuid.UUID, error) {
	return c.readUUID()
}

// TurnRequest is the decoded payload of a TURN frame.
type TurnRequest struct {
	Row uint32
	Col uint32
}

// ReadTurn decodes: u32 row_le; u32 col_le.
func (c *Codec) ReadTurn() (*TurnRequest, error) {
	row, err := c.readUint32()
	if err != nil {
		return nil, err
	}
	col, err := c.readUint32()
	if err != nil {
		return nil, err
	}
	return &TurnRequest{Row: row, Col: col}, nil
}

// WriteJoinSuccess writes JOIN_SUCCESS followed by the 16-byte room id.
// Used only after START_ROOM_BOT, where the client doesn't yet know the
// room id it was assigned.
func (c *Codec) WriteJoinSuccess(roomID uuid.UUID) error {
	if err := c.writeUint8(OpJoinSuccess); err != nil {
		return err
	}
	if err := c.writeUUID(roomID); err != nil {
		return err
	}
	return c.w.Flush()
}

// WriteJoinSuccessBare writes JOIN_SUCCESS with no following room id, for
// the JOIN_ROOM path where the client already knows the room id.
func (c *Codec) WriteJoinSuccessBare() error {
	if err := c.writeUint8(OpJoinSuccess); err != nil {
		return err
	}
	return c.w.Flush()
}

// WriteJoinFail writes JOIN_FAIL.
func (c *Codec) WriteJoinFail() error {
	if err := c.writeUint8(OpJoinFail); err != nil {
		return err
	}
	return c.w.Flush()
}

// WriteStartGame writes START_GAME followed by the opponent's
// length-prefixed display name.
func (c *Codec) WriteStartGame(opponentName string) error {
	if err := c.writeUint8(OpStartGame); err != nil {
		return err
	}
	if err := c.writeLengthPrefixed([]byte(opponentName)); err != nil {
		return err
	}
	return c.w.Flush()
}

// WriteYourTurn writes YOUR_TURN.
func (c *Codec) WriteYourTurn() error {
	if err := c.writeUint8(OpYourTurn); err != nil {
		return err
	}
	return c.w.Flush()
}

// WriteWaitTurn writes WAIT_TURN.
func (c *Codec) WriteWaitTurn() error {
	if err := c.writeUint8(OpWaitTurn); err != nil {
		return err
	}
	return c.w.Flush()
}

// WriteGameOver writes GAME_OVER followed by the final serialized grid.
func (c *Codec) WriteGameOver(grid []byte) error {
	if err := c.writeUint8(OpGameOver); err != nil {
		return err
	}
	if _, err := c.w.Write(grid); err != nil {
		return err
	}
	return c.w.Flush()
}

// WriteRoomsReply writes the REQUEST_ROOMS reply: u32 count followed by
// count entries of {16-byte room_id, u8 participant_count}. This reply
// carries no opcode prefix.
func (c *Codec) WriteRoomsReply(rooms []RoomSummary) error {
	if err := c.writeUint32(uint32(len(rooms))); err != nil {
		return err
	}
	for _, r := range rooms {
		if err := c.writeUUID(r.ID); err != nil {
			return err
		}
		if err := c.writeUint8(byte(r.ParticipantCount)); err != nil {
			return err
		}
	}
	return c.w.Flush()
}

// WriteTilesReply writes the REQUEST_TILES reply: the serialized grid
// with no opcode prefix.
func (c *Codec) WriteTilesReply(grid []byte) error {
	if _, err := c.w.Write(grid); err != nil {
		return err
	}
	return c.w.Flush()
}
