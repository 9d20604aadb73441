package main

import (
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Entity is what occupies a single cell of the hex grid.
type Entity uint8

const (
	Empty Entity = 0
	Mouse Entity = 1
	Wall  Entity = 2
)

// TurnResult is the outcome of a move or placement attempt. It is never a
// Go error: Bad and GameOver are both expected, well-formed results.
type TurnResult int

const (
	Good TurnResult = iota
	Bad
	GameOver
)

// offset is a (row, col) delta.
type offset struct{ dr, dc int }

// Neighbor offsets for odd-column-offset hex adjacency: each column parity
// shifts which diagonal pair of offsets points "up" vs "down".
var evenColNeighbors = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {-1, 1}}
var oddColNeighbors = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {1, -1}, {1, 1}}

// Grid is the board: a rectangular matrix of cells plus the mouse's
// current position, tracked separately so lookups don't require a scan.
type Grid struct {
	Width, Height int
	cells         [][]Entity
	mouseRow      int
	mouseCol      int
}

// NewGrid builds a fresh board: mouse at the center, initialWallCount walls
// scattered uniformly at random on empty cells other than the mouse's.
func NewGrid(width, height, initialWallCount int) *Grid {
	cells := make([][]Entity, height)
	for r := range cells {
		cells[r] = make([]Entity, width)
	}

	g := &Grid{
		Width:    width,
		Height:   height,
		cells:    cells,
		mouseRow: height / 2,
		mouseCol: width / 2,
	}
	g.cells[g.mouseRow][g.mouseCol] = Mouse

	placed := 0
	for placed < initialWallCount {
		r := rand.Intn(height)
		c := rand.Intn(width)
		if g.cells[r][c] == Empty {
			g.cells[r][c] = Wall
			placed++
		}
	}

	return g
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.Height && col >= 0 && col < g.Width
}

func neighborOffsets(col int) []offset {
	if col%2 == 0 {
		return evenColNeighbors
	}
	return oddColNeighbors
}

// neighbors returns the in-bounds (row, col) neighbors of a cell, in the
// fixed offset iteration order used to break AI ties.
func (g *Grid) neighbors(row, col int) [][2]int {
	offs := neighborOffsets(col)
	out := make([][2]int, 0, len(offs))
	for _, o := range offs {
		nr, nc := row+o.dr, col+o.dc
		if g.inBounds(nr, nc) {
			out = append(out, [2]int{nr, nc})
		}
	}
	return out
}

func (g *Grid) emptyNeighbors(row, col int) [][2]int {
	all := g.neighbors(row, col)
	out := make([][2]int, 0, len(all))
	for _, n := range all {
		if g.cells[n[0]][n[1]] == Empty {
			out = append(out, n)
		}
	}
	return out
}

func (g *Grid) isBorder(row, col int) bool {
	return row == 0 || row == g.Height-1 || col == 0 || col == g.Width-1
}

// Place sets (row, col) to entity if the cell is Empty. Bad if it is not,
// or if the coordinate falls outside the matrix.
func (g *Grid) Place(row, col int, entity Entity) TurnResult {
	if !g.inBounds(row, col) {
		return Bad
	}
	if g.cells[row][col] != Empty {
		return Bad
	}
	g.cells[row][col] = entity
	return Good
}

// PlaceRandom places entity on a uniformly random empty neighbor of the
// mouse. GameOver if the mouse has no empty neighbor.
func (g *Grid) PlaceRandom(entity Entity) TurnResult {
	candidates := g.emptyNeighbors(g.mouseRow, g.mouseCol)
	if len(candidates) == 0 {
		return GameOver
	}
	pick := candidates[rand.Intn(len(candidates))]
	g.cells[pick[0]][pick[1]] = entity
	return Good
}

// MoveMouse moves the mouse to (row, col) if it is an empty neighbor of
// its current cell. GameOver if the mouse has no empty neighbor at all,
// or if the move lands on a border cell; Bad if the target is illegal.
func (g *Grid) MoveMouse(row, col int) TurnResult {
	candidates := g.emptyNeighbors(g.mouseRow, g.mouseCol)
	if len(candidates) == 0 {
		return GameOver
	}

	found := false
	for _, c := range candidates {
		if c[0] == row && c[1] == col {
			found = true
			break
		}
	}
	if !found {
		return Bad
	}

	g.cells[g.mouseRow][g.mouseCol] = Empty
	g.cells[row][col] = Mouse
	g.mouseRow, g.mouseCol = row, col

	if g.isBorder(row, col) {
		return GameOver
	}
	return Good
}

const infiniteDistance = 1<<31 - 1

// borderDistanceField runs a BFS seeded at every empty border cell and
// returns the shortest distance to a border, through empty cells, for
// every reachable cell. Unreachable cells remain at infiniteDistance.
func (g *Grid) borderDistanceField() [][]int {
	dist := make([][]int, g.Height)
	for r := range dist {
		dist[r] = make([]int, g.Width)
		for c := range dist[r] {
			dist[r][c] = infiniteDistance
		}
	}

	type cell struct{ r, c int }
	queue := make([]cell, 0, g.Width*g.Height)

	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			if g.isBorder(r, c) && g.cells[r][c] == Empty {
				dist[r][c] = 0
				queue = append(queue, cell{r, c})
			}
		}
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, n := range g.emptyNeighbors(cur.r, cur.c) {
			if dist[n[0]][n[1]] == infiniteDistance {
				dist[n[0]][n[1]] = dist[cur.r][cur.c] + 1
				queue = append(queue, cell{n[0], n[1]})
			}
		}
	}

	return dist
}

// MoveMouseAI plays the AI's Mouse turn: move to the empty neighbor with
// the shortest BFS distance to the border, ties broken by neighbor offset
// order. GameOver if there is no empty neighbor, or the chosen move lands
// on the border.
func (g *Grid) MoveMouseAI() TurnResult {
	candidates := g.emptyNeighbors(g.mouseRow, g.mouseCol)
	if len(candidates) == 0 {
		return GameOver
	}

	dist := g.borderDistanceField()

	best := candidates[0]
	bestDist := dist[best[0]][best[1]]
	for _, c := range candidates[1:] {
		d := dist[c[0]][c[1]]
		if d < bestDist {
			best = c
			bestDist = d
		}
	}

	return g.MoveMouse(best[0], best[1])
}

// Serialize encodes the grid as:
//
//	u32 width_le || u32 height_le || u32 non_empty_count_le ||
//	repeated { u8 row, u8 col, u8 entity_code }
func (g *Grid) Serialize() []byte {
	type nonEmpty struct {
		row, col int
		entity   Entity
	}
	var entries []nonEmpty
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			if g.cells[r][c] != Empty {
				entries = append(entries, nonEmpty{r, c, g.cells[r][c]})
			}
		}
	}

	buf := make([]byte, 12+3*len(entries))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(g.Width))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(g.Height))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(entries)))

	off := 12
	for _, e := range entries {
		buf[off] = byte(e.row)
		buf[off+1] = byte(e.col)
		buf[off+2] = byte(e.entity)
		off += 3
	}

	return buf
}

// DeserializedGrid is the result of decoding Grid.Serialize's byte form,
// used by tests to check the round trip and available to any future
// server-side consumer of a serialized grid.
type DeserializedGrid struct {
	Width, Height int
	Cells         map[[2]int]Entity
}

// DeserializeGrid parses the wire form produced by Grid.Serialize.
func DeserializeGrid(data []byte) (*DeserializedGrid, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("grid: short buffer (%d bytes)", len(data))
	}
	width := int(binary.LittleEndian.Uint32(data[0:4]))
	height := int(binary.LittleEndian.Uint32(data[4:8]))
	count := int(binary.LittleEndian.Uint32(data[8:12]))

	want := 12 + 3*count
	if len(data) != want {
		return nil, fmt.Errorf("grid: expected %d bytes for %d entries, got %d", want, count, len(data))
	}

	cells := make(map[[2]int]Entity, count)
	off := 12
	for i := 0; i < count; i++ {
		row := int(data[off])
		col := int(data[off+1])
		entity := Entity(data[off+2])
		cells[[2]int{row, col}] = entity
		off += 3
	}

	return &DeserializedGrid{Width: width, Height: height, Cells: cells}, nil
}
