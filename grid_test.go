package main

import "testing"

func countEntity(g *Grid, e Entity) int {
	n := 0
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			if g.cells[r][c] == e {
				n++
			}
		}
	}
	return n
}

func TestNewGrid_MouseAtCenterAndFiveWalls(t *testing.T) {
	g := NewGrid(boardWidth, boardHeight, initialWalls)

	if g.cells[boardHeight/2][boardWidth/2] != Mouse {
		t.Fatalf("expected mouse at center (%d,%d)", boardHeight/2, boardWidth/2)
	}
	if g.mouseRow != boardHeight/2 || g.mouseCol != boardWidth/2 {
		t.Fatalf("tracked mouse position mismatch: got (%d,%d)", g.mouseRow, g.mouseCol)
	}
	if got := countEntity(g, Mouse); got != 1 {
		t.Errorf("expected exactly one mouse cell, got %d", got)
	}
	if got := countEntity(g, Wall); got != initialWalls {
		t.Errorf("expected %d walls, got %d", initialWalls, got)
	}
}

func TestPlace_GoodOnEmptyBadOnOccupied(t *testing.T) {
	g := NewGrid(5, 5, 0)

	if res := g.Place(0, 0, Wall); res != Good {
		t.Fatalf("expected Good placing on empty cell, got %v", res)
	}
	if g.cells[0][0] != Wall {
		t.Fatalf("cell not updated after Good placement")
	}
	if res := g.Place(0, 0, Wall); res != Bad {
		t.Fatalf("expected Bad placing on occupied cell, got %v", res)
	}
	// Mouse cell is non-empty too.
	if res := g.Place(2, 2, Wall); res != Bad {
		t.Fatalf("expected Bad placing on mouse cell, got %v", res)
	}
}

func TestPlace_OutOfBoundsIsBad(t *testing.T) {
	g := NewGrid(5, 5, 0)
	if res := g.Place(-1, 0, Wall); res != Bad {
		t.Fatalf("expected Bad for negative row, got %v", res)
	}
	if res := g.Place(0, 5, Wall); res != Bad {
		t.Fatalf("expected Bad for out-of-range col, got %v", res)
	}
}

func TestPlaceRandom_GameOverWhenMouseSurrounded(t *testing.T) {
	g := NewGrid(5, 5, 0)
	for _, n := range g.neighbors(g.mouseRow, g.mouseCol) {
		g.cells[n[0]][n[1]] = Wall
	}

	before := countEntity(g, Wall)
	res := g.PlaceRandom(Wall)
	if res != GameOver {
		t.Fatalf("expected GameOver when mouse has no empty neighbor, got %v", res)
	}
	if after := countEntity(g, Wall); after != before {
		t.Errorf("PlaceRandom mutated the board on GameOver: before=%d after=%d", before, after)
	}
}

func TestMoveMouse_GoodUpdatesPositionAndVacatesOldCell(t *testing.T) {
	g := NewGrid(11, 11, 0)
	oldRow, oldCol := g.mouseRow, g.mouseCol
	target := g.emptyNeighbors(oldRow, oldCol)[0]

	res := g.MoveMouse(target[0], target[1])
	if res != Good {
		t.Fatalf("expected Good, got %v", res)
	}
	if g.cells[oldRow][oldCol] != Empty {
		t.Errorf("old mouse cell not vacated")
	}
	if g.cells[target[0]][target[1]] != Mouse {
		t.Errorf("new cell does not hold mouse")
	}
	if g.mouseRow != target[0] || g.mouseCol != target[1] {
		t.Errorf("tracked mouse position not updated")
	}
}

func TestMoveMouse_BadOnNonNeighbor(t *testing.T) {
	g := NewGrid(11, 11, 0)
	res := g.MoveMouse(0, 0)
	if res != Bad {
		t.Fatalf("expected Bad moving to a non-neighbor cell, got %v", res)
	}
}

func TestMoveMouse_GameOverOnBorder(t *testing.T) {
	g := NewGrid(11, 11, 0)
	// Put the mouse one step from the border, at (1, mouseCol).
	g.cells[g.mouseRow][g.mouseCol] = Empty
	g.mouseRow, g.mouseCol = 1, g.Width/2
	g.cells[1][g.Width/2] = Mouse

	res := g.MoveMouse(0, g.Width/2)
	if res != GameOver {
		t.Fatalf("expected GameOver stepping onto the border, got %v", res)
	}
	if g.mouseRow != 0 {
		t.Errorf("mouse did not move to the border cell")
	}
}

func TestMoveMouse_GameOverWhenNoEmptyNeighbor(t *testing.T) {
	g := NewGrid(5, 5, 0)
	for _, n := range g.neighbors(g.mouseRow, g.mouseCol) {
		g.cells[n[0]][n[1]] = Wall
	}
	res := g.MoveMouse(g.mouseRow-1, g.mouseCol)
	if res != GameOver {
		t.Fatalf("expected GameOver when mouse is fully boxed in, got %v", res)
	}
}

func TestMoveMouseAI_MovesToOnlyOpenNeighbor(t *testing.T) {
	g := NewGrid(11, 11, 0)
	// Wall off every neighbor except one, which must be the AI's pick.
	nbrs := g.neighbors(g.mouseRow, g.mouseCol)
	keep := nbrs[0]
	for _, n := range nbrs[1:] {
		g.cells[n[0]][n[1]] = Wall
	}

	res := g.MoveMouseAI()
	if res == Bad {
		t.Fatalf("MoveMouseAI should never return Bad")
	}
	if g.mouseRow != keep[0] || g.mouseCol != keep[1] {
		t.Fatalf("expected AI to move to the only open neighbor (%d,%d), got (%d,%d)",
			keep[0], keep[1], g.mouseRow, g.mouseCol)
	}
}

func TestMoveMouseAI_GameOverWhenBoxedIn(t *testing.T) {
	g := NewGrid(5, 5, 0)
	for _, n := range g.neighbors(g.mouseRow, g.mouseCol) {
		g.cells[n[0]][n[1]] = Wall
	}
	if res := g.MoveMouseAI(); res != GameOver {
		t.Fatalf("expected GameOver, got %v", res)
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	g := NewGrid(boardWidth, boardHeight, initialWalls)

	data := g.Serialize()
	decoded, err := DeserializeGrid(data)
	if err != nil {
		t.Fatalf("DeserializeGrid failed: %v", err)
	}
	if decoded.Width != g.Width || decoded.Height != g.Height {
		t.Fatalf("dimension mismatch: got %dx%d want %dx%d", decoded.Width, decoded.Height, g.Width, g.Height)
	}

	want := make(map[[2]int]Entity)
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			if g.cells[r][c] != Empty {
				want[[2]int{r, c}] = g.cells[r][c]
			}
		}
	}

	if len(decoded.Cells) != len(want) {
		t.Fatalf("non-empty cell count mismatch: got %d want %d", len(decoded.Cells), len(want))
	}
	for pos, entity := range want {
		got, ok := decoded.Cells[pos]
		if !ok || got != entity {
			t.Errorf("cell %v: got (%v,%v) want %v", pos, got, ok, entity)
		}
	}
}

// mouseDistance is the mouse's own distance to escape: 0 on a border cell,
// else one more than its nearest empty neighbor in the BFS field. The field
// itself never covers the mouse cell, since the BFS only enters empty cells.
func mouseDistance(g *Grid) int {
	if g.isBorder(g.mouseRow, g.mouseCol) {
		return 0
	}
	dist := g.borderDistanceField()
	best := infiniteDistance
	for _, n := range g.emptyNeighbors(g.mouseRow, g.mouseCol) {
		if d := dist[n[0]][n[1]]; d != infiniteDistance && d+1 < best {
			best = d + 1
		}
	}
	return best
}

func TestBorderDistanceField_MonotoneTowardsEscape(t *testing.T) {
	g := NewGrid(11, 11, 0)

	prev := mouseDistance(g)
	for {
		res := g.MoveMouseAI()
		cur := mouseDistance(g)
		if cur > prev {
			t.Fatalf("distance field increased across a move: prev=%d cur=%d", prev, cur)
		}
		prev = cur
		if res == GameOver {
			break
		}
	}
}
