package battleship

import (
	"strconv"
	"strings"

	cerr "github.com/saeidalz13/gridstrike-backend/internal/error"
)

const GridSize int = 10

// No ship occupies the cell
const NoShip int = -1

const (
	SymbolHit   rune = 'X'
	SymbolMiss  rune = 'O'
	SymbolShip  rune = 'S'
	SymbolWater rune = '~'
)

type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(strings.ToLower(strings.TrimSpace(s))) {
	case OrientationHorizontal:
		return OrientationHorizontal, nil
	case OrientationVertical:
		return OrientationVertical, nil
	default:
		return "", cerr.ErrOrientation(s)
	}
}

// Step from one ship cell to the next along the axis.
func (o Orientation) step() (int, int) {
	if o == OrientationVertical {
		return 1, 0
	}
	return 0, 1
}

type Coordinates struct {
	Row int `json:"row" msgpack:"row"`
	Col int `json:"col" msgpack:"col"`
}

func NewCoordinates(row, col int) Coordinates {
	return Coordinates{Row: row, Col: col}
}

type Cell struct {
	// Index into Grid.Ships or NoShip
	ShipIndex int  `json:"ship_index" msgpack:"ship_index"`
	Attacked  bool `json:"attacked" msgpack:"attacked"`
}

func (c Cell) HasShip() bool {
	return c.ShipIndex != NoShip
}

type AttackResult struct {
	Hit             bool   `json:"hit"`
	AlreadyAttacked bool   `json:"already_attacked"`
	Sunk            bool   `json:"sunk"`
	ShipName        string `json:"ship_name"`
}

type Grid struct {
	Size  int      `json:"size" msgpack:"size"`
	Cells [][]Cell `json:"cells" msgpack:"cells"`
	Ships []*Ship  `json:"ships" msgpack:"ships"`
}

// Creates a new default grid; every cell is
// empty water that has not been attacked.
func NewGrid(gridSize int) *Grid {
	cells := make([][]Cell, gridSize)
	for i := 0; i < gridSize; i++ {
		cells[i] = make([]Cell, gridSize)
		for j := range cells[i] {
			cells[i][j].ShipIndex = NoShip
		}
	}

	return &Grid{
		Size:  gridSize,
		Cells: cells,
		Ships: make([]*Ship, 0, FleetSize),
	}
}

func (g *Grid) IsValid(c Coordinates) bool {
	return c.Row >= 0 && c.Row < g.Size && c.Col >= 0 && c.Col < g.Size
}

// Returns the cell at c and whether c is within bounds.
func (g *Grid) Cell(c Coordinates) (Cell, bool) {
	if !g.IsValid(c) {
		return Cell{}, false
	}
	return g.Cells[c.Row][c.Col], true
}

// Computes every coordinate a ship of length would occupy
// from start. Nothing is validated here.
func shipCoordinates(start Coordinates, length int, orientation Orientation) []Coordinates {
	dRow, dCol := orientation.step()
	coords := make([]Coordinates, length)
	for i := 0; i < length; i++ {
		coords[i] = NewCoordinates(start.Row+i*dRow, start.Col+i*dCol)
	}
	return coords
}

// Places a new ship of kind on the grid. All the cells are
// validated before the grid is touched, so a failed placement
// leaves the grid exactly as it was.
func (g *Grid) Place(kind ShipKind, start Coordinates, orientation Orientation) (*Ship, error) {
	if orientation != OrientationHorizontal && orientation != OrientationVertical {
		return nil, cerr.ErrOrientation(string(orientation))
	}

	ship, err := NewShip(kind)
	if err != nil {
		return nil, err
	}

	coords := shipCoordinates(start, ship.Length, orientation)
	for _, c := range coords {
		if !g.IsValid(c) {
			return nil, cerr.ErrXorYOutOfGridBound(c.Row, c.Col)
		}
	}
	for _, c := range coords {
		if g.Cells[c.Row][c.Col].HasShip() {
			return nil, cerr.ErrPositionOccupied(c.Row, c.Col)
		}
	}

	idx := len(g.Ships)
	for _, c := range coords {
		g.Cells[c.Row][c.Col].ShipIndex = idx
	}
	g.Ships = append(g.Ships, ship)

	return ship, nil
}

// Resolves an attack on c. A repeated attack is reported through
// AlreadyAttacked and changes nothing.
func (g *Grid) Attack(c Coordinates) (AttackResult, error) {
	if !g.IsValid(c) {
		return AttackResult{}, cerr.ErrXorYOutOfGridBound(c.Row, c.Col)
	}

	cell := &g.Cells[c.Row][c.Col]
	if cell.Attacked {
		return AttackResult{AlreadyAttacked: true}, nil
	}
	cell.Attacked = true

	if !cell.HasShip() {
		return AttackResult{Hit: false}, nil
	}

	ship := g.Ships[cell.ShipIndex]
	ship.GotHit()

	return AttackResult{
		Hit:      true,
		Sunk:     ship.IsSunk(),
		ShipName: ship.Kind.DisplayName(),
	}, nil
}

// False for a grid that never had a ship placed on it.
func (g *Grid) AllSunk() bool {
	if len(g.Ships) == 0 {
		return false
	}

	for _, ship := range g.Ships {
		if !ship.IsSunk() {
			return false
		}
	}
	return true
}

func (g *Grid) HasKind(kind ShipKind) bool {
	for _, ship := range g.Ships {
		if ship.Kind == kind {
			return true
		}
	}
	return false
}

func (g *Grid) IsFleetComplete() bool {
	if len(g.Ships) != FleetSize {
		return false
	}
	for _, kind := range shipKinds {
		if !g.HasKind(kind) {
			return false
		}
	}
	return true
}

func (g *Grid) SunkenShips() int {
	sunk := 0
	for _, ship := range g.Ships {
		if ship.IsSunk() {
			sunk++
		}
	}
	return sunk
}

func symbolOf(c Cell, revealShips bool) rune {
	switch {
	case c.Attacked && c.HasShip():
		return SymbolHit
	case c.Attacked:
		return SymbolMiss
	case revealShips && c.HasShip():
		return SymbolShip
	default:
		return SymbolWater
	}
}

// Renders the grid as symbols. Ships are only shown when
// revealShips is set, hits and misses are always shown.
func (g *Grid) Render(revealShips bool) [][]rune {
	symbols := make([][]rune, g.Size)
	for row := range g.Cells {
		symbols[row] = make([]rune, g.Size)
		for col, cell := range g.Cells[row] {
			symbols[row][col] = symbolOf(cell, revealShips)
		}
	}
	return symbols
}

// Text board with column numbers on top and row numbers on the left.
func (g *Grid) Display(revealShips bool) string {
	var sb strings.Builder

	sb.WriteString("  ")
	for col := 0; col < g.Size; col++ {
		sb.WriteString(strconv.Itoa(col))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')

	for row, symbols := range g.Render(revealShips) {
		sb.WriteString(strconv.Itoa(row))
		sb.WriteByte(' ')
		for _, symbol := range symbols {
			sb.WriteRune(symbol)
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (g *Grid) clone() *Grid {
	cells := make([][]Cell, len(g.Cells))
	for i := range g.Cells {
		cells[i] = make([]Cell, len(g.Cells[i]))
		copy(cells[i], g.Cells[i])
	}

	ships := make([]*Ship, len(g.Ships), cap(g.Ships))
	for i, ship := range g.Ships {
		shipCopy := *ship
		ships[i] = &shipCopy
	}

	return &Grid{Size: g.Size, Cells: cells, Ships: ships}
}
