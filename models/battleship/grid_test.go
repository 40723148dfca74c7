package battleship_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/gridstrike-backend/internal/error"
	mb "github.com/saeidalz13/gridstrike-backend/models/battleship"
)

func TestShipCatalog(t *testing.T) {
	tests := []struct {
		kind   mb.ShipKind
		length int
	}{
		{mb.ShipKindCarrier, 5},
		{mb.ShipKindBattleship, 4},
		{mb.ShipKindCruiser, 3},
		{mb.ShipKindSubmarine, 3},
		{mb.ShipKindDestroyer, 2},
	}

	total := 0
	for _, test := range tests {
		t.Run(string(test.kind), func(t *testing.T) {
			length, err := mb.LengthOf(test.kind)
			require.NoError(t, err)
			require.Equal(t, test.length, length)
		})
		total += test.length
	}
	require.Equal(t, mb.FleetCells, total)
	require.Len(t, mb.ShipKinds(), mb.FleetSize)

	_, err := mb.LengthOf("rowboat")
	require.ErrorIs(t, err, cerr.ErrUnknownShipKind)
}

func TestParseShipKind(t *testing.T) {
	kind, err := mb.ParseShipKind(" Carrier ")
	require.NoError(t, err)
	require.Equal(t, mb.ShipKindCarrier, kind)
	require.Equal(t, "Carrier", kind.DisplayName())

	_, err = mb.ParseShipKind("frigate")
	require.ErrorIs(t, err, cerr.ErrUnknownShipKind)
}

func TestParseOrientation(t *testing.T) {
	o, err := mb.ParseOrientation("VERTICAL")
	require.NoError(t, err)
	require.Equal(t, mb.OrientationVertical, o)

	_, err = mb.ParseOrientation("diagonal")
	require.ErrorIs(t, err, cerr.ErrInvalidOrientation)
}

func TestShipHits(t *testing.T) {
	ship, err := mb.NewShip(mb.ShipKindDestroyer)
	require.NoError(t, err)
	require.Equal(t, mb.ShipStatusAfloat, ship.Status())

	ship.GotHit()
	require.False(t, ship.IsSunk())
	ship.GotHit()
	require.True(t, ship.IsSunk())
	require.Equal(t, mb.ShipStatusSunk, ship.Status())

	// hit count never goes past the length
	ship.GotHit()
	require.Equal(t, 2, ship.HitCount)
	require.True(t, ship.IsSunk())
}

func TestPlaceDestroyerAndSinkIt(t *testing.T) {
	grid := mb.NewGrid(mb.GridSize)

	_, err := grid.Place(mb.ShipKindDestroyer, mb.NewCoordinates(0, 0), mb.OrientationHorizontal)
	require.NoError(t, err)

	for _, c := range []mb.Coordinates{{Row: 0, Col: 0}, {Row: 0, Col: 1}} {
		cell, ok := grid.Cell(c)
		require.True(t, ok)
		require.True(t, cell.HasShip())
	}
	cell, _ := grid.Cell(mb.NewCoordinates(0, 2))
	require.False(t, cell.HasShip())

	first, err := grid.Attack(mb.NewCoordinates(0, 0))
	require.NoError(t, err)
	require.True(t, first.Hit)
	require.False(t, first.Sunk)
	require.Equal(t, "Destroyer", first.ShipName)

	second, err := grid.Attack(mb.NewCoordinates(0, 1))
	require.NoError(t, err)
	require.True(t, second.Hit)
	require.True(t, second.Sunk)
	require.True(t, grid.AllSunk())
}

func TestPlaceOutOfBounds(t *testing.T) {
	tests := []struct {
		name        string
		kind        mb.ShipKind
		start       mb.Coordinates
		orientation mb.Orientation
	}{
		{"destroyer past right edge", mb.ShipKindDestroyer, mb.NewCoordinates(0, 9), mb.OrientationHorizontal},
		{"carrier past bottom edge", mb.ShipKindCarrier, mb.NewCoordinates(6, 0), mb.OrientationVertical},
		{"negative row", mb.ShipKindCruiser, mb.NewCoordinates(-1, 3), mb.OrientationHorizontal},
		{"start outside grid", mb.ShipKindCruiser, mb.NewCoordinates(10, 10), mb.OrientationVertical},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			grid := mb.NewGrid(mb.GridSize)
			before := grid.Render(true)

			_, err := grid.Place(test.kind, test.start, test.orientation)
			require.ErrorIs(t, err, cerr.ErrOutOfBounds)
			require.Equal(t, before, grid.Render(true))
			require.Empty(t, grid.Ships)
		})
	}
}

func TestPlaceOverlapLeavesGridUnchanged(t *testing.T) {
	grid := mb.NewGrid(mb.GridSize)
	_, err := grid.Place(mb.ShipKindCruiser, mb.NewCoordinates(2, 2), mb.OrientationHorizontal)
	require.NoError(t, err)

	before := grid.Render(true)
	shipsBefore := len(grid.Ships)

	// (1,2) (2,2) (3,2) crosses the cruiser at (2,2)
	_, err = grid.Place(mb.ShipKindSubmarine, mb.NewCoordinates(1, 2), mb.OrientationVertical)
	require.ErrorIs(t, err, cerr.ErrOverlap)
	require.Equal(t, before, grid.Render(true))
	require.Len(t, grid.Ships, shipsBefore)

	for row := 0; row < mb.GridSize; row++ {
		for col := 0; col < mb.GridSize; col++ {
			cell, _ := grid.Cell(mb.NewCoordinates(row, col))
			if row == 2 && col >= 2 && col <= 4 {
				require.Equal(t, 0, cell.ShipIndex)
				continue
			}
			require.False(t, cell.HasShip(), "row %d col %d", row, col)
		}
	}

	// (2,1) (3,1) (4,1) runs alongside the cruiser without touching it
	_, err = grid.Place(mb.ShipKindSubmarine, mb.NewCoordinates(2, 1), mb.OrientationVertical)
	require.NoError(t, err)
}

func TestNoTwoShipsShareACell(t *testing.T) {
	grid := mb.NewGrid(mb.GridSize)
	attempts := []struct {
		kind        mb.ShipKind
		start       mb.Coordinates
		orientation mb.Orientation
	}{
		{mb.ShipKindCarrier, mb.NewCoordinates(0, 0), mb.OrientationVertical},
		{mb.ShipKindBattleship, mb.NewCoordinates(2, 0), mb.OrientationHorizontal},
		{mb.ShipKindBattleship, mb.NewCoordinates(0, 1), mb.OrientationHorizontal},
		{mb.ShipKindCruiser, mb.NewCoordinates(0, 2), mb.OrientationVertical},
		{mb.ShipKindSubmarine, mb.NewCoordinates(1, 1), mb.OrientationHorizontal},
		{mb.ShipKindDestroyer, mb.NewCoordinates(9, 8), mb.OrientationHorizontal},
	}

	occupied := 0
	for _, a := range attempts {
		if ship, err := grid.Place(a.kind, a.start, a.orientation); err == nil {
			occupied += ship.Length
		}
	}

	counted := 0
	for _, row := range grid.Render(true) {
		for _, symbol := range row {
			if symbol == mb.SymbolShip {
				counted++
			}
		}
	}
	require.Equal(t, occupied, counted)
}

func TestAttackSameCellTwice(t *testing.T) {
	grid := mb.NewGrid(mb.GridSize)
	_, err := grid.Place(mb.ShipKindBattleship, mb.NewCoordinates(5, 5), mb.OrientationVertical)
	require.NoError(t, err)

	first, err := grid.Attack(mb.NewCoordinates(6, 5))
	require.NoError(t, err)
	require.True(t, first.Hit)
	require.Equal(t, 1, grid.Ships[0].HitCount)

	second, err := grid.Attack(mb.NewCoordinates(6, 5))
	require.NoError(t, err)
	require.True(t, second.AlreadyAttacked)
	require.False(t, second.Hit)
	require.Equal(t, 1, grid.Ships[0].HitCount)

	miss, err := grid.Attack(mb.NewCoordinates(0, 0))
	require.NoError(t, err)
	require.False(t, miss.Hit)

	again, err := grid.Attack(mb.NewCoordinates(0, 0))
	require.NoError(t, err)
	require.True(t, again.AlreadyAttacked)

	_, err = grid.Attack(mb.NewCoordinates(0, 10))
	require.ErrorIs(t, err, cerr.ErrOutOfBounds)
}

func TestAllSunkNeedsShips(t *testing.T) {
	grid := mb.NewGrid(mb.GridSize)
	require.False(t, grid.AllSunk())

	_, err := grid.Place(mb.ShipKindDestroyer, mb.NewCoordinates(3, 3), mb.OrientationVertical)
	require.NoError(t, err)
	_, err = grid.Place(mb.ShipKindCruiser, mb.NewCoordinates(0, 0), mb.OrientationHorizontal)
	require.NoError(t, err)

	for _, c := range []mb.Coordinates{{Row: 3, Col: 3}, {Row: 4, Col: 3}} {
		_, err := grid.Attack(c)
		require.NoError(t, err)
	}
	require.False(t, grid.AllSunk())
	require.Equal(t, 1, grid.SunkenShips())

	for col := 0; col < 3; col++ {
		_, err := grid.Attack(mb.NewCoordinates(0, col))
		require.NoError(t, err)
	}
	require.True(t, grid.AllSunk())
}

func TestRenderSymbols(t *testing.T) {
	grid := mb.NewGrid(mb.GridSize)
	_, err := grid.Place(mb.ShipKindDestroyer, mb.NewCoordinates(0, 0), mb.OrientationHorizontal)
	require.NoError(t, err)

	_, err = grid.Attack(mb.NewCoordinates(0, 0))
	require.NoError(t, err)
	_, err = grid.Attack(mb.NewCoordinates(1, 0))
	require.NoError(t, err)

	revealed := grid.Render(true)
	require.Equal(t, mb.SymbolHit, revealed[0][0])
	require.Equal(t, mb.SymbolShip, revealed[0][1])
	require.Equal(t, mb.SymbolMiss, revealed[1][0])
	require.Equal(t, mb.SymbolWater, revealed[1][1])

	hidden := grid.Render(false)
	require.Equal(t, mb.SymbolHit, hidden[0][0])
	require.Equal(t, mb.SymbolWater, hidden[0][1])
	require.Equal(t, mb.SymbolMiss, hidden[1][0])
}

func TestDisplay(t *testing.T) {
	grid := mb.NewGrid(3)
	_, err := grid.Place(mb.ShipKindDestroyer, mb.NewCoordinates(1, 0), mb.OrientationHorizontal)
	require.NoError(t, err)
	_, err = grid.Attack(mb.NewCoordinates(1, 1))
	require.NoError(t, err)

	expected := "  0 1 2 \n" +
		"0 ~ ~ ~ \n" +
		"1 S X ~ \n" +
		"2 ~ ~ ~ \n"
	require.Equal(t, expected, grid.Display(true))
}
