package battleship_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/gridstrike-backend/internal/error"
	mb "github.com/saeidalz13/gridstrike-backend/models/battleship"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Alice", "Alice"},
		{"trimmed", "  Bob  ", "Bob"},
		{"tags stripped", "<b>Carol</b>", "Carol"},
		{"blank", "   ", mb.DefaultPlayerName},
		{"only tags", "<script></script>", mb.DefaultPlayerName},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, mb.SanitizeName(test.input))
		})
	}
}

func TestPlayerPlaceShip(t *testing.T) {
	player := mb.NewPlayer("Alice", mb.GridSize)

	err := player.PlaceShip("canoe", mb.NewCoordinates(0, 0), mb.OrientationHorizontal)
	require.ErrorIs(t, err, cerr.ErrUnknownShipKind)

	require.NoError(t, player.PlaceShip(mb.ShipKindCruiser, mb.NewCoordinates(0, 0), mb.OrientationHorizontal))
	require.False(t, player.PlacementComplete)

	// a second ship of the same kind is just another ship
	require.NoError(t, player.PlaceShip(mb.ShipKindCruiser, mb.NewCoordinates(5, 5), mb.OrientationHorizontal))
	require.Len(t, player.Grid.Ships, 2)
	require.False(t, player.Grid.IsFleetComplete())

	err = player.PlaceShip(mb.ShipKindCruiser, mb.NewCoordinates(5, 6), mb.OrientationVertical)
	require.ErrorIs(t, err, cerr.ErrOverlap)
	require.Len(t, player.Grid.Ships, 2)

	player.MarkPlacementComplete()
	player.MarkPlacementComplete()
	require.True(t, player.PlacementComplete)
}

func TestPlayerHasLost(t *testing.T) {
	player := mb.NewPlayer("", mb.GridSize)
	require.Equal(t, mb.DefaultPlayerName, player.Name)
	require.False(t, player.HasLost())

	require.NoError(t, player.PlaceShip(mb.ShipKindDestroyer, mb.NewCoordinates(8, 8), mb.OrientationVertical))

	result, err := player.ReceiveAttack(mb.NewCoordinates(8, 8))
	require.NoError(t, err)
	require.True(t, result.Hit)
	require.False(t, player.HasLost())

	result, err = player.ReceiveAttack(mb.NewCoordinates(9, 8))
	require.NoError(t, err)
	require.True(t, result.Sunk)
	require.True(t, player.HasLost())
}
