package battleship

import cerr "github.com/saeidalz13/gridstrike-backend/internal/error"

type ShipView struct {
	Kind     ShipKind `json:"kind"`
	Length   int      `json:"length"`
	HitCount int      `json:"hit_count"`
	Status   string   `json:"status"`
}

// What one player is allowed to see: their own board with
// ships, the opponent board with hits and misses only.
type BoardsView struct {
	Viewer        int        `json:"viewer"`
	OwnBoard      []string   `json:"own_board"`
	OpponentBoard []string   `json:"opponent_board"`
	Fleet         []ShipView `json:"fleet"`
}

func renderRows(g *Grid, revealShips bool) []string {
	symbols := g.Render(revealShips)
	rows := make([]string, len(symbols))
	for i, row := range symbols {
		rows[i] = string(row)
	}
	return rows
}

func Boards(state MatchState, viewer int) (BoardsView, error) {
	if !IsValidPlayer(viewer) {
		return BoardsView{}, cerr.ErrPlayerNumber(viewer)
	}

	own := state.Player(viewer)
	opponent := state.Player(Opponent(viewer))

	fleet := make([]ShipView, 0, len(own.Grid.Ships))
	for _, ship := range own.Grid.Ships {
		fleet = append(fleet, ShipView{
			Kind:     ship.Kind,
			Length:   ship.Length,
			HitCount: ship.HitCount,
			Status:   ship.Status(),
		})
	}

	return BoardsView{
		Viewer:        viewer,
		OwnBoard:      renderRows(own.Grid, true),
		OpponentBoard: renderRows(opponent.Grid, false),
		Fleet:         fleet,
	}, nil
}
