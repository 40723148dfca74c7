package battleship

import (
	"regexp"
	"strings"

	cerr "github.com/saeidalz13/gridstrike-backend/internal/error"
)

const (
	PlayerOne int = 1
	PlayerTwo int = 2

	DefaultPlayerName = "Player"
)

var markupTag = regexp.MustCompile(`<[^>]*>`)

type Player struct {
	Name              string `json:"name" msgpack:"name"`
	Grid              *Grid  `json:"grid" msgpack:"grid"`
	PlacementComplete bool   `json:"placement_complete" msgpack:"placement_complete"`
}

func NewPlayer(name string, gridSize int) *Player {
	return &Player{
		Name:              SanitizeName(name),
		Grid:              NewGrid(gridSize),
		PlacementComplete: false,
	}
}

// Strips markup tags and surrounding whitespace. A name that
// ends up empty is replaced with DefaultPlayerName.
func SanitizeName(name string) string {
	clean := strings.TrimSpace(markupTag.ReplaceAllString(name, ""))
	if clean == "" {
		return DefaultPlayerName
	}
	return clean
}

func IsValidPlayer(player int) bool {
	return player == PlayerOne || player == PlayerTwo
}

func Opponent(player int) int {
	if player == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (p *Player) PlaceShip(kind ShipKind, start Coordinates, orientation Orientation) error {
	if !kind.IsValid() {
		return cerr.ErrInvalidShipKind(string(kind))
	}

	_, err := p.Grid.Place(kind, start, orientation)
	return err
}

func (p *Player) MarkPlacementComplete() {
	p.PlacementComplete = true
}

func (p *Player) ReceiveAttack(c Coordinates) (AttackResult, error) {
	return p.Grid.Attack(c)
}

func (p *Player) HasLost() bool {
	return p.Grid.AllSunk()
}

func (p *Player) clone() *Player {
	return &Player{
		Name:              p.Name,
		Grid:              p.Grid.clone(),
		PlacementComplete: p.PlacementComplete,
	}
}
