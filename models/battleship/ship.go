package battleship

import (
	"strings"

	cerr "github.com/saeidalz13/gridstrike-backend/internal/error"
)

type ShipKind string

const (
	ShipKindCarrier    ShipKind = "carrier"
	ShipKindBattleship ShipKind = "battleship"
	ShipKindCruiser    ShipKind = "cruiser"
	ShipKindSubmarine  ShipKind = "submarine"
	ShipKindDestroyer  ShipKind = "destroyer"
)

const (
	ShipStatusAfloat = "Afloat"
	ShipStatusSunk   = "Sunk"
)

// Catalog order. A complete fleet has exactly one ship of each kind.
var shipKinds = []ShipKind{
	ShipKindCarrier,
	ShipKindBattleship,
	ShipKindCruiser,
	ShipKindSubmarine,
	ShipKindDestroyer,
}

var shipLengths = map[ShipKind]int{
	ShipKindCarrier:    5,
	ShipKindBattleship: 4,
	ShipKindCruiser:    3,
	ShipKindSubmarine:  3,
	ShipKindDestroyer:  2,
}

const (
	FleetSize  = 5
	FleetCells = 17
)

// Returns the ship kinds in catalog order.
func ShipKinds() []ShipKind {
	kinds := make([]ShipKind, len(shipKinds))
	copy(kinds, shipKinds)
	return kinds
}

func ParseShipKind(s string) (ShipKind, error) {
	kind := ShipKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.IsValid() {
		return "", cerr.ErrInvalidShipKind(s)
	}
	return kind, nil
}

func LengthOf(kind ShipKind) (int, error) {
	length, prs := shipLengths[kind]
	if !prs {
		return 0, cerr.ErrInvalidShipKind(string(kind))
	}
	return length, nil
}

func (k ShipKind) IsValid() bool {
	_, prs := shipLengths[k]
	return prs
}

// Capitalized name shown to players, e.g. "Carrier".
func (k ShipKind) DisplayName() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

type Ship struct {
	Kind     ShipKind `json:"kind" msgpack:"kind"`
	Length   int      `json:"length" msgpack:"length"`
	HitCount int      `json:"hit_count" msgpack:"hit_count"`
}

func NewShip(kind ShipKind) (*Ship, error) {
	length, err := LengthOf(kind)
	if err != nil {
		return nil, err
	}

	return &Ship{
		Kind:     kind,
		Length:   length,
		HitCount: 0,
	}, nil
}

func (sh *Ship) GotHit() {
	if sh.HitCount < sh.Length {
		sh.HitCount++
	}
}

func (sh *Ship) IsSunk() bool {
	return sh.HitCount >= sh.Length
}

func (sh *Ship) Status() string {
	if sh.IsSunk() {
		return ShipStatusSunk
	}
	return ShipStatusAfloat
}
