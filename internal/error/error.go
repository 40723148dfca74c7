package error

import (
	"errors"
	"fmt"
)

const (
	ConstErrAttackFailed    = "attack operation failed"
	ConstErrPlacementFailed = "cannot place ship at this position"
	ConstErrInvalidPayload  = "invalid request payload"
	ConstErrMatchNotFound   = "match not found"
	ConstErrStoreFailed     = "something went wrong, try again"
)

// Match engine errors. Every engine failure wraps exactly one
// of these so callers can branch with errors.Is.
var (
	ErrOutOfBounds        = errors.New("coordinate is out of grid bound")
	ErrOverlap            = errors.New("ship overlaps another ship")
	ErrUnknownShipKind    = errors.New("unknown ship kind")
	ErrAlreadyAttacked    = errors.New("position already attacked")
	ErrWrongTurn          = errors.New("not your turn")
	ErrWrongPhase         = errors.New("command not allowed in current phase")
	ErrShipAlreadyPlaced  = errors.New("ship kind already placed")
	ErrFleetIncomplete    = errors.New("fleet is not complete")
	ErrInvalidPlayer      = errors.New("invalid player number")
	ErrInvalidOrientation = errors.New("invalid orientation")
)

var (
	ErrMatchNotFound   = errors.New("match does not exist")
	ErrSessionNotFound = errors.New("session does not exist")
	ErrSignalAbsent    = errors.New("incoming req payload must contain 'code' field")
)

func ErrXorYOutOfGridBound(row, col int) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d", ErrOutOfBounds, row, col)
}

func ErrPositionOccupied(row, col int) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d", ErrOverlap, row, col)
}

func ErrInvalidShipKind(kind string) error {
	return fmt.Errorf("%w: %q", ErrUnknownShipKind, kind)
}

func ErrDefenceGridPositionAlreadyHit(row, col int) error {
	return fmt.Errorf("%w in previous rounds\trow: %d\tcol: %d", ErrAlreadyAttacked, row, col)
}

func ErrNotPlayerTurn(player int) error {
	return fmt.Errorf("%w: player %d", ErrWrongTurn, player)
}

func ErrCommandWrongPhase(command, phase string, player int) error {
	return fmt.Errorf("%w: %s by player %d during %s", ErrWrongPhase, command, player, phase)
}

func ErrShipKindAlreadyPlaced(kind string) error {
	return fmt.Errorf("%w: %s", ErrShipAlreadyPlaced, kind)
}

func ErrFleetNotComplete(player, placed, required int) error {
	return fmt.Errorf("%w: player %d placed %d of %d ships", ErrFleetIncomplete, player, placed, required)
}

func ErrPlayerNumber(player int) error {
	return fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
}

func ErrOrientation(orientation string) error {
	return fmt.Errorf("%w: %q", ErrInvalidOrientation, orientation)
}

func ErrMatchNotExists(matchUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrMatchNotFound, matchUuid)
}

func ErrSessionNotExists(sessionId string) error {
	return fmt.Errorf("%w, id: %s", ErrSessionNotFound, sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session is nil, id: %s", sessionId)
}

func ErrNilPayload() error {
	return fmt.Errorf("the payload is nil or malformed")
}
