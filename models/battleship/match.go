package battleship

import (
	"errors"
	"fmt"

	cerr "github.com/saeidalz13/gridstrike-backend/internal/error"
)

type Phase string

const (
	PhaseSetupP1  Phase = "setup_p1"
	PhaseSetupP2  Phase = "setup_p2"
	PhaseP1Turn   Phase = "p1_turn"
	PhaseP2Turn   Phase = "p2_turn"
	PhaseGameOver Phase = "game_over"
)

func (p Phase) String() string {
	return string(p)
}

func (p Phase) IsSetup() bool {
	return p == PhaseSetupP1 || p == PhaseSetupP2
}

func (p Phase) IsBattle() bool {
	return p == PhaseP1Turn || p == PhaseP2Turn
}

// Setup phase in which player may place ships.
func setupPhaseOf(player int) Phase {
	if player == PlayerOne {
		return PhaseSetupP1
	}
	return PhaseSetupP2
}

func turnPhaseOf(player int) Phase {
	if player == PlayerOne {
		return PhaseP1Turn
	}
	return PhaseP2Turn
}

const (
	commandPlaceShip        = "place ship"
	commandConfirmPlacement = "confirm placement"
	commandAttack           = "attack"
)

// Winner is NoWinner until the match reaches PhaseGameOver
const NoWinner int = 0

// MatchState is the whole state of one match. It is a plain value
// handed to and from the store; the engine functions below never
// mutate the state they receive.
type MatchState struct {
	Phase           Phase      `json:"phase" msgpack:"phase"`
	ActivePlayer    int        `json:"active_player" msgpack:"active_player"`
	Message         string     `json:"message" msgpack:"message"`
	Winner          int        `json:"winner" msgpack:"winner"`
	Players         [2]*Player `json:"players" msgpack:"players"`
	GridSize        int        `json:"grid_size" msgpack:"grid_size"`
	StrictPlacement bool       `json:"strict_placement" msgpack:"strict_placement"`
}

type MatchOption func(*MatchState)

func WithPlayerNames(nameP1, nameP2 string) MatchOption {
	return func(ms *MatchState) {
		ms.Players[0].Name = SanitizeName(nameP1)
		ms.Players[1].Name = SanitizeName(nameP2)
	}
}

// Require a complete fleet before a player can confirm placement.
func WithStrictPlacement(strict bool) MatchOption {
	return func(ms *MatchState) {
		ms.StrictPlacement = strict
	}
}

func NewMatchState(opts ...MatchOption) MatchState {
	state := MatchState{
		Phase:        PhaseSetupP1,
		ActivePlayer: PlayerOne,
		Message:      placeShipsMessage(PlayerOne),
		Winner:       NoWinner,
		GridSize:     GridSize,
		Players: [2]*Player{
			NewPlayer("Player 1", GridSize),
			NewPlayer("Player 2", GridSize),
		},
	}

	for _, opt := range opts {
		opt(&state)
	}
	return state
}

// Player returns the player with number 1 or 2, nil otherwise.
func (ms MatchState) Player(player int) *Player {
	if !IsValidPlayer(player) {
		return nil
	}
	return ms.Players[player-1]
}

func (ms MatchState) IsGameOver() bool {
	return ms.Phase == PhaseGameOver
}

func (ms MatchState) Clone() MatchState {
	cloned := ms
	for i, player := range ms.Players {
		if player != nil {
			cloned.Players[i] = player.clone()
		}
	}
	return cloned
}

func placeShipsMessage(player int) string {
	return fmt.Sprintf("Player %d: Place your ships", player)
}

func turnMessage(player int) string {
	return fmt.Sprintf("Player %d's turn to attack!", player)
}

func victoryMessage(player int) string {
	return fmt.Sprintf("Player %d wins the game!", player)
}

type PlaceShipResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

type ConfirmPlacementResult struct {
	Success bool   `json:"success"`
	Phase   Phase  `json:"phase"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

type AttackOutcome struct {
	Valid           bool   `json:"valid"`
	Hit             bool   `json:"hit"`
	AlreadyAttacked bool   `json:"already_attacked"`
	Sunk            bool   `json:"sunk"`
	ShipName        string `json:"ship_name"`
	GameOver        bool   `json:"game_over"`
	Winner          int    `json:"winner"`
	NextPlayer      int    `json:"next_player"`
	Message         string `json:"message"`
	Err             error  `json:"-"`
}

type StateView struct {
	Phase         Phase  `json:"phase"`
	CurrentPlayer int    `json:"current_player"`
	Message       string `json:"message"`
	GameOver      bool   `json:"game_over"`
	Winner        int    `json:"winner"`
}

const invalidPositionMessage = "Invalid position"

// Human readable text for a failed command, shown to
// players as is.
func FailureMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, cerr.ErrWrongTurn):
		return "Not your turn!"
	case errors.Is(err, cerr.ErrWrongPhase):
		return "Cannot do that now"
	case errors.Is(err, cerr.ErrAlreadyAttacked):
		return "Already attacked this position"
	case errors.Is(err, cerr.ErrOutOfBounds), errors.Is(err, cerr.ErrOverlap):
		return "Cannot place ship at this position"
	case errors.Is(err, cerr.ErrUnknownShipKind):
		return "Unknown ship type"
	case errors.Is(err, cerr.ErrShipAlreadyPlaced):
		return "Ship already placed"
	case errors.Is(err, cerr.ErrFleetIncomplete):
		return "Place all your ships first"
	case errors.Is(err, cerr.ErrInvalidPlayer):
		return "Invalid player"
	case errors.Is(err, cerr.ErrInvalidOrientation):
		return "Invalid orientation"
	default:
		return err.Error()
	}
}

// Places a ship for player. Only the player whose setup
// phase it is may place ships.
func PlaceShip(state MatchState, player int, kind ShipKind, row, col int, orientation Orientation) (MatchState, PlaceShipResult) {
	fail := func(err error) (MatchState, PlaceShipResult) {
		return state, PlaceShipResult{Success: false, Message: FailureMessage(err), Err: err}
	}

	if !IsValidPlayer(player) {
		return fail(cerr.ErrPlayerNumber(player))
	}
	if state.Phase != setupPhaseOf(player) {
		return fail(cerr.ErrCommandWrongPhase(commandPlaceShip, state.Phase.String(), player))
	}

	// Strict matches allow one ship per kind
	if state.StrictPlacement && state.Player(player).Grid.HasKind(kind) {
		return fail(cerr.ErrShipKindAlreadyPlaced(kind.DisplayName()))
	}

	next := state.Clone()
	if err := next.Player(player).PlaceShip(kind, NewCoordinates(row, col), orientation); err != nil {
		return fail(err)
	}

	return next, PlaceShipResult{
		Success: true,
		Message: kind.DisplayName() + " placed successfully!",
	}
}

// Confirms the fleet of player and hands setup over to the
// other player, or starts the battle after player 2.
func ConfirmPlacement(state MatchState, player int) (MatchState, ConfirmPlacementResult) {
	fail := func(err error) (MatchState, ConfirmPlacementResult) {
		return state, ConfirmPlacementResult{Success: false, Phase: state.Phase, Message: FailureMessage(err), Err: err}
	}

	if !IsValidPlayer(player) {
		return fail(cerr.ErrPlayerNumber(player))
	}
	if state.Phase != setupPhaseOf(player) {
		return fail(cerr.ErrCommandWrongPhase(commandConfirmPlacement, state.Phase.String(), player))
	}
	if state.StrictPlacement && !state.Player(player).Grid.IsFleetComplete() {
		return fail(cerr.ErrFleetNotComplete(player, len(state.Player(player).Grid.Ships), FleetSize))
	}

	next := state.Clone()
	next.Player(player).MarkPlacementComplete()

	if player == PlayerOne {
		next.Phase = PhaseSetupP2
		next.ActivePlayer = PlayerTwo
		next.Message = placeShipsMessage(PlayerTwo)
	} else {
		next.Phase = PhaseP1Turn
		next.ActivePlayer = PlayerOne
		next.Message = turnMessage(PlayerOne)
	}

	return next, ConfirmPlacementResult{Success: true, Phase: next.Phase, Message: next.Message}
}

// Resolves an attack by attacker on the opponent's grid. The turn passes
// to the opponent after every resolved attack unless it ends the game.
// Repeated or out of bound attacks are not resolved and keep the turn.
func Attack(state MatchState, attacker, row, col int) (MatchState, AttackOutcome) {
	fail := func(err error) (MatchState, AttackOutcome) {
		message := FailureMessage(err)
		if errors.Is(err, cerr.ErrOutOfBounds) {
			message = invalidPositionMessage
		}
		return state, AttackOutcome{
			Valid:           false,
			AlreadyAttacked: errors.Is(err, cerr.ErrAlreadyAttacked),
			NextPlayer:      state.ActivePlayer,
			Winner:          state.Winner,
			GameOver:        state.IsGameOver(),
			Message:         message,
			Err:             err,
		}
	}

	if !IsValidPlayer(attacker) {
		return fail(cerr.ErrPlayerNumber(attacker))
	}
	if !state.Phase.IsBattle() {
		return fail(cerr.ErrCommandWrongPhase(commandAttack, state.Phase.String(), attacker))
	}
	if attacker != state.ActivePlayer {
		return fail(cerr.ErrNotPlayerTurn(attacker))
	}

	next := state.Clone()
	defender := next.Player(Opponent(attacker))

	result, err := defender.ReceiveAttack(NewCoordinates(row, col))
	if err != nil {
		return fail(err)
	}
	if result.AlreadyAttacked {
		return fail(cerr.ErrDefenceGridPositionAlreadyHit(row, col))
	}

	outcome := AttackOutcome{
		Valid:    true,
		Hit:      result.Hit,
		Sunk:     result.Sunk,
		ShipName: result.ShipName,
		Message:  attackMessage(result),
	}

	if defender.HasLost() {
		next.Phase = PhaseGameOver
		next.Winner = attacker
		next.Message = victoryMessage(attacker)

		outcome.GameOver = true
		outcome.Winner = attacker
		outcome.NextPlayer = NoWinner
		outcome.Message = next.Message
		return next, outcome
	}

	next.ActivePlayer = Opponent(attacker)
	next.Phase = turnPhaseOf(next.ActivePlayer)
	next.Message = turnMessage(next.ActivePlayer)

	outcome.NextPlayer = next.ActivePlayer
	return next, outcome
}

func attackMessage(result AttackResult) string {
	switch {
	case result.Sunk:
		return fmt.Sprintf("Hit! You sunk the %s!", result.ShipName)
	case result.Hit:
		return "Hit!"
	default:
		return "Miss!"
	}
}

func GetState(state MatchState) StateView {
	return StateView{
		Phase:         state.Phase,
		CurrentPlayer: state.ActivePlayer,
		Message:       state.Message,
		GameOver:      state.IsGameOver(),
		Winner:        state.Winner,
	}
}

// Discards every ship and attack and starts over from the first
// setup phase. Player names and match rules are kept.
func Reset(state MatchState) MatchState {
	opts := []MatchOption{WithStrictPlacement(state.StrictPlacement)}
	if state.Players[0] != nil && state.Players[1] != nil {
		opts = append(opts, WithPlayerNames(state.Players[0].Name, state.Players[1].Name))
	}
	return NewMatchState(opts...)
}
