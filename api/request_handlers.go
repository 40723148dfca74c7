package api

import (
	"context"
	"encoding/json"
	"errors"

	cerr "github.com/saeidalz13/gridstrike-backend/internal/error"
	mb "github.com/saeidalz13/gridstrike-backend/models/battleship"
	mc "github.com/saeidalz13/gridstrike-backend/models/connection"
)

type RequestHandler interface {
	HandleCreateMatch(ctx context.Context, mm mb.MatchManager) (string, mc.Message[mc.RespCreateMatch], error)
	HandleResumeMatch(ctx context.Context, mm mb.MatchManager) (string, mc.Message[mc.RespMatchResumed], error)
	HandlePlaceShip(ctx context.Context, mm mb.MatchManager, matchUuid string) (mc.Message[mc.RespPlaceShip], error)
	HandleConfirmPlacement(ctx context.Context, mm mb.MatchManager, matchUuid string) (mc.Message[mc.RespConfirmPlacement], error)
	HandleAttack(ctx context.Context, mm mb.MatchManager, matchUuid string) (mc.Message[mc.RespAttack], error)
	HandleGetState(ctx context.Context, mm mb.MatchManager, matchUuid string) (mc.Message[mb.StateView], error)
	HandleReset(ctx context.Context, mm mb.MatchManager, matchUuid string) (mc.Message[mb.StateView], error)
	HandleBoards(ctx context.Context, mm mb.MatchManager, matchUuid string) (mc.Message[mc.RespBoards], error)
}

// Every incoming valid request will have this structure.
// The returned error is only set when the match could not be
// loaded or saved; a rejected command is reported in the message.
type Request struct {
	payload []byte
}

var _ RequestHandler = Request{}

func NewRequest(payload ...[]byte) Request {
	var req Request
	if len(payload) != 0 {
		req.payload = payload[0]
	}
	return req
}

func decodePayload[T any](payload []byte) (T, error) {
	var msg mc.Message[T]
	if len(payload) == 0 {
		return msg.Payload, cerr.ErrNilPayload()
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg.Payload, err
	}
	return msg.Payload, nil
}

func addStoreError[T any](resp *mc.Message[T], err error) {
	if errors.Is(err, cerr.ErrMatchNotFound) {
		resp.AddError(err.Error(), cerr.ConstErrMatchNotFound)
		return
	}
	resp.AddError(err.Error(), cerr.ConstErrStoreFailed)
}

func defaultName(name string, player int) string {
	if name == "" {
		if player == mb.PlayerOne {
			return "Player 1"
		}
		return "Player 2"
	}
	return name
}

func (r Request) HandleCreateMatch(ctx context.Context, mm mb.MatchManager) (string, mc.Message[mc.RespCreateMatch], error) {
	resp := mc.NewMessage[mc.RespCreateMatch](mc.CodeCreateMatch)

	// Names are optional; a bare create signal is valid
	var req mc.ReqCreateMatch
	if len(r.payload) != 0 {
		decoded, err := decodePayload[mc.ReqCreateMatch](r.payload)
		if err != nil {
			resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
			return "", resp, nil
		}
		req = decoded
	}

	matchUuid, state, err := mm.CreateMatch(ctx, mb.WithPlayerNames(
		defaultName(req.NamePlayerOne, mb.PlayerOne),
		defaultName(req.NamePlayerTwo, mb.PlayerTwo),
	))
	if err != nil {
		addStoreError(&resp, err)
		return "", resp, err
	}

	resp.AddPayload(mc.RespCreateMatch{MatchUuid: matchUuid, State: mb.GetState(state)})
	return matchUuid, resp, nil
}

func (r Request) HandleResumeMatch(ctx context.Context, mm mb.MatchManager) (string, mc.Message[mc.RespMatchResumed], error) {
	resp := mc.NewMessage[mc.RespMatchResumed](mc.CodeMatchResumed)

	req, err := decodePayload[mc.ReqResumeMatch](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return "", resp, nil
	}

	state, err := mm.FetchMatch(ctx, req.MatchUuid)
	if err != nil {
		addStoreError(&resp, err)
		return "", resp, err
	}

	resp.AddPayload(mc.RespMatchResumed{MatchUuid: req.MatchUuid, State: mb.GetState(state)})
	return req.MatchUuid, resp, nil
}

func (r Request) HandlePlaceShip(ctx context.Context, mm mb.MatchManager, matchUuid string) (mc.Message[mc.RespPlaceShip], error) {
	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodePlaceShip)

	req, err := decodePayload[mc.ReqPlaceShip](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return resp, nil
	}

	// A kind or orientation outside the catalog is rejected the
	// same way the engine rejects a bad placement
	kind, err := mb.ParseShipKind(req.ShipType)
	if err == nil {
		var orientation mb.Orientation
		orientation, err = mb.ParseOrientation(req.Orientation)
		if err == nil {
			return r.placeShip(ctx, mm, matchUuid, req, kind, orientation)
		}
	}

	resp.AddPayload(mc.RespPlaceShip{Success: false, Message: mb.FailureMessage(err)})
	resp.AddError(err.Error(), mb.FailureMessage(err))
	return resp, nil
}

func (r Request) placeShip(
	ctx context.Context,
	mm mb.MatchManager,
	matchUuid string,
	req mc.ReqPlaceShip,
	kind mb.ShipKind,
	orientation mb.Orientation,
) (mc.Message[mc.RespPlaceShip], error) {
	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodePlaceShip)

	var result mb.PlaceShipResult
	if _, err := mm.Execute(ctx, matchUuid, func(state mb.MatchState) (mb.MatchState, bool) {
		next, res := mb.PlaceShip(state, req.Player, kind, req.Row, req.Col, orientation)
		result = res
		return next, res.Success
	}); err != nil {
		addStoreError(&resp, err)
		return resp, err
	}

	resp.AddPayload(mc.RespPlaceShip{Success: result.Success, Message: result.Message})
	if result.Err != nil {
		resp.AddError(result.Err.Error(), result.Message)
	}
	return resp, nil
}

func (r Request) HandleConfirmPlacement(ctx context.Context, mm mb.MatchManager, matchUuid string) (mc.Message[mc.RespConfirmPlacement], error) {
	resp := mc.NewMessage[mc.RespConfirmPlacement](mc.CodeConfirmPlacement)

	req, err := decodePayload[mc.ReqConfirmPlacement](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return resp, nil
	}

	var result mb.ConfirmPlacementResult
	if _, err := mm.Execute(ctx, matchUuid, func(state mb.MatchState) (mb.MatchState, bool) {
		next, res := mb.ConfirmPlacement(state, req.Player)
		result = res
		return next, res.Success
	}); err != nil {
		addStoreError(&resp, err)
		return resp, err
	}

	resp.AddPayload(mc.RespConfirmPlacement{Success: result.Success, Phase: result.Phase})
	if result.Err != nil {
		resp.AddError(result.Err.Error(), result.Message)
	}
	return resp, nil
}

func (r Request) HandleAttack(ctx context.Context, mm mb.MatchManager, matchUuid string) (mc.Message[mc.RespAttack], error) {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)

	req, err := decodePayload[mc.ReqAttack](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return resp, nil
	}

	var outcome mb.AttackOutcome
	if _, err := mm.Execute(ctx, matchUuid, func(state mb.MatchState) (mb.MatchState, bool) {
		next, res := mb.Attack(state, req.Player, req.Row, req.Col)
		outcome = res
		return next, res.Valid
	}); err != nil {
		addStoreError(&resp, err)
		return resp, err
	}

	resp.AddPayload(mc.RespAttack{
		Row:             req.Row,
		Col:             req.Col,
		Valid:           outcome.Valid,
		Hit:             outcome.Hit,
		AlreadyAttacked: outcome.AlreadyAttacked,
		Sunk:            outcome.Sunk,
		ShipName:        outcome.ShipName,
		GameOver:        outcome.GameOver,
		Winner:          outcome.Winner,
		NextPlayer:      outcome.NextPlayer,
		Message:         outcome.Message,
	})
	if outcome.Err != nil {
		resp.AddError(outcome.Err.Error(), outcome.Message)
	}
	return resp, nil
}

func (r Request) HandleGetState(ctx context.Context, mm mb.MatchManager, matchUuid string) (mc.Message[mb.StateView], error) {
	resp := mc.NewMessage[mb.StateView](mc.CodeGetState)

	state, err := mm.FetchMatch(ctx, matchUuid)
	if err != nil {
		addStoreError(&resp, err)
		return resp, err
	}

	resp.AddPayload(mb.GetState(state))
	return resp, nil
}

func (r Request) HandleReset(ctx context.Context, mm mb.MatchManager, matchUuid string) (mc.Message[mb.StateView], error) {
	resp := mc.NewMessage[mb.StateView](mc.CodeReset)

	state, err := mm.Execute(ctx, matchUuid, mb.ResetCommand)
	if err != nil {
		addStoreError(&resp, err)
		return resp, err
	}

	resp.AddPayload(mb.GetState(state))
	return resp, nil
}

func (r Request) HandleBoards(ctx context.Context, mm mb.MatchManager, matchUuid string) (mc.Message[mc.RespBoards], error) {
	resp := mc.NewMessage[mc.RespBoards](mc.CodeBoards)

	req, err := decodePayload[mc.ReqBoards](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return resp, nil
	}

	state, err := mm.FetchMatch(ctx, matchUuid)
	if err != nil {
		addStoreError(&resp, err)
		return resp, err
	}

	boards, err := mb.Boards(state, req.Player)
	if err != nil {
		resp.AddError(err.Error(), mb.FailureMessage(err))
		return resp, nil
	}

	resp.AddPayload(mc.RespBoards{Boards: boards, State: mb.GetState(state)})
	return resp, nil
}
