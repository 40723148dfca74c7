package connection

import (
	mb "github.com/saeidalz13/gridstrike-backend/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateMatch struct {
	MatchUuid string       `json:"match_uuid"`
	State     mb.StateView `json:"state"`
}

type RespMatchResumed struct {
	MatchUuid string       `json:"match_uuid"`
	State     mb.StateView `json:"state"`
}

type RespPlaceShip struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type RespConfirmPlacement struct {
	Success bool     `json:"success"`
	Phase   mb.Phase `json:"phase"`
}

type RespAttack struct {
	Row             int    `json:"row"`
	Col             int    `json:"col"`
	Valid           bool   `json:"valid"`
	Hit             bool   `json:"hit"`
	AlreadyAttacked bool   `json:"already_attacked"`
	Sunk            bool   `json:"sunk"`
	ShipName        string `json:"ship_name"`
	GameOver        bool   `json:"game_over"`
	Winner          int    `json:"winner"`
	NextPlayer      int    `json:"next_player"`
	Message         string `json:"message"`
}

type RespBoards struct {
	Boards mb.BoardsView `json:"boards"`
	State  mb.StateView  `json:"state"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
