package connection

type ReqCreateMatch struct {
	NamePlayerOne string `json:"name_player_one"`
	NamePlayerTwo string `json:"name_player_two"`
}

type ReqPlaceShip struct {
	Player      int    `json:"player"`
	ShipType    string `json:"ship_type"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Orientation string `json:"orientation"`
}

type ReqConfirmPlacement struct {
	Player int `json:"player"`
}

type ReqAttack struct {
	Player int `json:"player"`
	Row    int `json:"row"`
	Col    int `json:"col"`
}

type ReqBoards struct {
	Player int `json:"player"`
}

type ReqResumeMatch struct {
	MatchUuid string `json:"match_uuid"`
}
