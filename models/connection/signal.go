package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateMatch
	CodePlaceShip
	CodeConfirmPlacement
	CodeAttack
	CodeGetState
	CodeReset
	CodeBoards
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	// a match command arrived before the session created a match
	CodeNoMatch

	// attaches a new session to a match kept in the store
	CodeMatchResumed
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
