package connection

import (
	"net"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxWriteWsRetries uint8         = 2
	backOffFactor     uint8         = 2
	gracePeriod       time.Duration = time.Minute * 2
)

const (
	MessageTypeBytes uint8 = iota
	MessageTypeJSON
)

type ConnectionHandler interface {
	reconnectionAfterAbnormalClosure(conn *websocket.Conn)
	handleReadFromConnErr(conn *websocket.Conn, err error, retries uint8) uint8
	writeToConnWithRetry(conn *websocket.Conn, msg interface{}, msgType uint8) error
	onConnErr(err error) uint8
}

// A Session is one websocket client. It outlives its connection so a
// client that drops can come back with the session id and carry on
// with the same match. conn, matchUuid and reconnectionSignalChan are
// guarded by the mutex of the session manager.
type Session struct {
	id                     string
	conn                   *websocket.Conn
	matchUuid              string
	reconnectionSignalChan chan bool
	createdAt              time.Time
	logger                 *zap.Logger
}

func NewSession(id string, conn *websocket.Conn, logger *zap.Logger) *Session {
	return &Session{
		id:                     id,
		conn:                   conn,
		reconnectionSignalChan: make(chan bool),
		createdAt:              time.Now(),
		logger:                 logger.With(zap.String("session_id", id)),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) MatchUuid() string {
	return s.matchUuid
}

func remoteAddr(conn *websocket.Conn) string {
	if conn == nil {
		return ""
	}
	return conn.RemoteAddr().String()
}

func (s *Session) onConnErr(err error) uint8 {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		s.logger.Warn("timeout error", zap.Error(err))
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		s.logger.Warn("high server load/traffic error", zap.Error(err))
		return ConnLoopRetry
	}

	// Happens if a mobile client goes to background
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		s.logger.Warn("abnormal closure error", zap.Error(err))
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		s.logger.Info("close error", zap.Error(err))
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		s.logger.Error("critical error", zap.Error(err))
		return ConnLoopBreak
	}

	/*
		Probably not a client of this application (binary frames,
		invalid UTF-8, oversized messages). Breaking so the server
		is not flooded with payloads it cannot handle.
	*/
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		s.logger.Warn("non-critical error", zap.Error(err))
		return ConnLoopBreak
	}

	s.logger.Error("unexpected error", zap.Error(err))
	return ConnLoopBreak
}

// Writes to the current connection of that session. It also
// handles the abnormal or other types of errors of
// writing to a websocket connection.
func (s *Session) writeToConnWithRetry(conn *websocket.Conn, msg interface{}, msgType uint8) error {
	var retries uint8

writeJsonLoop:
	for {
		var err error

		switch msgType {
		case MessageTypeJSON:
			err = conn.WriteJSON(msg)

		case MessageTypeBytes:
			respBytes, ok := msg.([]byte)
			if ok {
				err = conn.WriteMessage(websocket.TextMessage, respBytes)
			} else {
				return NewConnErr(ConnInvalidMsgType).AddDesc("msg type expected: []byte got invalid")
			}

		default:
			return NewConnErr(ConnInvalidMsgType).AddDesc("invalid message type to write with retry")
		}

		if err != nil {
			switch s.onConnErr(err) {
			case ConnLoopRetry:
				if retries < maxWriteWsRetries {
					retries++
					s.logger.Warn("writing to ws failed; retrying",
						zap.String("remote_addr", remoteAddr(conn)),
						zap.Uint8("retry", retries),
					)
					time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
					continue writeJsonLoop
				}

				s.logger.Error("max retries reached for writing to ws", zap.String("remote_addr", remoteAddr(conn)), zap.Error(err))
				return NewConnErr(ConnLoopBreak)

			case ConnLoopAbnormalClosureRetry:
				return NewConnErr(ConnLoopAbnormalClosureRetry)

			case ConnLoopBreak:
				return NewConnErr(ConnLoopBreak).AddDesc("breaking writeJsonLoop due to:" + err.Error())
			}
		}
		return nil
	}
}

// Handles the errors that occurs when reading from
// ws connection. `ConnLoopBreak` will result in
// terminating the session.
func (s *Session) handleReadFromConnErr(conn *websocket.Conn, err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopAbnormalClosureRetry:
		return ConnLoopAbnormalClosureRetry

	case ConnLoopRetry:
		if retries < maxWriteWsRetries {
			s.logger.Warn("failed to read from ws conn; retrying",
				zap.String("remote_addr", remoteAddr(conn)),
				zap.Uint8("retry", retries),
			)
			time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
			return ConnLoopContinue
		}
		return ConnLoopBreak

	case ConnLoopBreak:
		s.logger.Info("break ws conn loop", zap.String("remote_addr", remoteAddr(conn)), zap.Error(err))
		return ConnLoopBreak

	// will never reach this
	default:
		return ConnLoopBreak
	}
}

// The caller holds the session manager lock. The new connection is
// in place before the waiting loop is woken up.
func (s *Session) reconnectionAfterAbnormalClosure(conn *websocket.Conn) {
	s.conn = conn

	reconnected := s.reconnectionSignalChan
	s.reconnectionSignalChan = make(chan bool)
	close(reconnected)
}

var _ ConnectionHandler = (*Session)(nil)
