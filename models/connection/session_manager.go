package connection

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	cerr "github.com/saeidalz13/gridstrike-backend/internal/error"
)

const DefaultCleanupInterval = time.Minute * 20

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically()

	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) (*Session, error)
	HandleAbnormalClosureSession(session *Session) error

	SessionConn(session *Session) *websocket.Conn
	GetSessionMatch(session *Session) string
	SetSessionMatch(session *Session, matchUuid string)

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	FetchCodeFromMsg(payload []byte) (uint8, error)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	sessions        map[string]*Session
	logger          *zap.Logger
	mu              sync.RWMutex
}

type SessionManagerOption func(*BattleshipSessionManager)

func WithCleanupInterval(interval time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		if interval > 0 {
			bsm.cleanupInterval = interval
		}
	}
}

func NewBattleshipSessionManager(logger *zap.Logger, opts ...SessionManagerOption) *BattleshipSessionManager {
	initMapSize := 10

	bsm := &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: DefaultCleanupInterval,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

// Current connection of the session; it changes on reconnection.
func (bsm *BattleshipSessionManager) SessionConn(session *Session) *websocket.Conn {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return session.conn
}

func (bsm *BattleshipSessionManager) GetSessionMatch(session *Session) string {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return session.matchUuid
}

func (bsm *BattleshipSessionManager) SetSessionMatch(session *Session, matchUuid string) {
	bsm.mu.Lock()
	session.matchUuid = matchUuid
	bsm.mu.Unlock()
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn, bsm.logger)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotExists(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()

	bsm.logger.Info("session terminated", zap.String("session_id", sessionId))
}

// Hands a fresh connection to a session whose client dropped.
// The session loop waiting in its grace period picks it up.
func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) (*Session, error) {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return nil, err
	}

	bsm.mu.Lock()
	session.reconnectionAfterAbnormalClosure(conn)
	bsm.mu.Unlock()

	return session, nil
}

// To ensure that there is no dangling connections,
// session manager marks the sessions with a lifetime
// longer than the cleanup interval as stale and deletes them.
func (bsm *BattleshipSessionManager) CleanupPeriodically() {
	for {
		time.Sleep(bsm.cleanupInterval)
		bsm.cleanupStale()
	}
}

func (bsm *BattleshipSessionManager) cleanupStale() int {
	assumedClosedConns := 10

	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	toDelete := make([]string, 0, assumedClosedConns)
	for ID, session := range bsm.sessions {
		if time.Since(session.createdAt) > bsm.cleanupInterval {
			toDelete = append(toDelete, ID)
		}
	}

	for _, ID := range toDelete {
		delete(bsm.sessions, ID)
		bsm.logger.Info("removed stale session", zap.String("session_id", ID))
	}
	return len(toDelete)
}

// This function takes care of abnormal closures happening
// to the client. This happens due to backgrounding in mobile
// clients or any other unexpected reasons for web apps.
func (bsm *BattleshipSessionManager) HandleAbnormalClosureSession(s *Session) error {
	// Nothing to resume without a match
	if bsm.GetSessionMatch(s) == "" {
		return NewConnErr(ConnLoopBreak).AddDesc("match is not set; invalid session")
	}

	bsm.mu.RLock()
	reconnected := s.reconnectionSignalChan
	bsm.mu.RUnlock()

	timer := time.NewTimer(gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		s.logger.Info("grace period is over")
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case <-reconnected:
		s.logger.Info("client reconnected")
		return nil
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	err := session.writeToConnWithRetry(bsm.SessionConn(session), msg, msgType)
	if err == nil {
		return nil
	}

	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return err
	}

	switch connErr.Code() {
	case ConnLoopAbnormalClosureRetry:
		if err := bsm.HandleAbnormalClosureSession(session); err != nil {
			return connErr
		}
		// The message is lost with the old connection; resend
		// it once on the new one.
		return session.writeToConnWithRetry(bsm.SessionConn(session), msg, msgType)

	default:
		return connErr
	}
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		conn := bsm.SessionConn(session)
		messageType, payload, err := conn.ReadMessage()
		if err == nil {
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(conn, err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := bsm.HandleAbnormalClosureSession(session); err != nil {
				return -1, []byte{}, err
			}

		default:
			return -1, []byte{}, err
		}
	}
}

// Extracts the signal code of an incoming frame. A frame
// without a "code" field is rejected with cerr.ErrSignalAbsent.
func (bsm *BattleshipSessionManager) FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	if signal.Code == nil {
		return randomInvalidCode, cerr.ErrSignalAbsent
	}

	return *signal.Code, nil
}
