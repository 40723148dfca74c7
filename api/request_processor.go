package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"
	"go.uber.org/zap"

	"github.com/saeidalz13/gridstrike-backend/db/sqlc"
	cerr "github.com/saeidalz13/gridstrike-backend/internal/error"
	mb "github.com/saeidalz13/gridstrike-backend/models/battleship"
	mc "github.com/saeidalz13/gridstrike-backend/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"

	requestCtxTimeout = time.Second * 15
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	matchManager   mb.MatchManager
	analytics      *sqlc.AnalyticsManager
	ipnet          net.IPNet
	logger         *zap.Logger
}

// analytics may be nil; counters are then not recorded.
func NewRequestProcessor(
	sessionManager mc.SessionManager,
	matchManager mb.MatchManager,
	analytics *sqlc.AnalyticsManager,
	logger *zap.Logger,
) RequestProcessor {
	rp := RequestProcessor{
		sessionManager: sessionManager,
		matchManager:   matchManager,
		analytics:      analytics,
		logger:         logger,
	}

	ipnet, err := serverIpNet()
	if err != nil {
		logger.Warn("server ip not found; analytics keyed by loopback", zap.Error(err))
		ipnet = net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(32, 32)}
	}
	rp.ipnet = ipnet
	return rp
}

// First non-loopback IPv4 address of an interface that is up.
func serverIpNet() (net.IPNet, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return net.IPNet{}, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			return net.IPNet{}, err
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipnet.IP.To4(); ip4 != nil && !ip4.IsLoopback() {
				return net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}, nil
			}
		}
	}

	return net.IPNet{}, errors.New("ipnet could not be found")
}

// Expose this method to use it in testing
func (rp RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		rp.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		rp.logger.Info("a new connection established", zap.String("remote_addr", conn.RemoteAddr().String()))
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		// The loop of the session is still running and
		// continues on the new connection
		if _, err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
			rp.logger.Info("reconnection rejected", zap.String("session_id", sessionIdQuery), zap.Error(err))
			_ = conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID))
			conn.Close()
		}
	}
}

func (rp RequestProcessor) incrementAnalytics(code uint8) {
	if rp.analytics == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	serverPqtypeInet := pqtype.Inet{IPNet: rp.ipnet, Valid: true}

	var err error
	switch code {
	case mc.CodeCreateMatch:
		err = rp.analytics.IncrementMatchesCreatedCount(ctx, serverPqtypeInet)
	case mc.CodeReset:
		err = rp.analytics.IncrementResetsCalledCount(ctx, serverPqtypeInet)
	}

	// for now not failing the request for it
	if err != nil {
		rp.logger.Warn("failed to record analytics", zap.Uint8("code", code), zap.Error(err))
	}
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()
	logger := rp.logger.With(zap.String("session_id", sessionId))

	// The match outlives the session so it can be resumed
	// later; idle matches are purged by the match cleanup.
	defer func() {
		if conn := rp.sessionManager.SessionConn(session); conn != nil {
			conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// This error happens after retries. If it's not nil,
			// then something was wrong with the session connection
			// and couldn't be resolved
			break sessionLoop
		}

		code, err := rp.sessionManager.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError(err.Error(), cerr.ConstErrInvalidPayload)
			if err = rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		if err := rp.dispatch(session, code, payload, logger); err != nil {
			break sessionLoop
		}
	}
}

// Runs the command behind code and writes the response. The returned
// error is only set when writing to the session failed.
func (rp RequestProcessor) dispatch(session *mc.Session, code uint8, payload []byte, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestCtxTimeout)
	defer cancel()

	req := NewRequest(payload)
	matchUuid := rp.sessionManager.GetSessionMatch(session)
	logger = logger.With(zap.Uint8("code", code), zap.String("match_id", matchUuid))

	var (
		respMsg  interface{}
		storeErr error
	)

	switch code {
	case mc.CodeCreateMatch:
		newMatchUuid, msg, err := req.HandleCreateMatch(ctx, rp.matchManager)
		if err == nil && newMatchUuid != "" {
			rp.sessionManager.SetSessionMatch(session, newMatchUuid)
			rp.incrementAnalytics(code)
			logger.Info("match created", zap.String("match_id", newMatchUuid))
		}
		respMsg, storeErr = msg, err

	case mc.CodeMatchResumed:
		resumedMatchUuid, msg, err := req.HandleResumeMatch(ctx, rp.matchManager)
		if err == nil && resumedMatchUuid != "" {
			rp.sessionManager.SetSessionMatch(session, resumedMatchUuid)
			logger.Info("match resumed", zap.String("match_id", resumedMatchUuid))
		}
		respMsg, storeErr = msg, err

	case mc.CodePlaceShip, mc.CodeConfirmPlacement, mc.CodeAttack, mc.CodeGetState, mc.CodeReset, mc.CodeBoards:
		if matchUuid == "" {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeNoMatch)
			msg.AddError(cerr.ErrMatchNotFound.Error(), "Create a match first")
			return rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON)
		}
		respMsg, storeErr = rp.dispatchMatchCommand(ctx, req, code, matchUuid, logger)

	default:
		respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
		respInvalidSignal.AddError("", "invalid code in the incoming payload")
		respMsg = respInvalidSignal
	}

	if storeErr != nil {
		logger.Error("match store failed", zap.Error(storeErr))

		// The store no longer has the match; the client has to
		// create or resume another one
		if errors.Is(storeErr, cerr.ErrMatchNotFound) && matchUuid != "" {
			rp.sessionManager.SetSessionMatch(session, "")
		}
	}

	return rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON)
}

func (rp RequestProcessor) dispatchMatchCommand(
	ctx context.Context,
	req Request,
	code uint8,
	matchUuid string,
	logger *zap.Logger,
) (interface{}, error) {
	switch code {
	case mc.CodePlaceShip:
		msg, err := req.HandlePlaceShip(ctx, rp.matchManager, matchUuid)
		if msg.Error != nil {
			logger.Debug(cerr.ConstErrPlacementFailed, zap.String("details", msg.Error.ErrorDetails))
		}
		return msg, err

	case mc.CodeConfirmPlacement:
		return req.HandleConfirmPlacement(ctx, rp.matchManager, matchUuid)

	case mc.CodeAttack:
		msg, err := req.HandleAttack(ctx, rp.matchManager, matchUuid)
		if msg.Error != nil {
			logger.Debug(cerr.ConstErrAttackFailed, zap.String("details", msg.Error.ErrorDetails))
		}
		if msg.Payload.GameOver && msg.Error == nil {
			logger.Info("match over", zap.Int("winner", msg.Payload.Winner))
		}
		return msg, err

	case mc.CodeGetState:
		return req.HandleGetState(ctx, rp.matchManager, matchUuid)

	case mc.CodeReset:
		msg, err := req.HandleReset(ctx, rp.matchManager, matchUuid)
		if err == nil {
			rp.incrementAnalytics(code)
		}
		return msg, err

	default:
		return req.HandleBoards(ctx, rp.matchManager, matchUuid)
	}
}
