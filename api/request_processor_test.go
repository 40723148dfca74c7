package api_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saeidalz13/gridstrike-backend/api"
	mb "github.com/saeidalz13/gridstrike-backend/models/battleship"
	mc "github.com/saeidalz13/gridstrike-backend/models/connection"
)

var dialer = websocket.Dialer{
	HandshakeTimeout: 10 * time.Second,
}

type Test[T, K any] struct {
	name string

	expectedCode uint8

	reqPayload  T
	respPayload K
}

func newTestServer(t *testing.T, opts ...api.Option) (*api.Server, string) {
	t.Helper()

	opts = append([]api.Option{api.WithLogger(zap.NewNop())}, opts...)
	server := api.NewServer(opts...)

	ts := httptest.NewServer(server.Mux())
	t.Cleanup(ts.Close)

	return server, "ws" + strings.TrimPrefix(ts.URL, "http") + "/gridstrike"
}

// Dials the server and reads the session id it sends first.
func dial(t *testing.T, wsUrl string) (*websocket.Conn, string) {
	t.Helper()

	conn, _, err := dialer.Dial(wsUrl, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var respSessionId mc.Message[mc.RespSessionId]
	require.NoError(t, conn.ReadJSON(&respSessionId))
	require.Equal(t, mc.CodeSessionID, respSessionId.Code)
	require.NotEmpty(t, respSessionId.Payload.SessionID)

	return conn, respSessionId.Payload.SessionID
}

func roundTrip[K any](t *testing.T, conn *websocket.Conn, req any) mc.Message[K] {
	t.Helper()

	require.NoError(t, conn.WriteJSON(req))

	var resp mc.Message[K]
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func createMatch(t *testing.T, conn *websocket.Conn) mc.RespCreateMatch {
	t.Helper()

	resp := roundTrip[mc.RespCreateMatch](t, conn, mc.Message[mc.ReqCreateMatch]{
		Code:    mc.CodeCreateMatch,
		Payload: mc.ReqCreateMatch{NamePlayerOne: "Ann", NamePlayerTwo: "Ben"},
	})
	require.Equal(t, mc.CodeCreateMatch, resp.Code)
	require.Nil(t, resp.Error)
	require.NotEmpty(t, resp.Payload.MatchUuid)
	return resp.Payload
}

// Ship kind i goes to row i starting at column 0.
func placeFleet(t *testing.T, conn *websocket.Conn, player int) {
	t.Helper()

	for i, kind := range mb.ShipKinds() {
		resp := roundTrip[mc.RespPlaceShip](t, conn, mc.Message[mc.ReqPlaceShip]{
			Code: mc.CodePlaceShip,
			Payload: mc.ReqPlaceShip{
				Player:      player,
				ShipType:    string(kind),
				Row:         i,
				Col:         0,
				Orientation: string(mb.OrientationHorizontal),
			},
		})
		require.Nil(t, resp.Error)
		require.True(t, resp.Payload.Success)
		require.Equal(t, kind.DisplayName()+" placed successfully!", resp.Payload.Message)
	}
}

func confirmPlacement(t *testing.T, conn *websocket.Conn, player int) mc.RespConfirmPlacement {
	t.Helper()

	resp := roundTrip[mc.RespConfirmPlacement](t, conn, mc.Message[mc.ReqConfirmPlacement]{
		Code:    mc.CodeConfirmPlacement,
		Payload: mc.ReqConfirmPlacement{Player: player},
	})
	require.Nil(t, resp.Error)
	require.True(t, resp.Payload.Success)
	return resp.Payload
}

func attack(t *testing.T, conn *websocket.Conn, player, row, col int) mc.Message[mc.RespAttack] {
	t.Helper()

	return roundTrip[mc.RespAttack](t, conn, mc.Message[mc.ReqAttack]{
		Code:    mc.CodeAttack,
		Payload: mc.ReqAttack{Player: player, Row: row, Col: col},
	})
}

// Analytics rows are keyed by this address
func TestServerIpNet(t *testing.T) {
	server, _ := newTestServer(t)

	ipnet := server.RequestProcessor.GetIpNet()
	require.NotNil(t, ipnet.IP.To4())

	ones, bits := ipnet.Mask.Size()
	require.Equal(t, 32, ones)
	require.Equal(t, 32, bits)
}

func TestInvalidCode(t *testing.T) {
	_, wsUrl := newTestServer(t)
	conn, _ := dial(t, wsUrl)

	tests := []Test[mc.Message[mc.NoPayload], mc.Message[mc.NoPayload]]{
		{
			name:         "random invalid code",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](255),
		},
		{
			name:         "another random invalid code",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](200),
		},
		{
			name:         "server only code",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](mc.CodeSessionID),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := conn.WriteJSON(test.reqPayload); err != nil {
				t.Fatal(err)
			}

			if err := conn.ReadJSON(&test.respPayload); err != nil {
				t.Fatal(err)
			}

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected status: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
		})
	}
}

func TestSignalAbsent(t *testing.T) {
	_, wsUrl := newTestServer(t)
	conn, _ := dial(t, wsUrl)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"payload":{"player":1}}`)))

	var resp mc.Message[mc.NoPayload]
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, mc.CodeSignalAbsent, resp.Code)
	require.NotNil(t, resp.Error)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, mc.CodeSignalAbsent, resp.Code)
}

func TestNoMatch(t *testing.T) {
	_, wsUrl := newTestServer(t)
	conn, _ := dial(t, wsUrl)

	for _, code := range []uint8{mc.CodePlaceShip, mc.CodeConfirmPlacement, mc.CodeAttack, mc.CodeGetState, mc.CodeReset, mc.CodeBoards} {
		resp := roundTrip[mc.NoPayload](t, conn, mc.NewSignal(code))
		require.Equal(t, mc.CodeNoMatch, resp.Code, "code %d", code)
		require.NotNil(t, resp.Error)
	}
}

func TestCreateMatch(t *testing.T) {
	server, wsUrl := newTestServer(t)
	conn, _ := dial(t, wsUrl)

	created := createMatch(t, conn)
	require.Equal(t, mb.PhaseSetupP1, created.State.Phase)
	require.Equal(t, mb.PlayerOne, created.State.CurrentPlayer)
	require.Equal(t, "Player 1: Place your ships", created.State.Message)

	state, err := server.MatchManager.FetchMatch(context.Background(), created.MatchUuid)
	require.NoError(t, err)
	require.Equal(t, "Ann", state.Player(mb.PlayerOne).Name)
	require.Equal(t, "Ben", state.Player(mb.PlayerTwo).Name)

	// Without names the defaults are used
	resp := roundTrip[mc.RespCreateMatch](t, conn, mc.NewSignal(mc.CodeCreateMatch))
	require.Nil(t, resp.Error)
	require.NotEqual(t, created.MatchUuid, resp.Payload.MatchUuid)

	state, err = server.MatchManager.FetchMatch(context.Background(), resp.Payload.MatchUuid)
	require.NoError(t, err)
	require.Equal(t, "Player 1", state.Player(mb.PlayerOne).Name)
}

func TestPlaceShipRejected(t *testing.T) {
	_, wsUrl := newTestServer(t)
	conn, _ := dial(t, wsUrl)
	createMatch(t, conn)

	tests := []Test[mc.ReqPlaceShip, string]{
		{name: "out of bounds", reqPayload: mc.ReqPlaceShip{Player: 1, ShipType: "destroyer", Row: 0, Col: 9, Orientation: "horizontal"}, respPayload: "Cannot place ship at this position"},
		{name: "unknown kind", reqPayload: mc.ReqPlaceShip{Player: 1, ShipType: "rowboat", Row: 0, Col: 0, Orientation: "horizontal"}, respPayload: "Unknown ship type"},
		{name: "bad orientation", reqPayload: mc.ReqPlaceShip{Player: 1, ShipType: "destroyer", Row: 0, Col: 0, Orientation: "diagonal"}, respPayload: "Invalid orientation"},
		{name: "wrong phase", reqPayload: mc.ReqPlaceShip{Player: 2, ShipType: "destroyer", Row: 0, Col: 0, Orientation: "horizontal"}, respPayload: "Cannot do that now"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp := roundTrip[mc.RespPlaceShip](t, conn, mc.Message[mc.ReqPlaceShip]{Code: mc.CodePlaceShip, Payload: test.reqPayload})
			require.Equal(t, mc.CodePlaceShip, resp.Code)
			require.NotNil(t, resp.Error)
			require.False(t, resp.Payload.Success)
			require.Equal(t, test.respPayload, resp.Error.Message)
		})
	}
}

func TestFullGame(t *testing.T) {
	_, wsUrl := newTestServer(t)
	conn, _ := dial(t, wsUrl)
	createMatch(t, conn)

	placeFleet(t, conn, mb.PlayerOne)
	require.Equal(t, mb.PhaseSetupP2, confirmPlacement(t, conn, mb.PlayerOne).Phase)

	placeFleet(t, conn, mb.PlayerTwo)
	require.Equal(t, mb.PhaseP1Turn, confirmPlacement(t, conn, mb.PlayerTwo).Phase)

	wrongTurn := attack(t, conn, mb.PlayerTwo, 0, 0)
	require.NotNil(t, wrongTurn.Error)
	require.False(t, wrongTurn.Payload.Valid)
	require.Equal(t, "Not your turn!", wrongTurn.Payload.Message)
	require.Equal(t, mb.PlayerOne, wrongTurn.Payload.NextPlayer)

	var (
		last   mc.Message[mc.RespAttack]
		misses int
	)
	for i, kind := range mb.ShipKinds() {
		length, err := mb.LengthOf(kind)
		require.NoError(t, err)

		for col := 0; col < length; col++ {
			last = attack(t, conn, mb.PlayerOne, i, col)
			require.Nil(t, last.Error)
			require.True(t, last.Payload.Valid)
			require.True(t, last.Payload.Hit)
			if last.Payload.GameOver {
				break
			}

			// Player two only fires at the empty lower half
			answer := attack(t, conn, mb.PlayerTwo, 5+misses/10, misses%10)
			require.Nil(t, answer.Error)
			require.False(t, answer.Payload.Hit)
			require.Equal(t, "Miss!", answer.Payload.Message)
			require.Equal(t, mb.PlayerOne, answer.Payload.NextPlayer)
			misses++
		}
	}

	require.True(t, last.Payload.GameOver)
	require.True(t, last.Payload.Sunk)
	require.Equal(t, mb.PlayerOne, last.Payload.Winner)
	require.Equal(t, "Player 1 wins the game!", last.Payload.Message)

	state := roundTrip[mb.StateView](t, conn, mc.NewSignal(mc.CodeGetState))
	require.Nil(t, state.Error)
	require.Equal(t, mb.PhaseGameOver, state.Payload.Phase)
	require.True(t, state.Payload.GameOver)

	boards := roundTrip[mc.RespBoards](t, conn, mc.Message[mc.ReqBoards]{Code: mc.CodeBoards, Payload: mc.ReqBoards{Player: mb.PlayerOne}})
	require.Nil(t, boards.Error)
	require.Equal(t, mb.FleetCells, strings.Count(strings.Join(boards.Payload.Boards.OpponentBoard, ""), "X"))
	require.Zero(t, strings.Count(strings.Join(boards.Payload.Boards.OpponentBoard, ""), "S"))
	require.Equal(t, misses, strings.Count(strings.Join(boards.Payload.Boards.OwnBoard, ""), "O"))

	reset := roundTrip[mb.StateView](t, conn, mc.NewSignal(mc.CodeReset))
	require.Nil(t, reset.Error)
	require.Equal(t, mb.PhaseSetupP1, reset.Payload.Phase)
	require.False(t, reset.Payload.GameOver)
	require.Equal(t, mb.NoWinner, reset.Payload.Winner)
}

func TestResumeMatch(t *testing.T) {
	_, wsUrl := newTestServer(t)
	conn, _ := dial(t, wsUrl)
	created := createMatch(t, conn)
	placeFleet(t, conn, mb.PlayerOne)
	require.NoError(t, conn.Close())

	other, _ := dial(t, wsUrl)
	resp := roundTrip[mc.RespMatchResumed](t, other, mc.Message[mc.ReqResumeMatch]{
		Code:    mc.CodeMatchResumed,
		Payload: mc.ReqResumeMatch{MatchUuid: created.MatchUuid},
	})
	require.Nil(t, resp.Error)
	require.Equal(t, created.MatchUuid, resp.Payload.MatchUuid)
	require.Equal(t, mb.PhaseSetupP1, resp.Payload.State.Phase)

	require.Equal(t, mb.PhaseSetupP2, confirmPlacement(t, other, mb.PlayerOne).Phase)

	missing := roundTrip[mc.RespMatchResumed](t, other, mc.Message[mc.ReqResumeMatch]{
		Code:    mc.CodeMatchResumed,
		Payload: mc.ReqResumeMatch{MatchUuid: "nope"},
	})
	require.NotNil(t, missing.Error)
	require.Equal(t, "match not found", missing.Error.Message)
}

func TestReconnectWithUnknownSession(t *testing.T) {
	_, wsUrl := newTestServer(t)

	conn, _, err := dialer.Dial(wsUrl+"?"+api.URLQuerySessionIDKeyword+"=unknown", nil)
	require.NoError(t, err)
	defer conn.Close()

	var resp mc.Message[mc.NoPayload]
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, mc.CodeReceivedInvalidSessionID, resp.Code)
}
