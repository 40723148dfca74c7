package battleship

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encodes the match into the opaque blob kept by match stores.
func EncodeSnapshot(state MatchState) ([]byte, error) {
	data, err := msgpack.Marshal(&state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode match snapshot: %w", err)
	}
	return data, nil
}

func DecodeSnapshot(data []byte) (MatchState, error) {
	var state MatchState
	if err := msgpack.Unmarshal(data, &state); err != nil {
		return MatchState{}, fmt.Errorf("failed to decode match snapshot: %w", err)
	}

	for i, player := range state.Players {
		if player == nil || player.Grid == nil {
			return MatchState{}, fmt.Errorf("failed to decode match snapshot: player %d missing", i+1)
		}
	}
	return state, nil
}
