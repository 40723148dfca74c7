package sqlc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	cerr "github.com/saeidalz13/gridstrike-backend/internal/error"
	mb "github.com/saeidalz13/gridstrike-backend/models/battleship"
)

// PostgresMatchStore keeps one row per match holding the encoded
// snapshot of its state.
type PostgresMatchStore struct {
	queries Querier
}

var _ mb.MatchStore = (*PostgresMatchStore)(nil)

func NewPostgresMatchStore(queries Querier) *PostgresMatchStore {
	return &PostgresMatchStore{queries: queries}
}

func (p *PostgresMatchStore) Load(ctx context.Context, matchUuid string) (mb.MatchState, error) {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	snapshot, err := p.queries.GetMatchSnapshot(ctx, matchUuid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mb.MatchState{}, cerr.ErrMatchNotExists(matchUuid)
		}
		return mb.MatchState{}, err
	}

	return mb.DecodeSnapshot(snapshot)
}

func (p *PostgresMatchStore) Save(ctx context.Context, matchUuid string, state mb.MatchState) error {
	snapshot, err := mb.EncodeSnapshot(state)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	return p.queries.UpsertMatchSnapshot(ctx, UpsertMatchSnapshotParams{ID: matchUuid, Snapshot: snapshot})
}

func (p *PostgresMatchStore) Delete(ctx context.Context, matchUuid string) error {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	return p.queries.DeleteMatch(ctx, matchUuid)
}

func (p *PostgresMatchStore) DeleteStale(ctx context.Context, updatedBefore time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	return p.queries.DeleteMatchesUpdatedBefore(ctx, updatedBefore)
}
