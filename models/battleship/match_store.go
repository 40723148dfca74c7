package battleship

import (
	"context"
	"sync"
	"time"

	cerr "github.com/saeidalz13/gridstrike-backend/internal/error"
)

// MatchStore keeps match snapshots between commands. Load returns
// an error wrapping cerr.ErrMatchNotFound for unknown ids.
type MatchStore interface {
	Load(ctx context.Context, matchUuid string) (MatchState, error)
	Save(ctx context.Context, matchUuid string, state MatchState) error
	Delete(ctx context.Context, matchUuid string) error
	DeleteStale(ctx context.Context, updatedBefore time.Time) (int64, error)
}

// In-process store. Snapshots are kept encoded so a caller can
// never alias the stored state.
type MemoryMatchStore struct {
	snapshots map[string][]byte
	updatedAt map[string]time.Time
	mu        sync.RWMutex
}

var _ MatchStore = (*MemoryMatchStore)(nil)

func NewMemoryMatchStore() *MemoryMatchStore {
	return &MemoryMatchStore{
		snapshots: make(map[string][]byte, 10),
		updatedAt: make(map[string]time.Time, 10),
	}
}

func (mms *MemoryMatchStore) Load(_ context.Context, matchUuid string) (MatchState, error) {
	mms.mu.RLock()
	data, prs := mms.snapshots[matchUuid]
	mms.mu.RUnlock()
	if !prs {
		return MatchState{}, cerr.ErrMatchNotExists(matchUuid)
	}

	return DecodeSnapshot(data)
}

func (mms *MemoryMatchStore) Save(_ context.Context, matchUuid string, state MatchState) error {
	data, err := EncodeSnapshot(state)
	if err != nil {
		return err
	}

	mms.mu.Lock()
	mms.snapshots[matchUuid] = data
	mms.updatedAt[matchUuid] = time.Now()
	mms.mu.Unlock()
	return nil
}

func (mms *MemoryMatchStore) Delete(_ context.Context, matchUuid string) error {
	mms.mu.Lock()
	delete(mms.snapshots, matchUuid)
	delete(mms.updatedAt, matchUuid)
	mms.mu.Unlock()
	return nil
}

func (mms *MemoryMatchStore) DeleteStale(_ context.Context, updatedBefore time.Time) (int64, error) {
	mms.mu.Lock()
	defer mms.mu.Unlock()

	var deleted int64
	for matchUuid, updatedAt := range mms.updatedAt {
		if updatedAt.Before(updatedBefore) {
			delete(mms.snapshots, matchUuid)
			delete(mms.updatedAt, matchUuid)
			deleted++
		}
	}
	return deleted, nil
}

func (mms *MemoryMatchStore) Len() int {
	mms.mu.RLock()
	defer mms.mu.RUnlock()
	return len(mms.snapshots)
}
