package battleship

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// A Command applies one transition to a match. It returns the next
// state and whether anything changed; unchanged states are not saved.
type Command func(MatchState) (MatchState, bool)

type MatchManager interface {
	CreateMatch(ctx context.Context, opts ...MatchOption) (string, MatchState, error)
	FetchMatch(ctx context.Context, matchUuid string) (MatchState, error)
	Execute(ctx context.Context, matchUuid string, cmd Command) (MatchState, error)
	TerminateMatch(ctx context.Context, matchUuid string) error
	CleanupStale(ctx context.Context, maxIdle time.Duration) (int64, error)
}

type matchLock struct {
	mu   sync.Mutex
	refs int
}

// BattleshipMatchManager serializes the commands of each match with a
// per match lock; different matches never wait on each other. A lock
// only lives while some caller holds or waits for it.
type BattleshipMatchManager struct {
	store       MatchStore
	defaultOpts []MatchOption
	locks       map[string]*matchLock
	mu          sync.Mutex
}

var _ MatchManager = (*BattleshipMatchManager)(nil)

func NewBattleshipMatchManager(store MatchStore, defaultOpts ...MatchOption) *BattleshipMatchManager {
	return &BattleshipMatchManager{
		store:       store,
		defaultOpts: defaultOpts,
		locks:       make(map[string]*matchLock, 10),
	}
}

func (bmm *BattleshipMatchManager) lockMatch(matchUuid string) *matchLock {
	bmm.mu.Lock()
	lock, prs := bmm.locks[matchUuid]
	if !prs {
		lock = &matchLock{}
		bmm.locks[matchUuid] = lock
	}
	lock.refs++
	bmm.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (bmm *BattleshipMatchManager) unlockMatch(matchUuid string, lock *matchLock) {
	lock.mu.Unlock()

	bmm.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(bmm.locks, matchUuid)
	}
	bmm.mu.Unlock()
}

func (bmm *BattleshipMatchManager) CreateMatch(ctx context.Context, opts ...MatchOption) (string, MatchState, error) {
	matchUuid := uuid.NewString()[:8]

	allOpts := make([]MatchOption, 0, len(bmm.defaultOpts)+len(opts))
	allOpts = append(allOpts, bmm.defaultOpts...)
	allOpts = append(allOpts, opts...)
	state := NewMatchState(allOpts...)

	if err := bmm.store.Save(ctx, matchUuid, state); err != nil {
		return "", MatchState{}, err
	}
	return matchUuid, state, nil
}

func (bmm *BattleshipMatchManager) FetchMatch(ctx context.Context, matchUuid string) (MatchState, error) {
	lock := bmm.lockMatch(matchUuid)
	defer bmm.unlockMatch(matchUuid, lock)

	return bmm.store.Load(ctx, matchUuid)
}

// Loads the match, applies cmd and saves the result if cmd changed
// it. Nothing else touches the match while cmd runs.
func (bmm *BattleshipMatchManager) Execute(ctx context.Context, matchUuid string, cmd Command) (MatchState, error) {
	lock := bmm.lockMatch(matchUuid)
	defer bmm.unlockMatch(matchUuid, lock)

	state, err := bmm.store.Load(ctx, matchUuid)
	if err != nil {
		return MatchState{}, err
	}

	next, changed := cmd(state)
	if !changed {
		return state, nil
	}
	if err := bmm.store.Save(ctx, matchUuid, next); err != nil {
		return MatchState{}, err
	}
	return next, nil
}

func (bmm *BattleshipMatchManager) TerminateMatch(ctx context.Context, matchUuid string) error {
	lock := bmm.lockMatch(matchUuid)
	defer bmm.unlockMatch(matchUuid, lock)

	return bmm.store.Delete(ctx, matchUuid)
}

// Deletes matches that saw no change for longer than maxIdle.
func (bmm *BattleshipMatchManager) CleanupStale(ctx context.Context, maxIdle time.Duration) (int64, error) {
	return bmm.store.DeleteStale(ctx, time.Now().Add(-maxIdle))
}

// Reset as a Command; it always changes the match.
func ResetCommand(state MatchState) (MatchState, bool) {
	return Reset(state), true
}
