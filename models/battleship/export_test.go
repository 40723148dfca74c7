package battleship

func (bmm *BattleshipMatchManager) HeldLocks() int {
	bmm.mu.Lock()
	defer bmm.mu.Unlock()
	return len(bmm.locks)
}
