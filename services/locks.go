package services

import "sync"

// matchLocks serializes mutating lifecycle operations per match. Turn
// ownership alone is not enough: two near-simultaneous submissions by
// the same player could both pass the turn check before either
// commits. Locks are never removed; a finished match stops being
// locked and the entry is a single mutex.
var matchLocks sync.Map

// lockMatch acquires the mutex for matchID and returns its unlock.
func lockMatch(matchID string) func() {
	v, _ := matchLocks.LoadOrStore(matchID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
