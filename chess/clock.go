package chess

import "time"

// TimeControl describes a per-player clock: initial budget plus an
// increment credited on every committed move.
type TimeControl struct {
	InitialSec   int `json:"initial_sec"`
	IncrementSec int `json:"increment_sec"`
}

// DefaultTimeControl is 10 minutes with a 5 second increment.
var DefaultTimeControl = TimeControl{InitialSec: 600, IncrementSec: 5}

// RemainingAt recomputes a running clock from its last authoritative
// value. Elapsed wall time since lastMove is floored to whole seconds
// and the result never goes below zero.
func RemainingAt(remainingSec int, lastMove, now time.Time) int {
	elapsed := int(now.Sub(lastMove) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	if remainingSec < elapsed {
		return 0
	}
	return remainingSec - elapsed
}

// ChargeMove settles the mover's clock at move-commit time: debit the
// elapsed seconds since the previous commit, then credit the increment.
// Only the mover is ever charged; the opponent's clock is untouched
// until their own commit.
func ChargeMove(remainingSec int, lastMove, now time.Time, incrementSec int) int {
	return RemainingAt(remainingSec, lastMove, now) + incrementSec
}
