package models

import (
	"fmt"
	"time"
)

// Match statuses. completed and cancelled are terminal.
const (
	MatchScheduled = "scheduled"
	MatchActive    = "active"
	MatchCompleted = "completed"
	MatchCancelled = "cancelled"
)

// Match is one bracket slot: two assigned players inside a round.
// Matches are never deleted, only cancelled.
type Match struct {
	ID           string `json:"id" gorm:"primaryKey"`
	TournamentID string `json:"tournament_id" gorm:"not null;index;uniqueIndex:idx_round_slot"`
	Round        int    `json:"round" gorm:"not null;uniqueIndex:idx_round_slot"`
	MatchNumber  int    `json:"match_number" gorm:"not null;uniqueIndex:idx_round_slot"`

	Player1ID   string `json:"player1_id" gorm:"not null"`
	Player1Name string `json:"player1_name,omitempty"`
	Player2ID   string `json:"player2_id" gorm:"not null"`
	Player2Name string `json:"player2_name,omitempty"`

	Status       string     `json:"status" gorm:"default:'scheduled'"`
	WinnerID     string     `json:"winner_id,omitempty"`
	Player1Score *int64     `json:"player1_score,omitempty"`
	Player2Score *int64     `json:"player2_score,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`

	// Opaque client payload mirrored on every accepted move for
	// downstream consumers. The server does not inspect it.
	GamePayload string `json:"game_payload,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// HasPlayer reports whether userID is one of the two assigned players.
func (m *Match) HasPlayer(userID string) bool {
	return userID == m.Player1ID || userID == m.Player2ID
}

// OtherPlayer returns the opponent of userID, or "" if userID is not
// assigned to the match.
func (m *Match) OtherPlayer(userID string) string {
	switch userID {
	case m.Player1ID:
		return m.Player2ID
	case m.Player2ID:
		return m.Player1ID
	}
	return ""
}

// Begin moves the match from scheduled to active.
func (m *Match) Begin(now time.Time) error {
	if m.Status != MatchScheduled {
		return fmt.Errorf("%w: match is %s, want scheduled", ErrInvalidState, m.Status)
	}
	m.Status = MatchActive
	m.StartTime = &now
	return nil
}

// Complete finishes the match. It is allowed from active, and from
// scheduled for cancellation-style completion. winnerID may be empty
// (a draw or an unresolved outcome); when set it must be one of the
// two assigned players.
func (m *Match) Complete(winnerID string, p1Score, p2Score *int64, now time.Time) error {
	if m.Status != MatchActive && m.Status != MatchScheduled {
		return fmt.Errorf("%w: match is %s", ErrInvalidState, m.Status)
	}
	if winnerID != "" && !m.HasPlayer(winnerID) {
		return fmt.Errorf("%w: winner %s is not an assigned player", ErrInvalidState, winnerID)
	}
	m.Status = MatchCompleted
	m.WinnerID = winnerID
	m.Player1Score = p1Score
	m.Player2Score = p2Score
	m.EndTime = &now
	return nil
}

// Cancel marks a scheduled match cancelled.
func (m *Match) Cancel(now time.Time) error {
	if m.Status != MatchScheduled {
		return fmt.Errorf("%w: match is %s, want scheduled", ErrInvalidState, m.Status)
	}
	m.Status = MatchCancelled
	m.EndTime = &now
	return nil
}
