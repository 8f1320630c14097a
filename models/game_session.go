package models

import (
	"encoding/json"
	"fmt"
	"time"

	"chess-tournament-system/chess"
)

// GameSession statuses. Everything except "active" is terminal.
// checkmate and stalemate are representable but the engine never
// detects them; they would only ever be recorded through an explicit
// end by the owner.
const (
	SessionActive      = "active"
	SessionCheckmate   = "checkmate"
	SessionStalemate   = "stalemate"
	SessionDraw        = "draw"
	SessionResignation = "resignation"
	SessionTimeout     = "timeout"
)

// GameSession is the live chess instance tied 1:1 to an active match.
// Board, move history and the draw-offer flag are independent typed
// columns rather than one multiplexed blob.
type GameSession struct {
	ID      string `json:"id" gorm:"primaryKey"`
	MatchID string `json:"match_id" gorm:"not null;uniqueIndex"`

	BoardJSON     string `json:"-" gorm:"type:text"`
	CurrentPlayer string `json:"current_player" gorm:"default:'white'"`
	GameStatus    string `json:"game_status" gorm:"default:'active'"`

	WhitePlayerID string `json:"white_player_id" gorm:"not null"`
	BlackPlayerID string `json:"black_player_id" gorm:"not null"`

	InitialSec        int `json:"initial_sec"`
	IncrementSec      int `json:"increment_sec"`
	WhiteRemainingSec int `json:"white_remaining_sec"`
	BlackRemainingSec int `json:"black_remaining_sec"`

	LastMoveAt time.Time `json:"last_move_at"`

	MovesJSON    string `json:"-" gorm:"type:text"`
	DrawOfferBy  string `json:"draw_offer_by,omitempty"`
	StreamActive bool   `json:"stream_active" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewGameSession creates a session on the standard initial position.
// White is always player1 of the owning match.
func NewGameSession(id, matchID, whiteID, blackID string, tc chess.TimeControl, now time.Time) *GameSession {
	s := &GameSession{
		ID:                id,
		MatchID:           matchID,
		CurrentPlayer:     chess.White,
		GameStatus:        SessionActive,
		WhitePlayerID:     whiteID,
		BlackPlayerID:     blackID,
		InitialSec:        tc.InitialSec,
		IncrementSec:      tc.IncrementSec,
		WhiteRemainingSec: tc.InitialSec,
		BlackRemainingSec: tc.InitialSec,
		LastMoveAt:        now,
	}
	s.setBoard(chess.NewBoard())
	return s
}

// Board decodes the persisted position.
func (s *GameSession) Board() (chess.Board, error) {
	var b chess.Board
	if err := json.Unmarshal([]byte(s.BoardJSON), &b); err != nil {
		return b, fmt.Errorf("decode board for session %s: %w", s.ID, err)
	}
	return b, nil
}

func (s *GameSession) setBoard(b chess.Board) {
	raw, _ := json.Marshal(b)
	s.BoardJSON = string(raw)
}

// Moves decodes the ordered move history.
func (s *GameSession) Moves() []string {
	if s.MovesJSON == "" {
		return nil
	}
	var moves []string
	_ = json.Unmarshal([]byte(s.MovesJSON), &moves)
	return moves
}

func (s *GameSession) appendMove(notation string) {
	moves := append(s.Moves(), notation)
	raw, _ := json.Marshal(moves)
	s.MovesJSON = string(raw)
}

// ColorOf maps a user id to their color, or "" for non-players.
func (s *GameSession) ColorOf(userID string) string {
	switch userID {
	case s.WhitePlayerID:
		return chess.White
	case s.BlackPlayerID:
		return chess.Black
	}
	return ""
}

// PlayerOf is the inverse of ColorOf.
func (s *GameSession) PlayerOf(color string) string {
	if color == chess.White {
		return s.WhitePlayerID
	}
	return s.BlackPlayerID
}

// CommitMove validates and applies one move by playerID at server time
// now: rules engine, then clock settlement for the mover only, then
// history append and turn flip. On any error the session is unchanged.
// Returns the move notation (e.g. "e2e4") on success.
func (s *GameSession) CommitMove(playerID string, from, to chess.Square, now time.Time) (string, error) {
	if s.GameStatus != SessionActive {
		return "", fmt.Errorf("%w: game session is %s", ErrInvalidState, s.GameStatus)
	}
	color := s.ColorOf(playerID)
	if color == "" {
		return "", fmt.Errorf("%w: user %s is not a player in this game", ErrAuthorizationDenied, playerID)
	}
	if color != s.CurrentPlayer {
		return "", fmt.Errorf("%w: it is not %s's turn", ErrAuthorizationDenied, playerID)
	}

	board, err := s.Board()
	if err != nil {
		return "", err
	}
	if !chess.ValidateMove(board, from, to, color) {
		return "", fmt.Errorf("%w: %s", ErrInvalidMove, chess.MoveNotation(from, to))
	}

	s.setBoard(chess.ApplyMove(board, from, to))
	charged := chess.ChargeMove(s.remaining(color), s.LastMoveAt, now, s.IncrementSec)
	if color == chess.White {
		s.WhiteRemainingSec = charged
	} else {
		s.BlackRemainingSec = charged
	}
	s.LastMoveAt = now

	notation := chess.MoveNotation(from, to)
	s.appendMove(notation)
	s.CurrentPlayer = chess.Opponent(color)
	// A committed move withdraws any standing draw offer.
	s.DrawOfferBy = ""
	return notation, nil
}

func (s *GameSession) remaining(color string) int {
	if color == chess.White {
		return s.WhiteRemainingSec
	}
	return s.BlackRemainingSec
}

// ResignBy ends the game by resignation. Returns the winner's user id,
// which is always the opponent of the resigning player.
func (s *GameSession) ResignBy(playerID string) (string, error) {
	if s.GameStatus != SessionActive {
		return "", fmt.Errorf("%w: game session is %s", ErrInvalidState, s.GameStatus)
	}
	color := s.ColorOf(playerID)
	if color == "" {
		return "", fmt.Errorf("%w: user %s is not a player in this game", ErrAuthorizationDenied, playerID)
	}
	s.GameStatus = SessionResignation
	return s.PlayerOf(chess.Opponent(color)), nil
}

// OfferDraw records a standing draw offer by playerID.
func (s *GameSession) OfferDraw(playerID string) error {
	if s.GameStatus != SessionActive {
		return fmt.Errorf("%w: game session is %s", ErrInvalidState, s.GameStatus)
	}
	if s.ColorOf(playerID) == "" {
		return fmt.Errorf("%w: user %s is not a player in this game", ErrAuthorizationDenied, playerID)
	}
	s.DrawOfferBy = playerID
	return nil
}

// AcceptDraw ends the game as a draw. Only the opponent of the player
// who offered can accept.
func (s *GameSession) AcceptDraw(playerID string) error {
	if s.GameStatus != SessionActive {
		return fmt.Errorf("%w: game session is %s", ErrInvalidState, s.GameStatus)
	}
	if s.ColorOf(playerID) == "" {
		return fmt.Errorf("%w: user %s is not a player in this game", ErrAuthorizationDenied, playerID)
	}
	if s.DrawOfferBy == "" || s.DrawOfferBy == playerID {
		return fmt.Errorf("%w: no draw offer from the opponent", ErrInvalidState)
	}
	s.GameStatus = SessionDraw
	s.DrawOfferBy = ""
	return nil
}

// FlagFallen recomputes the to-move player's clock at server time now.
// A client-claimed timeout is only honored when this returns true.
func (s *GameSession) FlagFallen(now time.Time) bool {
	if s.GameStatus != SessionActive {
		return false
	}
	return chess.RemainingAt(s.remaining(s.CurrentPlayer), s.LastMoveAt, now) == 0
}

// MarkTimeout finalizes a confirmed flag fall. Returns the winner's
// user id (the opponent of the player whose clock ran out).
func (s *GameSession) MarkTimeout(now time.Time) (string, error) {
	if !s.FlagFallen(now) {
		return "", fmt.Errorf("%w: %s still has time remaining", ErrInvalidState, s.CurrentPlayer)
	}
	loser := s.CurrentPlayer
	if loser == chess.White {
		s.WhiteRemainingSec = 0
	} else {
		s.BlackRemainingSec = 0
	}
	s.GameStatus = SessionTimeout
	return s.PlayerOf(chess.Opponent(loser)), nil
}
