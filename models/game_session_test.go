package models

import (
	"errors"
	"testing"
	"time"

	"chess-tournament-system/chess"
)

var sessionStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestSession() *GameSession {
	return NewGameSession("s1", "m1", "alice", "bob", chess.DefaultTimeControl, sessionStart)
}

func TestNewGameSessionDefaults(t *testing.T) {
	s := newTestSession()

	if s.CurrentPlayer != chess.White || s.GameStatus != SessionActive {
		t.Fatalf("turn=%s status=%s, want white/active", s.CurrentPlayer, s.GameStatus)
	}
	if s.WhiteRemainingSec != 600 || s.BlackRemainingSec != 600 || s.IncrementSec != 5 {
		t.Fatalf("clocks %d/%d inc %d, want 600/600 inc 5",
			s.WhiteRemainingSec, s.BlackRemainingSec, s.IncrementSec)
	}

	board, err := s.Board()
	if err != nil {
		t.Fatalf("board decode error: %v", err)
	}
	want := chess.NewBoard()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			got, exp := board[row][col], want[row][col]
			if (got == nil) != (exp == nil) {
				t.Fatalf("square %d,%d = %+v, want %+v", row, col, got, exp)
			}
			if got != nil && (got.Type != exp.Type || got.Color != exp.Color) {
				t.Fatalf("square %d,%d = %+v, want %+v", row, col, got, exp)
			}
		}
	}
}

func TestCommitMoveFlow(t *testing.T) {
	s := newTestSession()
	now := sessionStart.Add(12 * time.Second)

	notation, err := s.CommitMove("alice", chess.Square{Row: 6, Col: 4}, chess.Square{Row: 4, Col: 4}, now)
	if err != nil {
		t.Fatalf("commit error: %v", err)
	}
	if notation != "e2e4" {
		t.Fatalf("notation = %q, want e2e4", notation)
	}
	if s.CurrentPlayer != chess.Black {
		t.Fatalf("turn = %s, want black", s.CurrentPlayer)
	}
	// 600 - 12 + 5
	if s.WhiteRemainingSec != 593 {
		t.Fatalf("white remaining = %d, want 593", s.WhiteRemainingSec)
	}
	if s.BlackRemainingSec != 600 {
		t.Fatalf("black remaining = %d, want 600 (untouched)", s.BlackRemainingSec)
	}
	if !s.LastMoveAt.Equal(now) {
		t.Fatalf("last move at = %v, want %v", s.LastMoveAt, now)
	}
	if moves := s.Moves(); len(moves) != 1 || moves[0] != "e2e4" {
		t.Fatalf("moves = %v, want [e2e4]", moves)
	}

	// Same player again: not their turn.
	_, err = s.CommitMove("alice", chess.Square{Row: 4, Col: 4}, chess.Square{Row: 3, Col: 4}, now)
	if !errors.Is(err, ErrAuthorizationDenied) {
		t.Fatalf("out-of-turn error = %v, want authorization denied", err)
	}

	// Black replies.
	later := now.Add(8 * time.Second)
	notation, err = s.CommitMove("bob", chess.Square{Row: 1, Col: 4}, chess.Square{Row: 3, Col: 4}, later)
	if err != nil {
		t.Fatalf("black commit error: %v", err)
	}
	if notation != "e7e5" {
		t.Fatalf("notation = %q, want e7e5", notation)
	}
	if s.CurrentPlayer != chess.White {
		t.Fatalf("turn = %s, want white", s.CurrentPlayer)
	}
	if s.BlackRemainingSec != 597 {
		t.Fatalf("black remaining = %d, want 597", s.BlackRemainingSec)
	}
	if s.WhiteRemainingSec != 593 {
		t.Fatalf("white remaining = %d, want 593 (untouched)", s.WhiteRemainingSec)
	}
}

func TestCommitMoveRejections(t *testing.T) {
	s := newTestSession()
	now := sessionStart.Add(time.Second)

	if _, err := s.CommitMove("mallory", chess.Square{Row: 6, Col: 4}, chess.Square{Row: 4, Col: 4}, now); !errors.Is(err, ErrAuthorizationDenied) {
		t.Fatalf("spectator move error = %v, want authorization denied", err)
	}

	// Illegal geometry.
	if _, err := s.CommitMove("alice", chess.Square{Row: 6, Col: 4}, chess.Square{Row: 3, Col: 4}, now); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("illegal move error = %v, want invalid move", err)
	}
	// Rejection leaves the session untouched.
	if s.CurrentPlayer != chess.White || s.WhiteRemainingSec != 600 || len(s.Moves()) != 0 {
		t.Fatal("session mutated by rejected move")
	}

	s.GameStatus = SessionResignation
	if _, err := s.CommitMove("alice", chess.Square{Row: 6, Col: 4}, chess.Square{Row: 4, Col: 4}, now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("move on finished game error = %v, want invalid state", err)
	}
}

func TestResignByNeverWinsItself(t *testing.T) {
	s := newTestSession()

	winner, err := s.ResignBy("alice")
	if err != nil {
		t.Fatalf("resign error: %v", err)
	}
	if winner != "bob" {
		t.Fatalf("winner = %s, want bob", winner)
	}
	if s.GameStatus != SessionResignation {
		t.Fatalf("status = %s, want resignation", s.GameStatus)
	}

	if _, err := s.ResignBy("bob"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("resign on finished game error = %v, want invalid state", err)
	}

	s2 := newTestSession()
	if winner, _ := s2.ResignBy("bob"); winner != "alice" {
		t.Fatalf("winner = %s, want alice", winner)
	}

	s3 := newTestSession()
	if _, err := s3.ResignBy("mallory"); !errors.Is(err, ErrAuthorizationDenied) {
		t.Fatalf("spectator resign error = %v, want authorization denied", err)
	}
}

func TestDrawOfferAndAccept(t *testing.T) {
	s := newTestSession()

	if err := s.AcceptDraw("bob"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("accept without offer error = %v, want invalid state", err)
	}

	if err := s.OfferDraw("alice"); err != nil {
		t.Fatalf("offer error: %v", err)
	}
	if err := s.AcceptDraw("alice"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("self-accept error = %v, want invalid state", err)
	}
	if err := s.AcceptDraw("bob"); err != nil {
		t.Fatalf("accept error: %v", err)
	}
	if s.GameStatus != SessionDraw {
		t.Fatalf("status = %s, want draw", s.GameStatus)
	}
}

func TestCommitMoveClearsDrawOffer(t *testing.T) {
	s := newTestSession()
	if err := s.OfferDraw("bob"); err != nil {
		t.Fatalf("offer error: %v", err)
	}
	if _, err := s.CommitMove("alice", chess.Square{Row: 6, Col: 4}, chess.Square{Row: 4, Col: 4}, sessionStart.Add(time.Second)); err != nil {
		t.Fatalf("commit error: %v", err)
	}
	if s.DrawOfferBy != "" {
		t.Fatalf("draw offer = %q, want withdrawn", s.DrawOfferBy)
	}
}

func TestTimeoutConfirmation(t *testing.T) {
	s := newTestSession()

	// Client claim before the flag actually falls is refused.
	early := sessionStart.Add(30 * time.Second)
	if s.FlagFallen(early) {
		t.Fatal("flag reported fallen with time remaining")
	}
	if _, err := s.MarkTimeout(early); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("early timeout error = %v, want invalid state", err)
	}
	if s.GameStatus != SessionActive {
		t.Fatalf("status = %s, session mutated by refused claim", s.GameStatus)
	}

	// White (to move) runs out after 600s.
	late := sessionStart.Add(601 * time.Second)
	if !s.FlagFallen(late) {
		t.Fatal("flag not reported fallen after clock exhaustion")
	}
	winner, err := s.MarkTimeout(late)
	if err != nil {
		t.Fatalf("timeout error: %v", err)
	}
	if winner != "bob" {
		t.Fatalf("winner = %s, want bob", winner)
	}
	if s.GameStatus != SessionTimeout || s.WhiteRemainingSec != 0 {
		t.Fatalf("status=%s white=%d, want timeout/0", s.GameStatus, s.WhiteRemainingSec)
	}
}
