package chess

import "testing"

func emptyBoard() Board {
	var b Board
	return b
}

func TestNewBoardInitialPosition(t *testing.T) {
	b := NewBoard()

	if p := b.At(Square{7, 4}); p == nil || p.Type != King || p.Color != White {
		t.Fatalf("e1 = %+v, want white king", p)
	}
	if p := b.At(Square{0, 3}); p == nil || p.Type != Queen || p.Color != Black {
		t.Fatalf("d8 = %+v, want black queen", p)
	}
	for col := 0; col < 8; col++ {
		if p := b.At(Square{6, col}); p == nil || p.Type != Pawn || p.Color != White {
			t.Fatalf("row 6 col %d = %+v, want white pawn", col, p)
		}
		if p := b.At(Square{1, col}); p == nil || p.Type != Pawn || p.Color != Black {
			t.Fatalf("row 1 col %d = %+v, want black pawn", col, p)
		}
	}
	for row := 2; row < 6; row++ {
		for col := 0; col < 8; col++ {
			if b[row][col] != nil {
				t.Fatalf("square %d,%d occupied in initial position", row, col)
			}
		}
	}
}

func TestSquareNotation(t *testing.T) {
	cases := []struct {
		sq   Square
		want string
	}{
		{Square{6, 4}, "e2"},
		{Square{4, 4}, "e4"},
		{Square{0, 0}, "a8"},
		{Square{7, 7}, "h1"},
	}
	for _, c := range cases {
		if got := c.sq.Notation(); got != c.want {
			t.Fatalf("notation(%v) = %q, want %q", c.sq, got, c.want)
		}
	}
	if got := MoveNotation(Square{6, 4}, Square{4, 4}); got != "e2e4" {
		t.Fatalf("move notation = %q, want e2e4", got)
	}
}

func TestValidateMoveBasicRejections(t *testing.T) {
	b := NewBoard()

	// Empty source.
	if ValidateMove(b, Square{4, 4}, Square{3, 4}, White) {
		t.Fatal("move from empty square accepted")
	}
	// Wrong color mover.
	if ValidateMove(b, Square{1, 0}, Square{2, 0}, White) {
		t.Fatal("white moving black pawn accepted")
	}
	// Destination occupied by own piece.
	if ValidateMove(b, Square{7, 0}, Square{6, 0}, White) {
		t.Fatal("rook capture of own pawn accepted")
	}
	// No-op move.
	if ValidateMove(b, Square{6, 0}, Square{6, 0}, White) {
		t.Fatal("zero-length move accepted")
	}
	// Off-board destination.
	if ValidateMove(b, Square{6, 0}, Square{6, -1}, White) {
		t.Fatal("off-board move accepted")
	}
}

func TestValidatePawnMoves(t *testing.T) {
	b := NewBoard()

	// Single and double advance from the start rank.
	if !ValidateMove(b, Square{6, 4}, Square{5, 4}, White) {
		t.Fatal("white pawn single advance rejected")
	}
	if !ValidateMove(b, Square{6, 4}, Square{4, 4}, White) {
		t.Fatal("white pawn double advance rejected")
	}
	if !ValidateMove(b, Square{1, 3}, Square{3, 3}, Black) {
		t.Fatal("black pawn double advance rejected")
	}

	// Double advance away from the start rank.
	moved := ApplyMove(b, Square{6, 4}, Square{5, 4})
	if ValidateMove(moved, Square{5, 4}, Square{3, 4}, White) {
		t.Fatal("double advance from non-start rank accepted")
	}

	// Backwards and sideways.
	if ValidateMove(moved, Square{5, 4}, Square{6, 4}, White) {
		t.Fatal("backward pawn move accepted")
	}
	if ValidateMove(moved, Square{5, 4}, Square{5, 3}, White) {
		t.Fatal("sideways pawn move accepted")
	}

	// Diagonal requires an enemy piece on the destination.
	if ValidateMove(b, Square{6, 4}, Square{5, 3}, White) {
		t.Fatal("diagonal move to empty square accepted")
	}
	capture := emptyBoard()
	capture[6][4] = &Piece{Type: Pawn, Color: White}
	capture[5][3] = &Piece{Type: Knight, Color: Black}
	if !ValidateMove(capture, Square{6, 4}, Square{5, 3}, White) {
		t.Fatal("diagonal capture rejected")
	}

	// Straight advance onto an occupied square.
	blocked := emptyBoard()
	blocked[6][4] = &Piece{Type: Pawn, Color: White}
	blocked[5][4] = &Piece{Type: Knight, Color: Black}
	if ValidateMove(blocked, Square{6, 4}, Square{5, 4}, White) {
		t.Fatal("straight advance onto occupied square accepted")
	}
}

func TestPawnDoubleAdvanceIgnoresInterveningSquare(t *testing.T) {
	// Inherited behavior: the jumped-over square is not checked.
	b := emptyBoard()
	b[6][4] = &Piece{Type: Pawn, Color: White}
	b[5][4] = &Piece{Type: Knight, Color: Black}
	if !ValidateMove(b, Square{6, 4}, Square{4, 4}, White) {
		t.Fatal("double advance over occupied square rejected")
	}
}

func TestValidateSlidingPieces(t *testing.T) {
	b := emptyBoard()
	b[4][4] = &Piece{Type: Rook, Color: White}
	b[4][6] = &Piece{Type: Pawn, Color: Black}

	if !ValidateMove(b, Square{4, 4}, Square{4, 6}, White) {
		t.Fatal("rook capture along clear rank rejected")
	}
	if ValidateMove(b, Square{4, 4}, Square{4, 7}, White) {
		t.Fatal("rook move through blocker accepted")
	}
	if ValidateMove(b, Square{4, 4}, Square{3, 5}, White) {
		t.Fatal("diagonal rook move accepted")
	}

	b[4][4] = &Piece{Type: Bishop, Color: White}
	b[2][2] = &Piece{Type: Pawn, Color: Black}
	if !ValidateMove(b, Square{4, 4}, Square{2, 2}, White) {
		t.Fatal("bishop capture along clear diagonal rejected")
	}
	if ValidateMove(b, Square{4, 4}, Square{1, 1}, White) {
		t.Fatal("bishop move through blocker accepted")
	}
	if ValidateMove(b, Square{4, 4}, Square{4, 2}, White) {
		t.Fatal("straight bishop move accepted")
	}

	b[4][4] = &Piece{Type: Queen, Color: White}
	if !ValidateMove(b, Square{4, 4}, Square{7, 4}, White) {
		t.Fatal("straight queen move rejected")
	}
	if !ValidateMove(b, Square{4, 4}, Square{6, 6}, White) {
		t.Fatal("diagonal queen move rejected")
	}
	if ValidateMove(b, Square{4, 4}, Square{1, 1}, White) {
		t.Fatal("queen move through blocker accepted")
	}
	if ValidateMove(b, Square{4, 4}, Square{2, 3}, White) {
		t.Fatal("knight-shaped queen move accepted")
	}
}

func TestValidateKnightJumpsBlockers(t *testing.T) {
	b := NewBoard()
	// g1 knight over the untouched pawn rank.
	if !ValidateMove(b, Square{7, 6}, Square{5, 5}, White) {
		t.Fatal("knight jump rejected")
	}
	if !ValidateMove(b, Square{7, 6}, Square{5, 7}, White) {
		t.Fatal("knight jump rejected")
	}
	if ValidateMove(b, Square{7, 6}, Square{5, 6}, White) {
		t.Fatal("non-L knight move accepted")
	}
}

func TestValidateKingAdjacency(t *testing.T) {
	b := emptyBoard()
	b[4][4] = &Piece{Type: King, Color: White}

	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			to := Square{4 + dr, 4 + dc}
			if !ValidateMove(b, Square{4, 4}, to, White) {
				t.Fatalf("adjacent king move to %v rejected", to)
			}
		}
	}
	if ValidateMove(b, Square{4, 4}, Square{4, 6}, White) {
		t.Fatal("two-square king move accepted")
	}
}

func TestApplyMoveCopyOnWrite(t *testing.T) {
	b := NewBoard()
	next := ApplyMove(b, Square{6, 4}, Square{4, 4})

	// Original board untouched.
	if b.At(Square{6, 4}) == nil || b.At(Square{4, 4}) != nil {
		t.Fatal("ApplyMove mutated the input board")
	}
	if b.At(Square{6, 4}).HasMoved {
		t.Fatal("ApplyMove flipped HasMoved on the input board")
	}

	if next.At(Square{6, 4}) != nil {
		t.Fatal("source square not cleared")
	}
	p := next.At(Square{4, 4})
	if p == nil || p.Type != Pawn || p.Color != White || !p.HasMoved {
		t.Fatalf("destination = %+v, want moved white pawn", p)
	}
}

func TestApplyMoveCapturesByOverwrite(t *testing.T) {
	b := emptyBoard()
	b[4][4] = &Piece{Type: Rook, Color: White}
	b[4][6] = &Piece{Type: Pawn, Color: Black}

	next := ApplyMove(b, Square{4, 4}, Square{4, 6})
	p := next.At(Square{4, 6})
	if p == nil || p.Type != Rook || p.Color != White {
		t.Fatalf("destination = %+v, want white rook", p)
	}
	if next.At(Square{4, 4}) != nil {
		t.Fatal("source square not cleared")
	}
}
