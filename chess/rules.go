package chess

// ValidateMove checks a single move against the board for the given
// mover. It enforces piece geometry and path blocking only: there is no
// notion of check, castling, en passant or promotion, and a move that
// leaves the mover's king capturable is accepted.
func ValidateMove(b Board, from, to Square, mover string) bool {
	if !from.InBounds() || !to.InBounds() || from == to {
		return false
	}
	piece := b.At(from)
	if piece == nil || piece.Color != mover {
		return false
	}
	if dst := b.At(to); dst != nil && dst.Color == mover {
		return false
	}

	dRow := to.Row - from.Row
	dCol := to.Col - from.Col

	switch piece.Type {
	case Pawn:
		return validatePawn(b, from, to, piece.Color)
	case Rook:
		return (dRow == 0 || dCol == 0) && pathClear(b, from, to)
	case Bishop:
		return abs(dRow) == abs(dCol) && pathClear(b, from, to)
	case Queen:
		return (dRow == 0 || dCol == 0 || abs(dRow) == abs(dCol)) && pathClear(b, from, to)
	case Knight:
		return (abs(dRow) == 2 && abs(dCol) == 1) || (abs(dRow) == 1 && abs(dCol) == 2)
	case King:
		return abs(dRow) <= 1 && abs(dCol) <= 1
	}
	return false
}

func validatePawn(b Board, from, to Square, color string) bool {
	dir := -1 // white moves toward row 0
	startRow := 6
	if color == Black {
		dir = 1
		startRow = 1
	}

	dRow := to.Row - from.Row
	dCol := to.Col - from.Col
	dst := b.At(to)

	// Straight advance, destination must be empty. The two-square
	// advance does not look at the intervening square.
	if dCol == 0 {
		if dRow == dir && dst == nil {
			return true
		}
		if dRow == 2*dir && from.Row == startRow && dst == nil {
			return true
		}
		return false
	}

	// Diagonal only as a capture.
	return abs(dCol) == 1 && dRow == dir && dst != nil && dst.Color != color
}

// pathClear reports whether every square strictly between from and to
// is empty. from and to must share a row, column or diagonal.
func pathClear(b Board, from, to Square) bool {
	stepRow := sign(to.Row - from.Row)
	stepCol := sign(to.Col - from.Col)
	cur := Square{Row: from.Row + stepRow, Col: from.Col + stepCol}
	for cur != to {
		if b.At(cur) != nil {
			return false
		}
		cur.Row += stepRow
		cur.Col += stepCol
	}
	return true
}

// ApplyMove returns a new board with the move applied: the piece is
// marked as moved, the source cleared and the destination overwritten
// (a capture is silent). The input board is left untouched.
func ApplyMove(b Board, from, to Square) Board {
	next := b
	moved := *b.At(from)
	moved.HasMoved = true
	next[to.Row][to.Col] = &moved
	next[from.Row][from.Col] = nil
	return next
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
