package chess

// Piece types stored on the board.
const (
	Pawn   = "pawn"
	Rook   = "rook"
	Knight = "knight"
	Bishop = "bishop"
	Queen  = "queen"
	King   = "king"
)

// Player colors. White always maps to player1 of the owning match.
const (
	White = "white"
	Black = "black"
)

// Piece is a single tagged board cell. HasMoved is flipped the first
// time the piece moves and never reset.
type Piece struct {
	Type     string `json:"type"`
	Color    string `json:"color"`
	HasMoved bool   `json:"has_moved"`
}

// Board is the 8x8 grid. Row 0 is rank 8 (black's back rank),
// row 7 is rank 1. A nil cell is an empty square.
type Board [8][8]*Piece

// Square addresses a single board cell, row/col in [0,7].
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether the square is on the board.
func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

// Notation returns the algebraic square name, e.g. {6,4} -> "e2".
func (s Square) Notation() string {
	return string(rune('a'+s.Col)) + string(rune('8'-s.Row))
}

// MoveNotation is the concatenated from+to encoding used in move
// history, e.g. "e2e4".
func MoveNotation(from, to Square) string {
	return from.Notation() + to.Notation()
}

// Opponent returns the other color.
func Opponent(color string) string {
	if color == White {
		return Black
	}
	return White
}

var backRank = [8]string{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard initial chess position.
func NewBoard() Board {
	var b Board
	for col := 0; col < 8; col++ {
		b[0][col] = &Piece{Type: backRank[col], Color: Black}
		b[1][col] = &Piece{Type: Pawn, Color: Black}
		b[6][col] = &Piece{Type: Pawn, Color: White}
		b[7][col] = &Piece{Type: backRank[col], Color: White}
	}
	return b
}

// At returns the piece on the square, or nil.
func (b Board) At(s Square) *Piece {
	return b[s.Row][s.Col]
}
