package game

import "errors"

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrNoLegalMoves  = errors.New("no legal moves in a non-terminal state")
	ErrTerminalState = errors.New("state is terminal")
)

// Move is a comparable value; two moves are the same move iff they are ==.
type Move interface {
	String() string
}

type StateHash uint64

// State should be immutable - operations on State always return a new copy
type State interface {
	// Player is the player to move
	Player() Player
	// LegalMoves is ordered and empty iff the game is over
	LegalMoves() []Move
	Play(Move) State
	IsTerminal() bool
	// Winner is Nobody until the game is over, then a player or Draw
	Winner() Player
	Hash() StateHash
	// Equal compares board contents, turn player, winner and turn number, never history
	Equal(State) bool
	Copy() State
}

// Grid is implemented by states played on a square board.
type Grid interface {
	Size() int
	PieceAt(row, col int) Player
}

// Placement is implemented by moves that put a piece on a single cell.
type Placement interface {
	Cell() (row, col int)
}

// Codec converts states and moves of one game to and from bytes for the opening book.
type Codec interface {
	Name() string
	EncodeState(State) ([]byte, error)
	DecodeState([]byte) (State, error)
	EncodeMove(Move) ([]byte, error)
	DecodeMove([]byte) (Move, error)
}
