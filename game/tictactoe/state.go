// Package tictactoe is a 3x3 game small enough to search exhaustively.
package tictactoe

import (
	"fmt"
	"strings"

	"pentago/game"
)

const Size = 3

type Move struct {
	Row int
	Col int
}

func (m Move) Cell() (row, col int) {
	return m.Row, m.Col
}

func (m Move) String() string {
	return fmt.Sprintf("%d %d", m.Row, m.Col)
}

// ParseMove reads the format produced by Move.String.
func ParseMove(s string) (Move, error) {
	var m Move
	if _, err := fmt.Sscanf(s, "%d %d", &m.Row, &m.Col); err != nil {
		return Move{}, fmt.Errorf("failed to parse move %q: %w", s, err)
	}
	if m.Row < 0 || m.Row >= Size || m.Col < 0 || m.Col >= Size {
		return Move{}, fmt.Errorf("move %q is out of bounds", s)
	}
	return m, nil
}

type State struct {
	board  [Size][Size]game.Player
	turn   game.Player
	number int
	winner game.Player
}

func New() *State {
	s := &State{turn: game.White, winner: game.Nobody}
	for r := range s.board {
		for c := range s.board[r] {
			s.board[r][c] = game.Nobody
		}
	}
	return s
}

// Parse reads 9 cells ('x' for White, 'o' for Black, '.' empty), whitespace ignored.
func Parse(board string, turn game.Player) (*State, error) {
	s := New()
	i := 0
	for _, ch := range board {
		if ch == ' ' || ch == '\n' || ch == '\t' {
			continue
		}
		if i >= Size*Size {
			return nil, fmt.Errorf("board has more than %d cells", Size*Size)
		}
		switch ch {
		case 'x':
			s.board[i/Size][i%Size] = game.White
			s.number++
		case 'o':
			s.board[i/Size][i%Size] = game.Black
			s.number++
		case '.':
		default:
			return nil, fmt.Errorf("invalid cell %q", ch)
		}
		i++
	}
	if i != Size*Size {
		return nil, fmt.Errorf("board has %d cells, want %d", i, Size*Size)
	}
	s.turn = turn
	s.winner = s.decide()
	return s, nil
}

func (s *State) Player() game.Player {
	return s.turn
}

func (s *State) Winner() game.Player {
	return s.winner
}

func (s *State) IsTerminal() bool {
	return s.winner != game.Nobody
}

func (s *State) Size() int {
	return Size
}

func (s *State) PieceAt(row, col int) game.Player {
	return s.board[row][col]
}

func (s *State) LegalMoves() []game.Move {
	if s.IsTerminal() {
		return nil
	}
	moves := []game.Move{}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if s.board[r][c] == game.Nobody {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

func (s *State) Play(move game.Move) game.State {
	m, ok := move.(Move)
	if !ok || s.IsTerminal() || m.Row < 0 || m.Row >= Size || m.Col < 0 || m.Col >= Size ||
		s.board[m.Row][m.Col] != game.Nobody {
		panic(fmt.Errorf("%w: %v", game.ErrIllegalMove, move))
	}
	next := *s
	next.board[m.Row][m.Col] = s.turn
	next.turn = s.turn.Opponent()
	next.number++
	next.winner = next.decide()
	return &next
}

func (s *State) decide() game.Player {
	lines := [8][3][2]int{
		{{0, 0}, {0, 1}, {0, 2}}, {{1, 0}, {1, 1}, {1, 2}}, {{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}}, {{0, 1}, {1, 1}, {2, 1}}, {{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}}, {{0, 2}, {1, 1}, {2, 0}},
	}
	for _, line := range lines {
		p := s.board[line[0][0]][line[0][1]]
		if p != game.Nobody && p == s.board[line[1][0]][line[1][1]] && p == s.board[line[2][0]][line[2][1]] {
			return p
		}
	}
	if s.number == Size*Size {
		return game.Draw
	}
	return game.Nobody
}

func (s *State) Hash() game.StateHash {
	h := game.StateHash(s.turn)*31 + game.StateHash(s.winner)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			h = h*3 + game.StateHash(cell(s.board[r][c]))
		}
	}
	return h*16 + game.StateHash(s.number)
}

func (s *State) Equal(other game.State) bool {
	o, ok := other.(*State)
	return ok && o != nil && *s == *o
}

func (s *State) Copy() game.State {
	next := *s
	return &next
}

func cell(p game.Player) int {
	switch p {
	case game.White:
		return 1
	case game.Black:
		return 2
	default:
		return 0
	}
}

func (s *State) String() string {
	var b strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			b.WriteByte(".xo"[cell(s.board[r][c])])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

type Codec struct{}

func (Codec) Name() string { return "tictactoe" }

func (Codec) EncodeState(st game.State) ([]byte, error) {
	s, ok := st.(*State)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T as a tictactoe state", st)
	}
	data := make([]byte, 0, Size*Size+3)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			data = append(data, byte(cell(s.board[r][c])))
		}
	}
	return append(data, byte(s.turn), byte(s.winner), byte(s.number)), nil
}

func (Codec) DecodeState(data []byte) (game.State, error) {
	if len(data) != Size*Size+3 {
		return nil, fmt.Errorf("tictactoe state needs %d bytes, got %d", Size*Size+3, len(data))
	}
	s := New()
	for i := 0; i < Size*Size; i++ {
		switch data[i] {
		case 1:
			s.board[i/Size][i%Size] = game.White
		case 2:
			s.board[i/Size][i%Size] = game.Black
		}
	}
	s.turn = game.Player(data[Size*Size])
	s.winner = game.Player(data[Size*Size+1])
	s.number = int(data[Size*Size+2])
	return s, nil
}

func (Codec) EncodeMove(mv game.Move) ([]byte, error) {
	m, ok := mv.(Move)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T as a tictactoe move", mv)
	}
	return []byte{byte(m.Row), byte(m.Col)}, nil
}

func (Codec) DecodeMove(data []byte) (game.Move, error) {
	if len(data) != 2 || data[0] >= Size || data[1] >= Size {
		return nil, fmt.Errorf("invalid tictactoe move %v", data)
	}
	return Move{Row: int(data[0]), Col: int(data[1])}, nil
}
