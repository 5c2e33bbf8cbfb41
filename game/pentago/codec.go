package pentago

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode"

	"pentago/game"
)

type Codec struct{}

func (Codec) Name() string {
	return "pentago-twist"
}

func (Codec) EncodeState(s game.State) ([]byte, error) {
	ps, ok := s.(*State)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T as a pentago state", s)
	}
	return ps.bytes(), nil
}

func (Codec) DecodeState(data []byte) (game.State, error) {
	if len(data) < Size*Size+3 {
		return nil, fmt.Errorf("pentago state needs at least %d bytes, got %d", Size*Size+3, len(data))
	}
	s := New()
	for i := 0; i < Size*Size; i++ {
		p, err := cellPlayer(data[i])
		if err != nil {
			return nil, err
		}
		s.board[i/Size][i%Size] = p
	}
	s.turn = game.Player(data[Size*Size])
	s.winner = game.Player(data[Size*Size+1])
	number, n := binary.Uvarint(data[Size*Size+2:])
	if n <= 0 {
		return nil, fmt.Errorf("invalid pentago turn number")
	}
	s.number = int(number)
	return s, nil
}

func (Codec) EncodeMove(m game.Move) ([]byte, error) {
	pm, ok := m.(Move)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T as a pentago move", m)
	}
	return []byte{byte(pm.Row), byte(pm.Col), byte(pm.Quadrant), byte(pm.Twist)}, nil
}

func (Codec) DecodeMove(data []byte) (game.Move, error) {
	if len(data) != 4 {
		return nil, fmt.Errorf("pentago move needs 4 bytes, got %d", len(data))
	}
	m := Move{Row: int(data[0]), Col: int(data[1]), Quadrant: int(data[2]), Twist: Twist(data[3])}
	if !m.valid() {
		return nil, fmt.Errorf("pentago move %v is out of bounds", data)
	}
	return m, nil
}

func cellPlayer(b byte) (game.Player, error) {
	switch b {
	case 0:
		return game.Nobody, nil
	case 1:
		return game.White, nil
	case 2:
		return game.Black, nil
	default:
		return game.Nobody, fmt.Errorf("invalid pentago cell %d", b)
	}
}

// Parse reads 36 cells in row-major order ('w', 'b' or '.'; whitespace, '|' and '-' ignored).
// The turn number is the number of pieces on the board.
func Parse(board string, turn game.Player) (*State, error) {
	if turn != game.White && turn != game.Black {
		return nil, fmt.Errorf("invalid turn player %v", turn)
	}
	s := New()
	i := 0
	for _, ch := range board {
		if unicode.IsSpace(ch) || strings.ContainsRune("|-+", ch) {
			continue
		}
		if i >= Size*Size {
			return nil, fmt.Errorf("board has more than %d cells", Size*Size)
		}
		switch ch {
		case 'w', 'W':
			s.board[i/Size][i%Size] = game.White
			s.number++
		case 'b', 'B':
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
