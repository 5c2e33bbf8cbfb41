// Package pentago implements Pentago-Twist: a 6x6 board of four 3x3 quadrants where each move
// places a piece and then rotates or flips one quadrant. Five in a row wins.
package pentago

import (
	"encoding/binary"
	"hash/fnv"
	"strings"

	"pentago/game"
)

const (
	Size     = 6
	quadSize = 3
	winRun   = 5
)

// State is a value type; Play returns a new State and never mutates the receiver.
type State struct {
	board  [Size][Size]game.Player
	turn   game.Player
	number int // plies played
	winner game.Player
}

// New returns the empty starting board with White to move.
func New() *State {
	s := &State{turn: game.White, winner: game.Nobody}
	for r := range s.board {
		for c := range s.board[r] {
			s.board[r][c] = game.Nobody
		}
	}
	return s
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

func (s *State) TurnNumber() int {
	return s.number
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
	moves := make([]game.Move, 0, (Size*Size-s.number)*8)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if s.board[r][c] != game.Nobody {
				continue
			}
			for q := 0; q < 4; q++ {
				moves = append(moves,
					Move{Row: r, Col: c, Quadrant: q, Twist: Rotate},
					Move{Row: r, Col: c, Quadrant: q, Twist: Flip},
				)
			}
		}
	}
	return moves
}

// Play panics on an illegal move; the searchers only play moves from LegalMoves.
func (s *State) Play(move game.Move) game.State {
	next, err := s.apply(move)
	if err != nil {
		panic(err)
	}
	return next
}

// TryPlay is Play for moves coming from outside the engine.
func (s *State) TryPlay(move game.Move) (*State, error) {
	return s.apply(move)
}

func (s *State) apply(move game.Move) (*State, error) {
	m, ok := move.(Move)
	if !ok || !m.valid() || s.IsTerminal() || s.board[m.Row][m.Col] != game.Nobody {
		return nil, game.ErrIllegalMove
	}

	next := *s
	next.board[m.Row][m.Col] = s.turn
	next.twist(m.Quadrant, m.Twist)
	next.number++
	next.turn = s.turn.Opponent()
	next.winner = next.decide()
	return &next, nil
}

func (s *State) twist(quadrant int, t Twist) {
	r0, c0 := (quadrant/2)*quadSize, (quadrant%2)*quadSize
	var old [quadSize][quadSize]game.Player
	for r := 0; r < quadSize; r++ {
		for c := 0; c < quadSize; c++ {
			old[r][c] = s.board[r0+r][c0+c]
		}
	}
	for r := 0; r < quadSize; r++ {
		for c := 0; c < quadSize; c++ {
			if t == Rotate {
				s.board[r0+r][c0+c] = old[quadSize-1-c][r]
			} else {
				s.board[r0+r][c0+c] = old[r][quadSize-1-c]
			}
		}
	}
}

// decide checks both colors since a twist can complete the opponent's line too
func (s *State) decide() game.Player {
	white, black := s.hasRun(game.White), s.hasRun(game.Black)
	switch {
	case white && black:
		return game.Draw
	case white:
		return game.White
	case black:
		return game.Black
	case s.number == Size*Size:
		return game.Draw
	default:
		return game.Nobody
	}
}

func (s *State) hasRun(p game.Player) bool {
	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if s.board[r][c] != p {
				continue
			}
			for _, d := range dirs {
				n := 1
				for n < winRun {
					rr, cc := r+d[0]*n, c+d[1]*n
					if rr < 0 || rr >= Size || cc < 0 || cc >= Size || s.board[rr][cc] != p {
						break
					}
					n++
				}
				if n == winRun {
					return true
				}
			}
		}
	}
	return false
}

func (s *State) Hash() game.StateHash {
	h := fnv.New64a()
	h.Write(s.bytes())
	return game.StateHash(h.Sum64())
}

func (s *State) Equal(other game.State) bool {
	o, ok := other.(*State)
	if !ok || o == nil {
		return false
	}
	return s.board == o.board && s.turn == o.turn && s.winner == o.winner && s.number == o.number
}

func (s *State) Copy() game.State {
	next := *s
	return &next
}

// bytes is the canonical encoding shared by Hash and the codec
func (s *State) bytes() []byte {
	buf := make([]byte, 0, Size*Size+2+binary.MaxVarintLen64)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			buf = append(buf, cellByte(s.board[r][c]))
		}
	}
	buf = append(buf, byte(s.turn), byte(s.winner))
	return binary.AppendUvarint(buf, uint64(s.number))
}

func cellByte(p game.Player) byte {
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
		if r == quadSize {
			b.WriteString("---+---\n")
		}
		for c := 0; c < Size; c++ {
			if c == quadSize {
				b.WriteByte('|')
			}
			b.WriteByte(symbol(s.board[r][c]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func symbol(p game.Player) byte {
	switch p {
	case game.White:
		return 'w'
	case game.Black:
		return 'b'
	default:
		return '.'
	}
}
