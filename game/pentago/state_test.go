package pentago

import (
	"testing"

	"pentago/game"

	"github.com/stretchr/testify/require"
)

func TestLegalMoves(t *testing.T) {
	t.Run("enumerating every cell, quadrant and twist on an empty board", func(t *testing.T) {
		s := New()

		moves := s.LegalMoves()

		require.Len(t, moves, Size*Size*8, "Every empty cell should offer 4 quadrants x 2 twists")
		require.Equal(t, Move{Row: 0, Col: 0, Quadrant: 0, Twist: Rotate}, moves[0], "Moves should be in row-major order")
	})

	t.Run("no moves once the game is decided", func(t *testing.T) {
		s, err := Parse(`
			wwwww.
			bbbb..
			......
			......
			......
			......`, game.Black)
		require.NoError(t, err)

		require.True(t, s.IsTerminal(), "Five white pieces in a row should end the game")
		require.Equal(t, game.White, s.Winner())
		require.Empty(t, s.LegalMoves(), "A terminal state should have no legal moves")
	})
}

func TestPlay(t *testing.T) {
	t.Run("placing then rotating the quadrant clockwise", func(t *testing.T) {
		s := New()

		next := s.Play(Move{Row: 0, Col: 0, Quadrant: 0, Twist: Rotate}).(*State)

		require.Equal(t, game.White, next.PieceAt(0, 2), "Top-left corner should rotate to top-right of the quadrant")
		require.Equal(t, game.Nobody, next.PieceAt(0, 0))
		require.Equal(t, game.Black, next.Player(), "Turn should pass to Black")
		require.Equal(t, 1, next.TurnNumber())
	})

	t.Run("placing then flipping the quadrant", func(t *testing.T) {
		s := New()

		next := s.Play(Move{Row: 4, Col: 3, Quadrant: 3, Twist: Flip}).(*State)

		require.Equal(t, game.White, next.PieceAt(4, 5), "Flip should mirror the quadrant left to right")
	})

	t.Run("never mutating the receiver", func(t *testing.T) {
		s := New()
		before := s.Copy()

		s.Play(Move{Row: 2, Col: 2, Quadrant: 1, Twist: Rotate})

		require.True(t, s.Equal(before), "Play should return a new state")
		require.Equal(t, before.Hash(), s.Hash())
	})

	t.Run("rejecting an occupied cell", func(t *testing.T) {
		s := New().Play(Move{Row: 1, Col: 1, Quadrant: 0, Twist: Rotate}).(*State)

		_, err := s.TryPlay(Move{Row: 1, Col: 1, Quadrant: 2, Twist: Flip})

		require.ErrorIs(t, err, game.ErrIllegalMove)
	})

	t.Run("declaring a draw when both colors have five in a row", func(t *testing.T) {
		s, err := Parse(`
			wwwww.
			......
			......
			bbbbb.
			......
			......`, game.White)
		require.NoError(t, err)

		require.Equal(t, game.Draw, s.Winner(), "Both colors with five in a row should be a draw")
		require.True(t, s.IsTerminal())
	})
}

func TestEquality(t *testing.T) {
	t.Run("same position reached by different orders", func(t *testing.T) {
		// Quadrant centers are fixed points of both twists
		a := New().
			Play(Move{Row: 1, Col: 1, Quadrant: 0, Twist: Rotate}).
			Play(Move{Row: 4, Col: 4, Quadrant: 3, Twist: Rotate}).
			Play(Move{Row: 1, Col: 4, Quadrant: 1, Twist: Flip}).
			Play(Move{Row: 4, Col: 1, Quadrant: 2, Twist: Flip})
		b := New().
			Play(Move{Row: 1, Col: 4, Quadrant: 1, Twist: Flip}).
			Play(Move{Row: 4, Col: 1, Quadrant: 2, Twist: Flip}).
			Play(Move{Row: 1, Col: 1, Quadrant: 0, Twist: Rotate}).
			Play(Move{Row: 4, Col: 4, Quadrant: 3, Twist: Rotate})

		require.True(t, a.Equal(b), "History should not matter")
		require.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("different turn player", func(t *testing.T) {
		a, err := Parse("w"+repeat('.', 35), game.White)
		require.NoError(t, err)
		b, err := Parse("w"+repeat('.', 35), game.Black)
		require.NoError(t, err)

		require.False(t, a.Equal(b))
	})
}

func TestCodec(t *testing.T) {
	codec := Codec{}
	s := New().
		Play(Move{Row: 3, Col: 4, Quadrant: 1, Twist: Flip}).
		Play(Move{Row: 2, Col: 1, Quadrant: 2, Twist: Rotate})

	data, err := codec.EncodeState(s)
	require.NoError(t, err)
	decoded, err := codec.DecodeState(data)
	require.NoError(t, err)
	require.True(t, s.Equal(decoded), "Decoded state should equal the original")

	move := Move{Row: 5, Col: 0, Quadrant: 3, Twist: Flip}
	data, err = codec.EncodeMove(move)
	require.NoError(t, err)
	decodedMove, err := codec.DecodeMove(data)
	require.NoError(t, err)
	require.Equal(t, move, decodedMove)

	_, err = codec.DecodeMove([]byte{9, 0, 0, 0})
	require.Error(t, err, "Out of bounds moves should be rejected")
}

func TestParseMove(t *testing.T) {
	m, err := ParseMove("1 2 3 flip")
	require.NoError(t, err)
	require.Equal(t, Move{Row: 1, Col: 2, Quadrant: 3, Twist: Flip}, m)
	require.Equal(t, "1 2 3 flip", m.String())

	_, err = ParseMove("1 2 7 rotate")
	require.Error(t, err)
}

func repeat(ch byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ch
	}
	return string(b)
}
