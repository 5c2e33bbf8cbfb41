package game

type Player int

const (
	White Player = iota
	Black
	Nobody
	Draw
)

// Opponent returns the other seat; Nobody and Draw have no opponent.
func (p Player) Opponent() Player {
	switch p {
	case White:
		return Black
	case Black:
		return White
	default:
		return p
	}
}

func (p Player) String() string {
	switch p {
	case White:
		return "white"
	case Black:
		return "black"
	case Nobody:
		return "nobody"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// ParsePlayer is the inverse of String for the two seats.
func ParsePlayer(s string) (Player, bool) {
	switch s {
	case "white", "w", "0":
		return White, true
	case "black", "b", "1":
		return Black, true
	default:
		return Nobody, false
	}
}
