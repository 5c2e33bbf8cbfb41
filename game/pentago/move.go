package pentago

import "fmt"

type Twist int

const (
	Rotate Twist = iota // 90 degrees clockwise
	Flip                // mirror across the quadrant's vertical axis
)

func (t Twist) String() string {
	if t == Flip {
		return "flip"
	}
	return "rotate"
}

// Move places a piece on (Row, Col) then twists Quadrant.
// Quadrants are numbered 0 top-left, 1 top-right, 2 bottom-left, 3 bottom-right.
type Move struct {
	Row      int
	Col      int
	Quadrant int
	Twist    Twist
}

func (m Move) Cell() (row, col int) {
	return m.Row, m.Col
}

func (m Move) String() string {
	return fmt.Sprintf("%d %d %d %s", m.Row, m.Col, m.Quadrant, m.Twist)
}

func (m Move) valid() bool {
	return m.Row >= 0 && m.Row < Size && m.Col >= 0 && m.Col < Size &&
		m.Quadrant >= 0 && m.Quadrant < 4 && (m.Twist == Rotate || m.Twist == Flip)
}

// ParseMove reads the format produced by Move.String.
func ParseMove(s string) (Move, error) {
	var m Move
	var twist string
	if _, err := fmt.Sscanf(s, "%d %d %d %s", &m.Row, &m.Col, &m.Quadrant, &twist); err != nil {
		return Move{}, fmt.Errorf("failed to parse move %q: %w", s, err)
	}
	switch twist {
	case "rotate":
		m.Twist = Rotate
	case "flip":
		m.Twist = Flip
	default:
		return Move{}, fmt.Errorf("unknown twist %q", twist)
	}
	if !m.valid() {
		return Move{}, fmt.Errorf("move %q is out of bounds", s)
	}
	return m, nil
}
