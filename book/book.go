// Package book persists searched trees so that later games can start from a trained root.
package book

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// CurrentVersion is the only schema version Decode accepts.
const CurrentVersion = 1

var (
	ErrNotFound       = errors.New("book not found")
	ErrVersion        = errors.New("unsupported book version")
	ErrMalformedBook  = errors.New("malformed book")
	ErrUnknownBackend = errors.New("unknown book backend")
)

// Book is a tree in pre-order, root first.
type Book struct {
	Version   int       `bson:"version"`
	Game      string    `bson:"game"`
	CreatedAt time.Time `bson:"created_at"`
	Nodes     []Node    `bson:"nodes"`
}

// Node refers to its parent by position in Book.Nodes; the root has Parent -1 and no move.
type Node struct {
	Parent   int     `bson:"parent"`
	Move     []byte  `bson:"move,omitempty"`
	State    []byte  `bson:"state"`
	Visits   int     `bson:"visits"`
	WinScore float64 `bson:"win_score"`
}

func New(game string) *Book {
	return &Book{
		Version:   CurrentVersion,
		Game:      game,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the version and that every parent precedes its children.
func (b *Book) Validate() error {
	if b.Version != CurrentVersion {
		return fmt.Errorf("%w: %d", ErrVersion, b.Version)
	}
	if len(b.Nodes) == 0 {
		return fmt.Errorf("%w: no nodes", ErrMalformedBook)
	}
	if b.Nodes[0].Parent != -1 {
		return fmt.Errorf("%w: root has parent %d", ErrMalformedBook, b.Nodes[0].Parent)
	}
	for i, n := range b.Nodes[1:] {
		if n.Parent < 0 || n.Parent > i {
			return fmt.Errorf("%w: node %d has parent %d", ErrMalformedBook, i+1, n.Parent)
		}
	}
	return nil
}

func Encode(b *Book) ([]byte, error) {
	data, err := bson.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encoding book: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (*Book, error) {
	var b Book
	if err := bson.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding book: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
