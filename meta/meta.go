// Package meta holds the defaults every entry point starts from.
package meta

import (
	"math"
	"time"
)

// FIRST_TURN_BUDGET is the allowance for an agent's first move.
const FIRST_TURN_BUDGET = 10 * time.Second

// TURN_BUDGET is the allowance for every later move.
const TURN_BUDGET = 1950 * time.Millisecond

// EXPLORATION is the UCB1 exploration constant.
const EXPLORATION = math.Sqrt2 / 7

// DEPTH is the alpha-beta depth limit.
const DEPTH = 8

// LISTEN is the agent server address.
const LISTEN = ":8080"

// BOOK_KEY names the opening book in its store.
const BOOK_KEY = "opening"

// MAX_NODES caps the UCT tree; a pentago node with its state takes a few hundred bytes.
const MAX_NODES = 200_000

// TRAIN_BUDGET is the default length of an opening-book training run.
const TRAIN_BUDGET = time.Minute
