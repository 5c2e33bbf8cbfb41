package main

import (
	"fmt"

	"pentago/agent"
	"pentago/engine"
	"pentago/game"
	"pentago/game/pentago"
	"pentago/game/tictactoe"
)

type gameKit struct {
	newState  func() game.State
	parse     agent.Parser
	parseMove engine.MoveParser
	codec     game.Codec
}

func kit(name string) (gameKit, error) {
	switch name {
	case "pentago":
		return gameKit{
			newState: func() game.State { return pentago.New() },
			parse: func(board string, turn game.Player) (game.State, error) {
				return pentago.Parse(board, turn)
			},
			parseMove: func(s string) (game.Move, error) { return pentago.ParseMove(s) },
			codec:     pentago.Codec{},
		}, nil
	case "tictactoe":
		return gameKit{
			newState: func() game.State { return tictactoe.New() },
			parse: func(board string, turn game.Player) (game.State, error) {
				return tictactoe.Parse(board, turn)
			},
			parseMove: func(s string) (game.Move, error) { return tictactoe.ParseMove(s) },
			codec:     tictactoe.Codec{},
		}, nil
	default:
		return gameKit{}, fmt.Errorf("unknown game %q", name)
	}
}
