package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pentago/agent"
	"pentago/experiments/metrics"
	"pentago/game"
	"pentago/utils"

	"github.com/rs/zerolog/log"
)

// MoveParser reads a move in the text form returned by an agent server.
type MoveParser func(s string) (game.Move, error)

// Remote asks an agent server for moves over HTTP, so it can sit in a Local game like any
// other agent.
type Remote struct {
	url    string
	parse  MoveParser
	client *http.Client
	last   metrics.SearchMetric
}

var _ agent.Agent = (*Remote)(nil)

func NewRemote(url string, parse MoveParser) *Remote {
	return &Remote{
		url:    strings.TrimSuffix(url, "/"),
		parse:  parse,
		client: &http.Client{},
	}
}

func (r *Remote) ChooseMove(ctx context.Context, state game.State, budget time.Duration) (game.Move, error) {
	if state.IsTerminal() {
		return nil, game.ErrTerminalState
	}
	budget = utils.Remaining(ctx, budget)

	payload := agent.FindMoveRequest{
		Board:    fmt.Sprint(state),
		Turn:     state.Player().String(),
		BudgetMS: budget.Milliseconds(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding move request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url+"/findmove", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return r.fallback(state, fmt.Sprintf("request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return r.fallback(state, fmt.Sprintf("status %d: %s", resp.StatusCode, bytes.TrimSpace(out))), nil
	}

	var answer agent.FindMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return r.fallback(state, fmt.Sprintf("unreadable answer: %v", err)), nil
	}
	r.last = metrics.SearchMetric{
		Engine:   "remote",
		Duration: time.Since(start),
		Episodes: answer.Episodes,
		Depth:    answer.Depth,
	}

	move, err := r.parse(answer.Move)
	if err != nil || utils.FindIndex(state.LegalMoves(), move) == -1 {
		return r.fallback(state, fmt.Sprintf("invalid move %q", answer.Move)), nil
	}
	return move, nil
}

// fallback keeps the game going with the first legal move when the server cannot answer
func (r *Remote) fallback(state game.State, reason string) game.Move {
	move := state.LegalMoves()[0]
	r.last = metrics.SearchMetric{Engine: "remote"}
	log.Warn().Msgf("agent at %s failed (%s), playing %v instead", r.url, reason, move)
	return move
}

func (r *Remote) Metric() metrics.SearchMetric {
	return r.last
}
