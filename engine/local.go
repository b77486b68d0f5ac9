package engine

import (
	"errors"
	"fmt"
	"renju/experiments/metrics"
	"renju/game"
	"renju/searcher/agent"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrGameOver = errors.New("game is over")

// Local plays two in-process agents against each other on one live board
type Local struct {
	Board  *game.Board
	agents map[game.Color]agent.Agent
	done   bool
}

func LocalEngine(size int, black, white agent.Agent) *Local {
	if black == nil || white == nil {
		panic("need an agent for each color")
	}
	return &Local{
		Board:  game.NewBoard(size),
		agents: map[game.Color]agent.Agent{game.Black: black, game.White: white},
	}
}

// Step asks the agent to move and applies the move. It reports whether the game ended.
func (e *Local) Step() (metrics.MoveMetric, bool, error) {
	if e.done {
		return metrics.MoveMetric{}, true, ErrGameOver
	}
	player := e.Board.Current()
	move, searchMetric, err := e.agents[player].FindMove(e.Board)
	if err != nil {
		return metrics.MoveMetric{}, false, fmt.Errorf("%s failed to find a move: %w", player, err)
	}
	if err := e.Board.Move(move); err != nil {
		return metrics.MoveMetric{}, false, fmt.Errorf("%s played an illegal move: %w", player, err)
	}

	moveMetric := metrics.MoveMetric{
		Step:         e.Board.MoveCount(),
		Player:       int(player),
		Move:         move,
		SearchMetric: searchMetric,
	}
	e.done = e.Board.CheckWin(move) || e.Board.CheckDraw()
	return moveMetric, e.done, nil
}

// Takeback undoes the last two plies so the side to move can play again. The agents'
// trees follow the shortened move log on their next search.
func (e *Local) Takeback() error {
	if e.Board.MoveCount() < 2 {
		return fmt.Errorf("takeback needs two plies, have %d", e.Board.MoveCount())
	}
	for i := 0; i < 2; i++ {
		if _, err := e.Board.Undo(); err != nil {
			return err
		}
	}
	e.done = false
	return nil
}

func (e *Local) Run() (game.Color, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(e.Board.Current()),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Debug().Msgf("%s is starting on a %dx%d board", e.Board.Current(), e.Board.Size(), e.Board.Size())

	for !e.done {
		moveMetric, _, err := e.Step()
		if err != nil {
			return game.Empty, gameMetric, moveMetrics, err
		}
		moveMetrics = append(moveMetrics, moveMetric)
	}

	winner := e.Board.Winner()
	gameMetric.Winner = int(winner)
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = e.Board.MoveCount()

	if winner != game.Empty {
		log.Debug().Msgf("%s won after %d moves", winner, gameMetric.TotalMoves)
	} else {
		log.Debug().Msgf("draw after %d moves", gameMetric.TotalMoves)
	}
	return winner, gameMetric, moveMetrics, nil
}

// Reset clears the board and both agents for a new game
func (e *Local) Reset() {
	e.Board.Reset()
	e.done = false
	for _, a := range e.agents {
		a.Reset()
	}
}
