package experiments

import (
	"fmt"
	"os"
	"renju/evaluator"
	"renju/game"
)

// RecordExamples replays a finished game and labels every position with the move played
// there and the final outcome for the side to move
func RecordExamples(size int, moves []int) ([]evaluator.Example, error) {
	board := game.NewBoard(size)
	type position struct {
		features game.Features
		player   game.Color
		move     int
	}
	positions := make([]position, 0, len(moves))
	for i, move := range moves {
		if board.Winner() != game.Empty {
			return nil, fmt.Errorf("move %d played after the game was won", i+1)
		}
		positions = append(positions, position{board.EncodeFeatures(board.Current(), 0), board.Current(), move})
		if err := board.Move(move); err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		board.CheckWin(move)
	}

	examples := make([]evaluator.Example, 0, len(positions))
	for _, p := range positions {
		policy := make([]float64, board.CellCount())
		policy[p.move] = 1
		examples = append(examples, evaluator.Example{
			Input:  p.features.Flatten(),
			Policy: policy,
			Value:  evaluator.Outcome(p.player, board.Winner()),
		})
	}
	return examples, nil
}

// ImportRecords turns .psq game records of a size x size board into training examples
func ImportRecords(size int, paths ...string) ([]evaluator.Example, error) {
	var examples []evaluator.Example
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open record: %w", err)
		}
		recordSize, moves, err := game.ReadRecord(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if recordSize != size {
			return nil, fmt.Errorf("%s is a %dx%d game, not %dx%d", path, recordSize, recordSize, size, size)
		}
		ex, err := RecordExamples(size, moves)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		examples = append(examples, ex...)
	}
	return examples, nil
}
