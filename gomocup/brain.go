package gomocup

import (
	"bufio"
	"fmt"
	"io"
	"renju/game"
	"renju/searcher/agent"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const About = `name="renju", version="1.0", author="renju authors", country="CN"`

// MaxSize is the largest board a Gomocup manager may ask for
const MaxSize = 32

// Brain answers Gomocup manager commands for one agent. Coordinates are 0-based "x,y".
type Brain struct {
	agent   agent.Agent
	board   *game.Board
	info    map[string]string
	pending []placement // Stones received between BOARD and DONE
	inBoard bool
	ended   bool
	logger  zerolog.Logger
}

type placement struct {
	index int
	own   bool
}

func NewBrain(a agent.Agent, logger zerolog.Logger) *Brain {
	return &Brain{agent: a, info: make(map[string]string), logger: logger}
}

func (b *Brain) Ended() bool {
	return b.ended
}

func (b *Brain) Info(key string) (string, bool) {
	value, ok := b.info[key]
	return value, ok
}

// Board is the brain's current position, nil before START
func (b *Brain) Board() *game.Board {
	return b.board
}

// Handle executes one command line and returns the reply. The second result is false
// for commands the manager expects no answer to.
func (b *Brain) Handle(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if b.inBoard {
		return b.boardLine(line)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}

	switch cmd := strings.ToUpper(fields[0]); cmd {
	case "START":
		if len(fields) < 2 {
			return "ERROR missing board size", true
		}
		size, err := strconv.Atoi(fields[1])
		if err != nil || size < game.WinNum || size > MaxSize {
			return "ERROR unsupported size", true
		}
		b.board = game.NewBoard(size)
		b.agent.Reset()
		b.logger.Info().Msgf("start %dx%d game", size, size)
		return "OK", true

	case "RESTART":
		if b.board == nil {
			return "ERROR game has not started", true
		}
		b.board.Reset()
		b.agent.Reset()
		b.logger.Info().Msg("restart game")
		return "OK", true

	case "BEGIN":
		if b.board == nil {
			return "ERROR game has not started", true
		}
		if b.board.MoveCount() > 0 {
			return "ERROR game already begun", true
		}
		b.logger.Info().Msg("begin play as Black")
		return b.think(), true

	case "TURN":
		if b.board == nil {
			return "ERROR game has not started", true
		}
		if len(fields) < 2 {
			return "ERROR missing move", true
		}
		index, err := b.parseMove(fields[1])
		if err != nil {
			return "ERROR " + err.Error(), true
		}
		if err := b.board.Move(index); err != nil {
			return "ERROR " + err.Error(), true
		}
		x, y := b.board.XY(index)
		b.logger.Info().Msgf("%s: (%d,%d)", b.board.Cell(index), x, y)
		return b.think(), true

	case "TAKEBACK":
		if b.board == nil {
			return "ERROR game has not started", true
		}
		if len(fields) < 2 {
			return "ERROR missing move", true
		}
		index, err := b.parseMove(fields[1])
		if err != nil {
			return "ERROR " + err.Error(), true
		}
		if last, ok := b.board.LastMove(); !ok || last != index {
			return "ERROR can only take back the last move", true
		}
		if _, err := b.board.Undo(); err != nil {
			return "ERROR " + err.Error(), true
		}
		return "OK", true

	case "BOARD":
		if b.board == nil {
			return "ERROR game has not started", true
		}
		b.inBoard = true
		b.pending = b.pending[:0]
		return "", false

	case "ABOUT":
		return About, true

	case "INFO":
		if len(fields) >= 3 {
			b.info[strings.ToLower(fields[1])] = strings.Join(fields[2:], " ")
		}
		return "", false

	case "END":
		b.ended = true
		b.logger.Info().Msg("end")
		return "", false

	default:
		return "UNKNOWN command " + cmd, true
	}
}

// boardLine collects "x,y,field" lines until DONE, then replays them and moves
func (b *Brain) boardLine(line string) (string, bool) {
	if strings.EqualFold(line, "DONE") {
		b.inBoard = false
		return b.replay()
	}
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		b.inBoard = false
		return "ERROR invalid board line " + line, true
	}
	index, err := b.parseMove(parts[0] + "," + parts[1])
	if err != nil {
		b.inBoard = false
		return "ERROR " + err.Error(), true
	}
	b.pending = append(b.pending, placement{index: index, own: strings.TrimSpace(parts[2]) == "1"})
	return "", false
}

func (b *Brain) replay() (string, bool) {
	b.board.Reset()
	for _, p := range b.pending {
		// The brain is always the side to move once all stones are down
		own := (len(b.pending)-b.board.MoveCount())%2 == 0
		if p.own != own {
			return "ERROR stones do not alternate", true
		}
		if err := b.board.Move(p.index); err != nil {
			return "ERROR " + err.Error(), true
		}
	}
	return b.think(), true
}

func (b *Brain) think() string {
	move, metric, err := b.agent.FindMove(b.board)
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to find a move")
		return "ERROR " + err.Error()
	}
	if err := b.board.Move(move); err != nil {
		b.logger.Error().Err(err).Msg("agent played an illegal move")
		return "ERROR " + err.Error()
	}
	b.board.CheckWin(move)
	x, y := b.board.XY(move)
	b.logger.Info().Msgf("%s: (%d,%d) after %d simulations", b.board.Cell(move), x, y, metric.Simulations)
	return fmt.Sprintf("%d,%d", x, y)
}

func (b *Brain) parseMove(s string) (int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return -1, fmt.Errorf("invalid move %q", s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
	size := b.board.Size()
	if errX != nil || errY != nil || x < 0 || y < 0 || x >= size || y >= size {
		return -1, fmt.Errorf("invalid move %q", s)
	}
	return b.board.Index(x, y), nil
}

// Run reads commands from r and writes replies to w until END or EOF
func (b *Brain) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for !b.ended && scanner.Scan() {
		reply, ok := b.Handle(scanner.Text())
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(w, reply); err != nil {
			return fmt.Errorf("failed to write reply: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read command: %w", err)
	}
	return nil
}
