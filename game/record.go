package game

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteRecord writes a move log in Piskvork .psq format with 1-based coordinates
func WriteRecord(w io.Writer, size int, moves []int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "Piskvorky %dx%d, 0:0, 1\n", size, size); err != nil {
		return fmt.Errorf("failed to write record header: %w", err)
	}
	for _, m := range moves {
		if _, err := fmt.Fprintf(bw, "%d,%d,0\n", m%size+1, m/size+1); err != nil {
			return fmt.Errorf("failed to write record move: %w", err)
		}
	}
	if _, err := bw.WriteString("-1\n"); err != nil {
		return fmt.Errorf("failed to write record trailer: %w", err)
	}
	return bw.Flush()
}

// ReadRecord parses a .psq record back into the board size and its move log
func ReadRecord(r io.Reader) (int, []int, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return 0, nil, fmt.Errorf("missing record header")
	}
	var size, height int
	header := strings.TrimSpace(scanner.Text())
	if _, err := fmt.Sscanf(header, "Piskvorky %dx%d,", &size, &height); err != nil {
		return 0, nil, fmt.Errorf("invalid record header %q: %w", header, err)
	}
	if size <= 0 || size != height {
		return 0, nil, fmt.Errorf("unsupported board %dx%d", size, height)
	}

	moves := make([]int, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "-1" {
			return size, moves, nil
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return 0, nil, fmt.Errorf("invalid record line %q", line)
		}
		x, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, nil, fmt.Errorf("invalid record line %q: %w", line, err)
		}
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, nil, fmt.Errorf("invalid record line %q: %w", line, err)
		}
		if x < 1 || y < 1 || x > size || y > size {
			return 0, nil, fmt.Errorf("record move %d,%d outside %dx%d board", x, y, size, size)
		}
		moves = append(moves, (y-1)*size+(x-1))
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to read record: %w", err)
	}
	return size, moves, nil
}
