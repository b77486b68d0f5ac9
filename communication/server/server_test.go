package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"renju/communication"
	"renju/experiments/metrics"
	"renju/game"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// firstEmptyAgent plays the lowest empty cell
type firstEmptyAgent struct {
	resets int
	seen   []int
}

func (a *firstEmptyAgent) FindMove(board *game.Board) (int, metrics.SearchMetric, error) {
	a.seen = board.Moves()
	for i := 0; i < board.CellCount(); i++ {
		if board.IsEmpty(i) {
			return i, metrics.SearchMetric{Simulations: 7}, nil
		}
	}
	return -1, metrics.SearchMetric{}, nil
}

func (a *firstEmptyAgent) Reset() {
	a.resets++
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data)))
	return rec
}

func TestServer(t *testing.T) {
	t.Run("ping reports the board size", func(t *testing.T) {
		s := New(&firstEmptyAgent{}, 9, zerolog.Nop())
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp communication.PingResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Equal(t, communication.PingResponse{OK: true, Size: 9}, resp)
	})

	t.Run("move replays the game and answers with the agent's choice", func(t *testing.T) {
		a := &firstEmptyAgent{}
		s := New(a, 9, zerolog.Nop())

		rec := post(t, s.Handler(), "/move", communication.MoveRequest{Moves: []int{0, 40}})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp communication.MoveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Equal(t, communication.MoveResponse{Move: 1, X: 1, Y: 0, Simulations: 7}, resp)
		require.Equal(t, []int{0, 40}, a.seen)
	})

	t.Run("illegal move lists are rejected", func(t *testing.T) {
		s := New(&firstEmptyAgent{}, 9, zerolog.Nop())

		require.Equal(t, http.StatusBadRequest, post(t, s.Handler(), "/move", communication.MoveRequest{Moves: []int{3, 3}}).Code)
		require.Equal(t, http.StatusBadRequest, post(t, s.Handler(), "/move", communication.MoveRequest{Moves: []int{81}}).Code)
		require.Equal(t, http.StatusBadRequest, post(t, s.Handler(), "/move", "not a request").Code)
	})

	t.Run("finished games are a conflict", func(t *testing.T) {
		s := New(&firstEmptyAgent{}, 9, zerolog.Nop())
		// Black fills the first row, White the second
		won := []int{0, 9, 1, 10, 2, 11, 3, 12, 4}

		rec := post(t, s.Handler(), "/move", communication.MoveRequest{Moves: won})
		require.Equal(t, http.StatusConflict, rec.Code)

		rec = post(t, s.Handler(), "/move", communication.MoveRequest{Moves: append(won, 13)})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("reset forwards to the agent", func(t *testing.T) {
		a := &firstEmptyAgent{}
		s := New(a, 9, zerolog.Nop())

		rec := post(t, s.Handler(), "/reset", nil)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, 1, a.resets)
	})
}
