// Package communication holds the JSON messages exchanged between a remote agent and
// the process driving the game.
package communication

// MoveRequest is the game so far as a list of cell indices, Black first
type MoveRequest struct {
	Moves []int `json:"moves"`
}

type MoveResponse struct {
	Move        int `json:"move"`
	X           int `json:"x"`
	Y           int `json:"y"`
	Simulations int `json:"simulations"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PingResponse struct {
	OK   bool `json:"ok"`
	Size int  `json:"size"`
}
