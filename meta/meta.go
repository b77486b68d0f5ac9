// meta/meta.go
package meta

// BOARD_SIZE defines the edge length of the board.
const BOARD_SIZE = 20

// SIMULATIONS defines the number of simulations per move for MCTS.
const SIMULATIONS = 400

// TEMPERATURE_HIGH is the move sampling temperature of the opening.
const TEMPERATURE_HIGH = 1.0

// TEMPERATURE_LOW is the move sampling temperature once TEMPERATURE_THRESHOLD moves are played.
const TEMPERATURE_LOW = 0.01

const TEMPERATURE_THRESHOLD = 30

// NOISE_RATE defines the weight of Dirichlet noise during self-play.
const NOISE_RATE = 0.25

// GAMES defines the number of self-play games per experiment.
const GAMES = 10

// CONCURRENCY defines the number of games played at once.
const CONCURRENCY = 4
