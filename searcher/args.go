package searcher

// Hyperparameters for MCTS

const CPuct = 5.0 // Exploration constant

// DirichletScale over the number of cells gives the concentration of root noise
const DirichletScale = 12.0

// Values are backed up from the perspective of the player who made the last move
const WIN = 1.0
const DRAW = 0.0
