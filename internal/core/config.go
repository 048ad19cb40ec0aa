package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for the piece sequence

	ConfigPath string // Explicit YAML config file, empty for the search path
	Difficulty string // Gravity preset name, empty for the configured pace
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused
}

// SessionStats summarizes a run. There is no score: the platform records
// these counters in session history instead.
type SessionStats struct {
	Pieces int    // Pieces locked into the well
	Rows   int    // Complete rows cleared
	Holds  int    // Hold/swap operations
	Ticks  uint64 // Simulation ticks elapsed while not paused
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	Stats SessionStats

	// Events are what happened during this tick.
	Locked  int // Pieces locked
	Cleared int // Rows cleared
}
