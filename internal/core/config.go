package core

// RuntimeConfig contains configuration passed to the game at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for generators that need one
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

// GameState is the platform-facing summary of a run.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the run has ended (completed or failed)
	Won      bool // Whether the run ended by reaching the exit
}

// StepResult is returned by Step after each simulation tick.
type StepResult struct {
	State GameState
	Moved bool // Whether the player position changed this tick
}
