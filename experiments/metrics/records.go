// Package metrics holds the flat records an arena run produces and the CSV
// writer that persists them for offline analysis.
package metrics

import "time"

// AgentConfig describes one competitor. Kind selects the implementation:
// "ismcts" (the default) or "random".
type AgentConfig struct {
	ID          int
	Kind        string
	Goroutines  int
	Iterations  int
	Duration    time.Duration
	Cutoff      int
	Exploration float64
}

// GameRecord is the outcome of one arena game. Agent1 sat at seat 0.
type GameRecord struct {
	ID        string // uuid
	Agent1    int    // AgentConfig.ID
	Agent2    int    // AgentConfig.ID
	Winner    int    // seat, game.NoTarget when the move cap stopped play
	Moves     int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// MoveRecord is one move of one game with its search statistics.
type MoveRecord struct {
	Game         string // GameRecord.ID
	Step         int
	Seat         int
	Move         string
	Duration     time.Duration
	Episodes     int
	FullPlayouts int
}
