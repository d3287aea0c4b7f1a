package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// seatCorners maps a supported player count to the home corner of each seat
// in turn order. Goal regions are the opposite corners (home+3 mod 6).
var seatCorners = map[int][]int{
	2: {0, 3},
	3: {0, 2, 4},
	4: {0, 1, 3, 4},
	6: {0, 1, 2, 3, 4, 5},
}

// Config is the setup surface of a game.
type Config struct {
	// Players is the number of seats: 2, 3, 4 or 6.
	Players int `yaml:"players"`
	// AllowGoalRetreat permits moving a piece already inside its goal
	// region back out of it. House rule, on by default.
	AllowGoalRetreat bool `yaml:"allow_goal_retreat"`
	// MaxMoves caps the game length; reaching it without a winner ends the
	// game drawn.
	MaxMoves int `yaml:"max_moves"`
}

// DefaultConfig returns the standard two-player setup.
func DefaultConfig() Config {
	return Config{
		Players:          2,
		AllowGoalRetreat: true,
		MaxMoves:         400,
	}
}

// Validate checks the player count against the layouts the geometry
// supports.
func (c Config) Validate() error {
	if _, ok := seatCorners[c.Players]; !ok {
		return fmt.Errorf("%w: %d", ErrUnsupportedPlayerCount, c.Players)
	}
	if c.MaxMoves <= 0 {
		return fmt.Errorf("max moves must be positive, got %d", c.MaxMoves)
	}
	return nil
}

// homeCorner returns the home corner of seat s under the config's layout.
func (c Config) homeCorner(s Seat) int {
	return seatCorners[c.Players][s]
}

// goalCorner returns the goal corner of seat s: the corner opposite its
// home.
func (c Config) goalCorner(s Seat) int {
	return (c.homeCorner(s) + NumCorners/2) % NumCorners
}

// GoalCorner exposes the goal corner of seat s for metrics and agents.
func (c Config) GoalCorner(s Seat) int {
	return c.goalCorner(s)
}

// LoadConfig reads a YAML config file, filling unset fields from defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
