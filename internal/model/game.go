package model

import "fmt"

// GameType selects the scoring profile of a service instance
type GameType string

const (
	GameBikeRace GameType = "bike-race"
	GameSnake    GameType = "snake"
)

// TracksDistance reports whether score entries for this game carry a distance
func (g GameType) TracksDistance() bool {
	return g == GameBikeRace
}

// ParseGameType validates a configured game name
func ParseGameType(s string) (GameType, error) {
	switch g := GameType(s); g {
	case GameBikeRace, GameSnake:
		return g, nil
	default:
		return "", fmt.Errorf("%w: unknown game %q (must be %q or %q)", ErrInvalidInput, s, GameBikeRace, GameSnake)
	}
}
