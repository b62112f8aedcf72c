package runner

import (
	"fmt"

	"github.com/annel0/aicup-bot/internal/arena"
	"github.com/annel0/aicup-bot/internal/replay"
)

// GenerateMatch строит кадры матча из сгенерированных арен: каждый тик
// получает свою расстановку с сидом seed+tick, решение принимает первый юнит.
func GenerateMatch(matchID string, seed int64, ticks int, cfg arena.ScenarioConfig) ([]replay.Frame, error) {
	frames := make([]replay.Frame, 0, ticks)
	for tick := 0; tick < ticks; tick++ {
		game, err := arena.NewGenerator(seed + int64(tick)).Scenario(cfg)
		if err != nil {
			return nil, fmt.Errorf("тик %d: %w", tick, err)
		}
		game.CurrentTick = tick

		frames = append(frames, replay.Frame{
			MatchID: matchID,
			Tick:    tick,
			UnitID:  game.Units[0].ID,
			Game:    game,
		})
	}
	return frames, nil
}
