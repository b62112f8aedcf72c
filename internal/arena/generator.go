package arena

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/vec"
)

// ErrNoRoom возвращается, если на уровне не хватает клеток для расстановки
var ErrNoRoom = errors.New("arena: недостаточно свободных клеток")

// ErrNoUnits возвращается для расстановки без юнитов
var ErrNoUnits = errors.New("arena: в расстановке нет юнитов")

// Пороги шума для клеток
const (
	WallNoiseMin     = 0.68 // Выше - стены
	PlatformNoiseMin = 0.55 // Выше - платформы на ярусах
	LadderNoiseMax   = 0.30 // Ниже - лестницы
)

// Размеры объектов на арене
var (
	UnitSize    = vec.Vec2Float{X: 0.9, Y: 1.8}
	LootBoxSize = vec.Vec2Float{X: 0.5, Y: 0.5}
)

// Generator строит уровни и стартовые расстановки по сиду
type Generator struct {
	Seed         int64
	NoiseScale   float64 // Масштаб шума
	TierSpacing  int     // Расстояние между ярусами платформ
	JumpPadRatio float64 // Доля свободных клеток пола с батутами
	noise        *Noise
}

// NewGenerator создаёт генератор арен
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Seed:         seed,
		NoiseScale:   0.15,
		TierSpacing:  4,
		JumpPadRatio: 0.03,
		noise:        NewNoise(seed),
	}
}

// Level генерирует уровень width×height.
// Край арены всегда стена, нижний ряд над полом свободен от стен.
func (g *Generator) Level(width, height int) *model.Level {
	level := model.NewLevel(width, height)
	rng := rand.New(rand.NewSource(g.Seed + int64(width*31) + int64(height*17)))

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				level.Set(x, y, model.TileWall)
				continue
			}
			if y == 1 {
				continue
			}

			n := g.noise.At(float64(x)*g.NoiseScale, float64(y)*g.NoiseScale)
			switch {
			case n > WallNoiseMin:
				level.Set(x, y, model.TileWall)
			case n > PlatformNoiseMin && g.TierSpacing > 0 && y%g.TierSpacing == 0:
				level.Set(x, y, model.TilePlatform)
			case n < LadderNoiseMax && x%7 == 3:
				level.Set(x, y, model.TileLadder)
			}
		}
	}

	for _, cell := range standCells(level) {
		if rng.Float64() < g.JumpPadRatio {
			level.Set(cell.X, cell.Y, model.TileJumpPad)
		}
	}

	return level
}

// ScenarioConfig описывает стартовую расстановку
type ScenarioConfig struct {
	Width          int
	Height         int
	Players        int
	UnitsPerPlayer int
	Weapons        int
	HealthPacks    int
	Mines          int
	Health         int
}

// DefaultScenario возвращает расстановку в размерах арены AI Cup
func DefaultScenario() ScenarioConfig {
	return ScenarioConfig{
		Width:          40,
		Height:         30,
		Players:        2,
		UnitsPerPlayer: 1,
		Weapons:        6,
		HealthPacks:    3,
		Mines:          2,
		Health:         100,
	}
}

// Scenario генерирует уровень и расставляет юнитов и ящики на клетки,
// где можно стоять. Одинаковый сид даёт одинаковый снимок.
func (g *Generator) Scenario(cfg ScenarioConfig) (*model.Game, error) {
	if cfg.Players < 1 || cfg.UnitsPerPlayer < 1 {
		return nil, fmt.Errorf("%w: игроков %d, юнитов на игрока %d", ErrNoUnits, cfg.Players, cfg.UnitsPerPlayer)
	}
	if cfg.Weapons < 0 || cfg.HealthPacks < 0 || cfg.Mines < 0 {
		return nil, fmt.Errorf("arena: отрицательное число ящиков в расстановке")
	}

	level := g.Level(cfg.Width, cfg.Height)
	rng := rand.New(rand.NewSource(g.Seed))

	cells := standCells(level)
	need := cfg.Players*cfg.UnitsPerPlayer + cfg.Weapons + cfg.HealthPacks + cfg.Mines
	if need > len(cells) {
		return nil, fmt.Errorf("%w: нужно %d, есть %d", ErrNoRoom, need, len(cells))
	}
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	next := 0
	place := func() vec.Vec2Float {
		c := cells[next]
		next++
		return vec.Vec2Float{X: float64(c.X) + 0.5, Y: float64(c.Y)}
	}

	game := &model.Game{Level: level}
	unitID := 1
	for p := 1; p <= cfg.Players; p++ {
		game.Players = append(game.Players, model.Player{ID: p})
		for u := 0; u < cfg.UnitsPerPlayer; u++ {
			game.Units = append(game.Units, model.Unit{
				PlayerID: p,
				ID:       unitID,
				Health:   cfg.Health,
				Position: place(),
				Size:     UnitSize,
			})
			unitID++
		}
	}

	weaponTypes := []model.WeaponType{model.WeaponPistol, model.WeaponAssaultRifle, model.WeaponRocketLauncher}
	for i := 0; i < cfg.Weapons; i++ {
		game.LootBoxes = append(game.LootBoxes, model.LootBox{
			Position: place(),
			Size:     LootBoxSize,
			Item:     model.WeaponItem{Type: weaponTypes[i%len(weaponTypes)]},
		})
	}
	for i := 0; i < cfg.HealthPacks; i++ {
		game.LootBoxes = append(game.LootBoxes, model.LootBox{
			Position: place(),
			Size:     LootBoxSize,
			Item:     model.HealthPackItem{Health: 50},
		})
	}
	for i := 0; i < cfg.Mines; i++ {
		game.LootBoxes = append(game.LootBoxes, model.LootBox{
			Position: place(),
			Size:     LootBoxSize,
			Item:     model.MineItem{},
		})
	}

	return game, nil
}

// standCells возвращает пустые клетки, под которыми стена или платформа
func standCells(level *model.Level) []vec.Vec2 {
	var cells []vec.Vec2
	for x := 0; x < level.Width(); x++ {
		for y := 1; y < level.Height(); y++ {
			if level.Tile(x, y) == model.TileEmpty && level.Tile(x, y-1).BlocksSight() {
				cells = append(cells, vec.Vec2{X: x, Y: y})
			}
		}
	}
	return cells
}
