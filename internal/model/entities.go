package model

import (
	"errors"

	"github.com/annel0/aicup-bot/internal/vec"
)

// ErrMissingLevel возвращается, если в снимке нет уровня
var ErrMissingLevel = errors.New("game snapshot has no level")

// Player участник матча
type Player struct {
	ID    int `json:"id"`
	Score int `json:"score"`
}

// Unit боец на арене
type Unit struct {
	PlayerID int           `json:"player_id"`
	ID       int           `json:"id"`
	Health   int           `json:"health"`
	Position vec.Vec2Float `json:"position"`
	Size     vec.Vec2Float `json:"size"`
	Weapon   *Weapon       `json:"weapon,omitempty"`
	Mines    int           `json:"mines"`
}

// HasWeapon сообщает, держит ли юнит оружие
func (u *Unit) HasWeapon() bool {
	return u.Weapon != nil
}

// IsEnemyOf сообщает, принадлежат ли юниты разным игрокам
func (u *Unit) IsEnemyOf(other *Unit) bool {
	return u.PlayerID != other.PlayerID
}

// LootBox ящик с ровно одним предметом
type LootBox struct {
	Position vec.Vec2Float
	Size     vec.Vec2Float
	Item     Item
}

// Game снимок мира на текущем тике. Ядро стратегии его только читает.
type Game struct {
	CurrentTick int       `json:"current_tick"`
	Players     []Player  `json:"players"`
	Units       []Unit    `json:"units"`
	LootBoxes   []LootBox `json:"loot_boxes"`
	Level       *Level    `json:"level"`
}

// UnitByID ищет юнита по идентификатору
func (g *Game) UnitByID(id int) (*Unit, bool) {
	for i := range g.Units {
		if g.Units[i].ID == id {
			return &g.Units[i], true
		}
	}
	return nil, false
}

// Validate проверяет, что снимок пригоден для принятия решения
func (g *Game) Validate() error {
	if g.Level == nil {
		return ErrMissingLevel
	}
	return nil
}
