package strategy

import (
	"github.com/annel0/aicup-bot/internal/debug"
	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/physics"
)

// Strategy принимает решение для юнита на каждом тике.
// Состояния между вызовами нет, поэтому один экземпляр можно использовать
// из нескольких горутин.
type Strategy struct {
	cfg Config
}

// NewStrategy создаёт стратегию с заданными порогами
func NewStrategy(cfg Config) *Strategy {
	return &Strategy{cfg: cfg}
}

// Config возвращает пороги стратегии
func (s *Strategy) Config() Config {
	return s.cfg
}

// GetAction возвращает действие юнита на текущий тик
func (s *Strategy) GetAction(unit *model.Unit, game *model.Game, dbg debug.Debug) model.UnitAction {
	action, _ := s.Decide(unit, game, dbg)
	return action
}

// Decide возвращает действие вместе с выбранной целью
func (s *Strategy) Decide(unit *model.Unit, game *model.Game, dbg debug.Debug) (model.UnitAction, Target) {
	target := SelectTarget(unit, game, s.cfg)

	var level *model.Level
	if game != nil {
		level = game.Level
	}

	// Без цели юнит стоит на месте
	targetPos := unit.Position
	if target.HasPosition() {
		targetPos = target.Position
		if dbg != nil {
			dbg.Draw(debug.Log{Text: "Target pos: " + targetPos.String()})
		}
	}

	action := model.UnitAction{
		Aim:        target.Aim,
		SwapWeapon: target.SwapWeapon,
		PlantMine:  target.PlantMine,
	}

	action.Jump = targetPos.Y > unit.Position.Y
	dir := physics.Direction(unit.Position.X, targetPos.X)
	if physics.WallAhead(level, unit.Position, dir) {
		action.Jump = true
		action.Reload = true
	}

	action.Velocity = targetPos.X - unit.Position.X

	if enemy := target.Nearest.Enemy; enemy != nil {
		action.Shoot = physics.HasClearShot(unit.Position, enemy.Position, level)
	}

	if unit.HasWeapon() && (!action.Shoot || unit.Weapon.IsEmpty()) {
		action.Reload = true
	}

	// Рядом с врагом ставим мину, перезарядка не нужна
	if action.PlantMine {
		action.Reload = false
	}

	action.JumpDown = !action.Jump
	return action, target
}
