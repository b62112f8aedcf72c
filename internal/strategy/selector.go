package strategy

import (
	"fmt"
	"math"

	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/vec"
)

// TargetKind определяет, к чему направляется юнит
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetWeapon
	TargetAssaultRifle
	TargetEnemy
	TargetHealthPack
)

var targetKindNames = map[TargetKind]string{
	TargetNone:         "none",
	TargetWeapon:       "weapon",
	TargetAssaultRifle: "assault_rifle",
	TargetEnemy:        "enemy",
	TargetHealthPack:   "health_pack",
}

// TargetKinds перечисляет все виды целей в порядке объявления
var TargetKinds = []TargetKind{TargetNone, TargetWeapon, TargetAssaultRifle, TargetEnemy, TargetHealthPack}

func (k TargetKind) String() string {
	if name, ok := targetKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("target(%d)", uint8(k))
}

// MarshalText реализует encoding.TextMarshaler
func (k TargetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText реализует encoding.TextUnmarshaler
func (k *TargetKind) UnmarshalText(text []byte) error {
	for kind, name := range targetKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("неизвестный вид цели %q", text)
}

// Nearest ближайшие к юниту объекты каждой категории.
// nil означает, что объекта этой категории на карте нет.
type Nearest struct {
	Pistol       *model.LootBox
	Launcher     *model.LootBox
	AssaultRifle *model.LootBox
	Weapon       *model.LootBox
	HealthPack   *model.LootBox
	Enemy        *model.Unit
}

// Target результат выбора цели
type Target struct {
	Kind       TargetKind    `json:"kind"`
	Position   vec.Vec2Float `json:"position"`
	Aim        vec.Vec2Float `json:"aim"`
	SwapWeapon bool          `json:"swap_weapon"`
	PlantMine  bool          `json:"plant_mine"`
	Nearest    Nearest       `json:"-"`
}

// HasPosition сообщает, выбрана ли точка назначения
func (t Target) HasPosition() bool {
	return t.Kind != TargetNone
}

// tracker запоминает ближайший объект; при равенстве остаётся первый
type tracker[T any] struct {
	origin vec.Vec2Float
	best   *T
	dist   float64
}

func newTracker[T any](origin vec.Vec2Float) tracker[T] {
	return tracker[T]{origin: origin, dist: math.Inf(1)}
}

func (t *tracker[T]) offer(candidate *T, pos vec.Vec2Float) {
	d := t.origin.SqrDistanceTo(pos)
	if t.best == nil || d < t.dist {
		t.best = candidate
		t.dist = d
	}
}

// FindNearest собирает ближайшие объекты за один проход по ящикам
// и один проход по юнитам.
func FindNearest(unit *model.Unit, game *model.Game) Nearest {
	origin := unit.Position
	pistol := newTracker[model.LootBox](origin)
	launcher := newTracker[model.LootBox](origin)
	rifle := newTracker[model.LootBox](origin)
	health := newTracker[model.LootBox](origin)
	enemy := newTracker[model.Unit](origin)

	if game != nil {
		for i := range game.LootBoxes {
			box := &game.LootBoxes[i]
			switch item := box.Item.(type) {
			case model.WeaponItem:
				switch item.Type {
				case model.WeaponPistol:
					pistol.offer(box, box.Position)
				case model.WeaponRocketLauncher:
					launcher.offer(box, box.Position)
				default:
					rifle.offer(box, box.Position)
				}
			case model.HealthPackItem:
				health.offer(box, box.Position)
			case model.MineItem:
			}
		}

		for i := range game.Units {
			other := &game.Units[i]
			if other.IsEnemyOf(unit) {
				enemy.offer(other, other.Position)
			}
		}
	}

	// Порядок кандидатов задаёт приоритет при равных расстояниях
	weapon := newTracker[model.LootBox](origin)
	for _, candidate := range []*model.LootBox{rifle.best, launcher.best, pistol.best} {
		if candidate != nil {
			weapon.offer(candidate, candidate.Position)
		}
	}

	return Nearest{
		Pistol:       pistol.best,
		Launcher:     launcher.best,
		AssaultRifle: rifle.best,
		Weapon:       weapon.best,
		HealthPack:   health.best,
		Enemy:        enemy.best,
	}
}

// SelectTarget выбирает цель юнита.
//
// Приоритеты: без оружия идти к ближайшему оружию; с оружием, но не с
// автоматом, идти к автомату и сменить оружие; иначе идти к ближайшему врагу.
// При здоровье ниже порога аптечка важнее всего остального.
func SelectTarget(unit *model.Unit, game *model.Game, cfg Config) Target {
	nearest := FindNearest(unit, game)
	target := Target{Nearest: nearest}

	switch {
	case !unit.HasWeapon() && nearest.Weapon != nil:
		target.Kind = TargetWeapon
		target.Position = nearest.Weapon.Position
	case unit.HasWeapon() && unit.Weapon.Type != model.WeaponAssaultRifle && nearest.AssaultRifle != nil:
		target.Kind = TargetAssaultRifle
		target.Position = nearest.AssaultRifle.Position
		target.SwapWeapon = true
	case nearest.Enemy != nil:
		target.Kind = TargetEnemy
		target.Position = nearest.Enemy.Position
	}

	if unit.Health < cfg.HealthThreshold && nearest.HealthPack != nil {
		target.Kind = TargetHealthPack
		target.Position = nearest.HealthPack.Position
		target.SwapWeapon = false
	}

	if enemy := nearest.Enemy; enemy != nil {
		target.Aim = enemy.Position.Sub(unit.Position)
		target.PlantMine = math.Abs(target.Aim.X) == cfg.AdjacencyDistance && target.Aim.Y == 0
	}

	return target
}
