package physics

import (
	"math"

	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/vec"
)

// HasClearShot проверяет, свободна ли линия выстрела между точками.
//
// Отрезок проходится шагами единичной длины; после каждого шага проверяется
// клетка, в которую попала точка. Стена или платформа означают помеху.
// Проверяются только точки строго между концами. Шаг фиксирован и не зависит
// от сетки, поэтому тонкие диагональные препятствия могут быть пропущены.
//
// Если у концов совпадает X, линия считается свободной. Без уровня помех нет.
func HasClearShot(from, to vec.Vec2Float, level *model.Level) bool {
	if level == nil {
		return true
	}
	open := true
	walkSight(from, to, func(p vec.Vec2Float) bool {
		if level.TileAt(p).BlocksSight() {
			open = false
			return false
		}
		return true
	})
	return open
}

// SightLine возвращает точки, которые проверяет HasClearShot
func SightLine(from, to vec.Vec2Float) []vec.Vec2Float {
	var points []vec.Vec2Float
	walkSight(from, to, func(p vec.Vec2Float) bool {
		points = append(points, p)
		return true
	})
	return points
}

// walkSight вызывает visit для каждой точки выборки, пока visit возвращает true.
// Обход всегда начинается с конца с меньшим X, чтобы результат не зависел
// от порядка аргументов.
func walkSight(from, to vec.Vec2Float, visit func(vec.Vec2Float) bool) {
	if from.X == to.X {
		return
	}
	if to.X < from.X {
		from, to = to, from
	}

	slope := (to.Y - from.Y) / (to.X - from.X)
	step := unitStep(from, to, slope)
	remaining := from.DistanceTo(to)

	current := from
	for remaining > 1 {
		current = current.Add(step)
		if !visit(current) {
			return
		}
		remaining--
	}
}

// unitStep строит шаг единичной длины вдоль луча from→to
func unitStep(from, to vec.Vec2Float, slope float64) vec.Vec2Float {
	norm := math.Sqrt(1 + slope*slope)
	dx := 1 / norm
	dy := math.Abs(slope) / norm

	switch {
	case slope >= 0 && from.X > to.X:
		return vec.Vec2Float{X: -dx, Y: -dy}
	case slope >= 0:
		return vec.Vec2Float{X: dx, Y: dy}
	case from.X > to.X:
		return vec.Vec2Float{X: -dx, Y: dy}
	default:
		return vec.Vec2Float{X: dx, Y: -dy}
	}
}
