package physics

import (
	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/vec"
)

// Direction возвращает направление движения по горизонтали: -1, 0 или 1
func Direction(from, to float64) int {
	switch {
	case to > from:
		return 1
	case to < from:
		return -1
	default:
		return 0
	}
}

// WallAhead проверяет, стоит ли стена в соседней клетке по направлению dir.
// Координата сдвигается на целую клетку и только потом усекается.
func WallAhead(level *model.Level, pos vec.Vec2Float, dir int) bool {
	if dir == 0 {
		return false
	}
	next := pos.Add(vec.Vec2Float{X: float64(dir)})
	return level.TileAt(next) == model.TileWall
}
