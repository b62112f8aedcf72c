package vec

import (
	"fmt"
	"math"
)

// Vec2Float представляет 2D координаты с плавающей точкой
type Vec2Float struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToVec2 отбрасывает дробную часть (усечение к нулю, как при индексации сетки)
func (v Vec2Float) ToVec2() Vec2 {
	return Vec2{X: int(v.X), Y: int(v.Y)}
}

// Add складывает два вектора
func (v Vec2Float) Add(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2Float) Sub(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X - other.X, Y: v.Y - other.Y}
}

// IsZero сообщает, является ли вектор нулевым
func (v Vec2Float) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2Float) DistanceTo(other Vec2Float) float64 {
	return math.Sqrt(v.SqrDistanceTo(other))
}

// SqrDistanceTo возвращает квадрат расстояния. Монотонен с DistanceTo,
// поэтому годится для сравнений без извлечения корня.
func (v Vec2Float) SqrDistanceTo(other Vec2Float) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return dx*dx + dy*dy
}

// String форматирует вектор как "{x, y}"
func (v Vec2Float) String() string {
	return fmt.Sprintf("{%g, %g}", v.X, v.Y)
}
