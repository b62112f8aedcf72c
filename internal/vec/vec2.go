package vec

// Vec2 представляет целочисленные координаты клетки уровня
type Vec2 struct {
	X, Y int
}
