package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/annel0/aicup-bot/internal/vec"
)

// Level хранит сетку клеток, индексируемую как Tiles[x][y]
type Level struct {
	Tiles [][]Tile
}

// NewLevel создаёт пустой уровень указанного размера
func NewLevel(width, height int) *Level {
	tiles := make([][]Tile, width)
	for x := range tiles {
		tiles[x] = make([]Tile, height)
	}
	return &Level{Tiles: tiles}
}

// Width возвращает ширину уровня в клетках
func (l *Level) Width() int {
	if l == nil {
		return 0
	}
	return len(l.Tiles)
}

// Height возвращает высоту уровня в клетках
func (l *Level) Height() int {
	if l == nil || len(l.Tiles) == 0 {
		return 0
	}
	return len(l.Tiles[0])
}

// InBounds проверяет, лежит ли клетка внутри уровня
func (l *Level) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.Width() && y < len(l.Tiles[x])
}

// Set устанавливает клетку; координаты вне уровня игнорируются
func (l *Level) Set(x, y int, t Tile) {
	if !l.InBounds(x, y) {
		return
	}
	l.Tiles[x][y] = t
}

// Tile возвращает клетку по целочисленным координатам.
// Всё, что за пределами сетки, считается стеной арены.
// У nil-уровня геометрии нет, поэтому он пуст.
func (l *Level) Tile(x, y int) Tile {
	if l == nil {
		return TileEmpty
	}
	if !l.InBounds(x, y) {
		return TileWall
	}
	return l.Tiles[x][y]
}

// TileAt возвращает клетку, в которую попадает точка (координаты усекаются)
func (l *Level) TileAt(p vec.Vec2Float) Tile {
	cell := p.ToVec2()
	return l.Tile(cell.X, cell.Y)
}

// Rows возвращает текстовое представление уровня сверху вниз:
// первая строка соответствует y = Height()-1.
func (l *Level) Rows() []string {
	w, h := l.Width(), l.Height()
	rows := make([]string, 0, h)
	for y := h - 1; y >= 0; y-- {
		var sb strings.Builder
		sb.Grow(w)
		for x := 0; x < w; x++ {
			sb.WriteByte(l.Tiles[x][y].Glyph())
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// ParseLevel разбирает текстовую карту в формате Rows
func ParseLevel(rows []string) (*Level, error) {
	if len(rows) == 0 {
		return NewLevel(0, 0), nil
	}
	width := len(rows[0])
	height := len(rows)
	level := NewLevel(width, height)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("строка %d: ширина %d, ожидалась %d", i, len(row), width)
		}
		y := height - 1 - i
		for x := 0; x < width; x++ {
			tile, ok := tileFromGlyph(row[x])
			if !ok {
				return nil, fmt.Errorf("строка %d: неизвестный символ %q", i, row[x])
			}
			level.Tiles[x][y] = tile
		}
	}
	return level, nil
}

// MustParseLevel как ParseLevel, но паникует при ошибке. Для тестов и фикстур.
func MustParseLevel(rows ...string) *Level {
	level, err := ParseLevel(rows)
	if err != nil {
		panic(err)
	}
	return level
}

// MarshalJSON кодирует уровень как массив строк
func (l *Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Rows())
}

// UnmarshalJSON декодирует уровень из массива строк
func (l *Level) UnmarshalJSON(data []byte) error {
	var rows []string
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := ParseLevel(rows)
	if err != nil {
		return err
	}
	l.Tiles = parsed.Tiles
	return nil
}
