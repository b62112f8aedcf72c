package model

import "fmt"

// Tile представляет тип клетки уровня
type Tile uint8

const (
	TileEmpty Tile = iota
	TileWall
	TilePlatform
	TileLadder
	TileJumpPad
)

var tileNames = map[Tile]string{
	TileEmpty:    "empty",
	TileWall:     "wall",
	TilePlatform: "platform",
	TileLadder:   "ladder",
	TileJumpPad:  "jump_pad",
}

// Символы клеток в текстовом представлении уровня
var tileGlyphs = map[Tile]byte{
	TileEmpty:    '.',
	TileWall:     '#',
	TilePlatform: '^',
	TileLadder:   'H',
	TileJumpPad:  'T',
}

// BlocksSight сообщает, перекрывает ли клетка линию выстрела.
// Перекрывают только стены и платформы.
func (t Tile) BlocksSight() bool {
	switch t {
	case TileWall, TilePlatform:
		return true
	default:
		return false
	}
}

// Glyph возвращает символ клетки для текстовой карты
func (t Tile) Glyph() byte {
	if g, ok := tileGlyphs[t]; ok {
		return g
	}
	return '?'
}

func (t Tile) String() string {
	if name, ok := tileNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tile(%d)", uint8(t))
}

func tileFromGlyph(g byte) (Tile, bool) {
	for tile, glyph := range tileGlyphs {
		if glyph == g {
			return tile, true
		}
	}
	return TileEmpty, false
}
