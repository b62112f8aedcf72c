package render

import (
	"strings"
	"testing"

	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/strategy"
	"github.com/annel0/aicup-bot/internal/vec"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridCanvas запоминает нарисованные символы
type gridCanvas struct {
	width, height int
	cells         map[[2]int]rune
}

func newGridCanvas(w, h int) *gridCanvas {
	return &gridCanvas{width: w, height: h, cells: make(map[[2]int]rune)}
}

func (g *gridCanvas) SetContent(x, y int, mainc rune, _ []rune, _ tcell.Style) {
	g.cells[[2]int{x, y}] = mainc
}

func (g *gridCanvas) Size() (int, int) { return g.width, g.height }

func (g *gridCanvas) row(y, width int) string {
	var sb strings.Builder
	for x := 0; x < width; x++ {
		if r, ok := g.cells[[2]int{x, y}]; ok {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return sb.String()
}

func sampleView() View {
	game := &model.Game{
		CurrentTick: 12,
		Units: []model.Unit{
			{ID: 1, PlayerID: 1, Health: 90, Position: vec.Vec2Float{X: 1.5, Y: 1},
				Weapon: &model.Weapon{Type: model.WeaponPistol, Magazine: 4}},
			{ID: 2, PlayerID: 2, Health: 100, Position: vec.Vec2Float{X: 6.5, Y: 1}},
		},
		LootBoxes: []model.LootBox{
			{Position: vec.Vec2Float{X: 4.5, Y: 2}, Item: model.HealthPackItem{Health: 50}},
			{Position: vec.Vec2Float{X: 3.5, Y: 2}, Item: model.WeaponItem{Type: model.WeaponAssaultRifle}},
		},
		Level: model.MustParseLevel(
			"########",
			"#......#",
			"#...^^.#",
			"#......#",
			"########",
		),
	}
	return View{Game: game, UnitID: 1}
}

func TestDrawFrame_Layout(t *testing.T) {
	v := sampleView()
	target := strategy.SelectTarget(&v.Game.Units[0], v.Game, strategy.DefaultConfig())
	action := model.UnitAction{Velocity: 2, Shoot: true}
	v.Target = &target
	v.Action = &action

	c := newGridCanvas(80, 10)
	DrawFrame(c, v)

	assert.Equal(t, "########", c.row(0, 8))
	assert.Equal(t, "#..X+^.#", c.row(2, 8))
	assert.Equal(t, "#@····E#", c.row(3, 8))
	assert.Equal(t, "########", c.row(4, 8))

	status := c.row(5, 80)
	assert.Contains(t, status, "tick 12 unit 1 hp 90 pistol[4]")
	assert.Contains(t, status, "target assault_rifle {3.5, 2}")
	assert.Contains(t, status, "v=2.00 shoot")
}

func TestDrawFrame_WithoutTarget(t *testing.T) {
	v := sampleView()
	c := newGridCanvas(8, 5)
	DrawFrame(c, v)

	assert.Equal(t, "#@....E#", c.row(3, 8))
	assert.Equal(t, "#..a+^.#", c.row(2, 8))
	_, drawn := c.cells[[2]int{0, 5}]
	assert.False(t, drawn, "строка состояния не помещается")

	assert.NotPanics(t, func() { DrawFrame(c, View{}) })
}

func TestItemGlyph(t *testing.T) {
	assert.Equal(t, GlyphPistol, ItemGlyph(model.WeaponItem{Type: model.WeaponPistol}))
	assert.Equal(t, GlyphRifle, ItemGlyph(model.WeaponItem{Type: model.WeaponAssaultRifle}))
	assert.Equal(t, GlyphLauncher, ItemGlyph(model.WeaponItem{Type: model.WeaponRocketLauncher}))
	assert.Equal(t, GlyphHealth, ItemGlyph(model.HealthPackItem{}))
	assert.Equal(t, GlyphMine, ItemGlyph(model.MineItem{}))
	assert.Equal(t, '?', ItemGlyph(nil))
}

func TestViewer_Keys(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(80, 24)

	views := []View{sampleView(), sampleView(), sampleView()}
	v := NewViewer(screen, views)
	v.Draw()

	assert.True(t, v.HandleKey(tcell.KeyRune, 'n'))
	assert.True(t, v.HandleKey(tcell.KeyRight, 0))
	assert.True(t, v.HandleKey(tcell.KeyRight, 0))
	assert.Equal(t, 2, v.Index())

	assert.True(t, v.HandleKey(tcell.KeyRune, 'p'))
	assert.Equal(t, 1, v.Index())
	assert.True(t, v.HandleKey(tcell.KeyRune, 'g'))
	assert.Equal(t, 0, v.Index())
	assert.True(t, v.HandleKey(tcell.KeyLeft, 0))
	assert.Equal(t, 0, v.Index())
	assert.True(t, v.HandleKey(tcell.KeyRune, 'G'))
	assert.Equal(t, 2, v.Index())
	v.Draw()

	assert.False(t, v.HandleKey(tcell.KeyRune, 'q'))
	assert.False(t, v.HandleKey(tcell.KeyEscape, 0))
}
