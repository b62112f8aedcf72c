package render

import (
	"fmt"

	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/physics"
	"github.com/annel0/aicup-bot/internal/strategy"
	"github.com/annel0/aicup-bot/internal/vec"
	"github.com/gdamore/tcell/v2"
)

// Canvas часть tcell.Screen, нужная для отрисовки
type Canvas interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Size() (int, int)
}

// Символы объектов
const (
	GlyphSelf     = '@'
	GlyphAlly     = 'u'
	GlyphEnemy    = 'E'
	GlyphTarget   = 'X'
	GlyphSight    = '·'
	GlyphPistol   = 'p'
	GlyphRifle    = 'a'
	GlyphLauncher = 'r'
	GlyphHealth   = '+'
	GlyphMine     = '*'
)

var (
	styleWall     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlatform = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleLadder   = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleJumpPad  = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleEmpty    = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	styleSelf     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleAlly     = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleEnemy    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleLoot     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleTarget   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleSightOK  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleSightBad = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

func tileStyle(t model.Tile) tcell.Style {
	switch t {
	case model.TileWall:
		return styleWall
	case model.TilePlatform:
		return stylePlatform
	case model.TileLadder:
		return styleLadder
	case model.TileJumpPad:
		return styleJumpPad
	default:
		return styleEmpty
	}
}

// ItemGlyph возвращает символ предмета
func ItemGlyph(item model.Item) rune {
	switch it := item.(type) {
	case model.WeaponItem:
		switch it.Type {
		case model.WeaponPistol:
			return GlyphPistol
		case model.WeaponRocketLauncher:
			return GlyphLauncher
		default:
			return GlyphRifle
		}
	case model.HealthPackItem:
		return GlyphHealth
	case model.MineItem:
		return GlyphMine
	default:
		return '?'
	}
}

// View то, что нужно нарисовать для одного кадра
type View struct {
	Game   *model.Game
	UnitID int
	Target *strategy.Target
	Action *model.UnitAction
}

// DrawFrame рисует уровень так, что верхняя строка экрана соответствует
// верхнему ряду уровня. Под уровнем выводится строка состояния.
func DrawFrame(c Canvas, v View) {
	if v.Game == nil {
		return
	}
	level := v.Game.Level
	height := level.Height()

	put := func(p vec.Vec2Float, r rune, style tcell.Style) {
		cell := p.ToVec2()
		if !level.InBounds(cell.X, cell.Y) {
			return
		}
		c.SetContent(cell.X, height-1-cell.Y, r, nil, style)
	}

	for x := 0; x < level.Width(); x++ {
		for y := 0; y < height; y++ {
			t := level.Tile(x, y)
			c.SetContent(x, height-1-y, rune(t.Glyph()), nil, tileStyle(t))
		}
	}

	for _, lb := range v.Game.LootBoxes {
		put(lb.Position, ItemGlyph(lb.Item), styleLoot)
	}

	self, hasSelf := v.Game.UnitByID(v.UnitID)

	if hasSelf && v.Target != nil {
		if enemy := v.Target.Nearest.Enemy; enemy != nil {
			style := styleSightOK
			if !physics.HasClearShot(self.Position, enemy.Position, level) {
				style = styleSightBad
			}
			for _, p := range physics.SightLine(self.Position, enemy.Position) {
				put(p, GlyphSight, style)
			}
		}
		if v.Target.HasPosition() {
			put(v.Target.Position, GlyphTarget, styleTarget)
		}
	}

	for i := range v.Game.Units {
		u := &v.Game.Units[i]
		switch {
		case u.ID == v.UnitID:
			put(u.Position, GlyphSelf, styleSelf)
		case hasSelf && u.IsEnemyOf(self):
			put(u.Position, GlyphEnemy, styleEnemy)
		default:
			put(u.Position, GlyphAlly, styleAlly)
		}
	}

	drawText(c, 0, height, StatusLine(v), styleStatus)
}

// StatusLine описывает кадр одной строкой
func StatusLine(v View) string {
	line := fmt.Sprintf("tick %d unit %d", v.Game.CurrentTick, v.UnitID)
	if self, ok := v.Game.UnitByID(v.UnitID); ok {
		line += fmt.Sprintf(" hp %d", self.Health)
		if self.Weapon != nil {
			line += fmt.Sprintf(" %s[%d]", self.Weapon.Type, self.Weapon.Magazine)
		}
	}
	if v.Target != nil {
		line += " target " + v.Target.Kind.String()
		if v.Target.HasPosition() {
			line += " " + v.Target.Position.String()
		}
	}
	if a := v.Action; a != nil {
		line += fmt.Sprintf(" v=%.2f", a.Velocity)
		for _, flag := range []struct {
			on   bool
			name string
		}{
			{a.Jump, "jump"},
			{a.Shoot, "shoot"},
			{a.Reload, "reload"},
			{a.SwapWeapon, "swap"},
			{a.PlantMine, "mine"},
		} {
			if flag.on {
				line += " " + flag.name
			}
		}
	}
	return line
}

func drawText(c Canvas, x, y int, text string, style tcell.Style) {
	width, height := c.Size()
	if y >= height {
		return
	}
	for _, r := range text {
		if x >= width {
			return
		}
		c.SetContent(x, y, r, nil, style)
		x++
	}
}
