package render

import (
	"github.com/gdamore/tcell/v2"
)

// Viewer листает кадры в терминале
type Viewer struct {
	screen tcell.Screen
	views  []View
	index  int
}

// NewViewer создаёт просмотрщик поверх инициализированного экрана
func NewViewer(screen tcell.Screen, views []View) *Viewer {
	return &Viewer{screen: screen, views: views}
}

// Index возвращает номер текущего кадра
func (v *Viewer) Index() int {
	return v.index
}

// Draw перерисовывает текущий кадр
func (v *Viewer) Draw() {
	v.screen.Clear()
	if len(v.views) > 0 {
		DrawFrame(v.screen, v.views[v.index])
	}
	v.screen.Show()
}

// HandleKey обрабатывает нажатие. Возвращает false, если нужно выйти.
// n/→ следующий кадр, p/← предыдущий, g/G первый и последний, q/Esc выход.
func (v *Viewer) HandleKey(key tcell.Key, r rune) bool {
	last := len(v.views) - 1
	switch {
	case key == tcell.KeyEscape || key == tcell.KeyCtrlC || (key == tcell.KeyRune && r == 'q'):
		return false
	case key == tcell.KeyRight || (key == tcell.KeyRune && r == 'n'):
		if v.index < last {
			v.index++
		}
	case key == tcell.KeyLeft || (key == tcell.KeyRune && r == 'p'):
		if v.index > 0 {
			v.index--
		}
	case key == tcell.KeyRune && r == 'g':
		v.index = 0
	case key == tcell.KeyRune && r == 'G':
		if last >= 0 {
			v.index = last
		}
	}
	return true
}

// Run обрабатывает события до выхода
func (v *Viewer) Run() {
	v.Draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if !v.HandleKey(ev.Key(), ev.Rune()) {
				return
			}
			v.Draw()
		case *tcell.EventResize:
			v.screen.Sync()
			v.Draw()
		case nil:
			return
		}
	}
}
