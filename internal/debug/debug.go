// Package debug описывает канал отладочной отрисовки: стратегия пишет в него
// подсказки, а получатель решает, что с ними делать.
package debug

import (
	"fmt"

	"github.com/annel0/aicup-bot/internal/logging"
	"github.com/annel0/aicup-bot/internal/vec"
)

// Color в формате RGBA, компоненты от 0 до 1
type Color struct {
	R, G, B, A float32
}

// CustomData закрытый набор отладочных примитивов: Log, Line, Rect
type CustomData interface {
	isCustomData()
}

// Log текстовая запись
type Log struct {
	Text string
}

// Line отрезок между двумя точками
type Line struct {
	P1, P2 vec.Vec2Float
	Width  float32
	Color  Color
}

// Rect прямоугольник
type Rect struct {
	Pos   vec.Vec2Float
	Size  vec.Vec2Float
	Color Color
}

func (Log) isCustomData()  {}
func (Line) isCustomData() {}
func (Rect) isCustomData() {}

// Debug принимает отладочные примитивы. Только запись.
type Debug interface {
	Draw(data CustomData)
}

// Discard игнорирует всё
type Discard struct{}

func (Discard) Draw(CustomData) {}

// Recorder накапливает примитивы в памяти
type Recorder struct {
	Items []CustomData
}

// NewRecorder создаёт пустой Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Draw(data CustomData) {
	r.Items = append(r.Items, data)
}

// Logs возвращает тексты всех записей Log по порядку
func (r *Recorder) Logs() []string {
	var out []string
	for _, item := range r.Items {
		if l, ok := item.(Log); ok {
			out = append(out, l.Text)
		}
	}
	return out
}

// Reset очищает накопленное
func (r *Recorder) Reset() {
	r.Items = r.Items[:0]
}

// LogSink пересылает примитивы в логгер компонента
type LogSink struct {
	Logger *logging.Logger
}

// NewLogSink создаёт приёмник поверх компонентного логгера "debug"
func NewLogSink() *LogSink {
	return &LogSink{Logger: logging.GetDebugLogger()}
}

func (s *LogSink) Draw(data CustomData) {
	s.Logger.Debug("%s", Describe(data))
}

// Describe возвращает текстовое описание примитива
func Describe(data CustomData) string {
	switch d := data.(type) {
	case Log:
		return d.Text
	case Line:
		return fmt.Sprintf("line %s -> %s", d.P1, d.P2)
	case Rect:
		return fmt.Sprintf("rect %s size %s", d.Pos, d.Size)
	default:
		return fmt.Sprintf("unknown %T", data)
	}
}
