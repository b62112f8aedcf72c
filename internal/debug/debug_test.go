package debug

import (
	"bytes"
	"testing"

	"github.com/annel0/aicup-bot/internal/logging"
	"github.com/annel0/aicup-bot/internal/vec"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_Logs(t *testing.T) {
	rec := NewRecorder()
	rec.Draw(Log{Text: "Target pos: {10, 5}"})
	rec.Draw(Line{P1: vec.Vec2Float{X: 1, Y: 1}, P2: vec.Vec2Float{X: 2, Y: 2}})
	rec.Draw(Log{Text: "second"})

	assert.Len(t, rec.Items, 3)
	assert.Equal(t, []string{"Target pos: {10, 5}", "second"}, rec.Logs())

	rec.Reset()
	assert.Empty(t, rec.Items)
	assert.Nil(t, rec.Logs())
}

func TestLogSink_WritesDescription(t *testing.T) {
	var buf bytes.Buffer
	sink := &LogSink{Logger: logging.NewWriterLogger("debug", &buf, logging.TRACE)}

	sink.Draw(Log{Text: "Target pos: {6, 5}"})
	sink.Draw(Rect{Pos: vec.Vec2Float{X: 1, Y: 2}, Size: vec.Vec2Float{X: 1, Y: 1}})

	assert.Contains(t, buf.String(), "Target pos: {6, 5}")
	assert.Contains(t, buf.String(), "rect {1, 2} size {1, 1}")
}

func TestDiscard(t *testing.T) {
	var d Debug = Discard{}
	assert.NotPanics(t, func() { d.Draw(Log{Text: "x"}) })
}
