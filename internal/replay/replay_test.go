package replay

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/record"
	"github.com/annel0/aicup-bot/internal/strategy"
	"github.com/annel0/aicup-bot/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFrame(tick int) Frame {
	return Frame{
		MatchID: "m1",
		Tick:    tick,
		UnitID:  1,
		Game: &model.Game{
			CurrentTick: tick,
			Players:     []model.Player{{ID: 1}, {ID: 2}},
			Units: []model.Unit{
				{ID: 1, PlayerID: 1, Health: 100, Position: vec.Vec2Float{X: 2.5, Y: 1}},
				{ID: 2, PlayerID: 2, Health: 80, Position: vec.Vec2Float{X: 5.5, Y: 1}},
			},
			LootBoxes: []model.LootBox{
				{Position: vec.Vec2Float{X: 3.5, Y: 1}, Item: model.WeaponItem{Type: model.WeaponAssaultRifle}},
			},
			Level: model.MustParseLevel(
				"########",
				"#......#",
				"########",
			),
		},
	}
}

func TestWriterReader_RoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, compress)
		require.NoError(t, err)

		require.NoError(t, w.WriteFrame(sampleFrame(1)))
		require.NoError(t, w.WriteRecord(record.Record{MatchID: "m1", Tick: 1, UnitID: 1,
			Action: model.UnitAction{Velocity: 3}, Target: strategy.Target{Kind: strategy.TargetEnemy}}))
		require.NoError(t, w.WriteFrame(sampleFrame(2)))
		require.NoError(t, w.Close())
		assert.Equal(t, 3, w.Written())

		if compress {
			assert.True(t, bytes.HasPrefix(buf.Bytes(), zstdMagic))
		} else {
			assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
		}

		r, err := NewReader(&buf)
		require.NoError(t, err)
		frames, records, err := r.ReadAll()
		require.NoError(t, err)
		require.NoError(t, r.Close())

		require.Len(t, frames, 2)
		require.Len(t, records, 1)
		assert.Equal(t, 2, frames[1].Tick)
		assert.Equal(t, sampleFrame(1).Game.Level.Rows(), frames[0].Game.Level.Rows())
		assert.Equal(t, model.WeaponItem{Type: model.WeaponAssaultRifle}, frames[0].Game.LootBoxes[0].Item)
		assert.Equal(t, strategy.TargetEnemy, records[0].Target.Kind)
		assert.NoError(t, frames[0].Validate())
	}
}

func TestCreateOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.jsonl.zst")

	w, err := Create(path, false)
	require.NoError(t, err)
	require.NoError(t, w.WriteFrame(sampleFrame(7)))
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	e, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, KindFrame, e.Kind)
	assert.Equal(t, 7, e.Frame.Tick)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)

	_, err = Open(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestReader_CorruptLines(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"не json", "{\"kind\":\"frame\"\n"},
		{"неизвестный тип", "{\"kind\":\"movie\"}\n"},
		{"кадр без тела", "{\"kind\":\"frame\"}\n"},
		{"неизвестный предмет", `{"kind":"frame","frame":{"game":{"loot_boxes":[{"position":{"x":1,"y":1},"size":{"x":1,"y":1},"item":{"type":"banana"}}]}}}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader("\n" + tt.data))
			require.NoError(t, err)

			_, err = r.Next()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorruptFrame))
			assert.Contains(t, err.Error(), "строка 2")
		})
	}
}

func TestFrame_Validate(t *testing.T) {
	f := sampleFrame(1)
	f.UnitID = 99
	assert.Error(t, f.Validate())

	f = sampleFrame(1)
	f.Game.Level = nil
	assert.ErrorIs(t, f.Validate(), model.ErrMissingLevel)

	assert.ErrorIs(t, (&Frame{}).Validate(), model.ErrMissingLevel)

	f = sampleFrame(1)
	f.MatchID = "cup/final"
	assert.ErrorIs(t, f.Validate(), record.ErrInvalidMatchID)
}
