package replay

import (
	"errors"
	"fmt"

	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/record"
)

// ErrCorruptFrame возвращается, если строку файла не удалось разобрать
var ErrCorruptFrame = errors.New("replay: повреждённая запись")

// zstdMagic первые байты zstd-кадра
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Kind определяет тип строки в файле
type Kind string

const (
	KindFrame  Kind = "frame"
	KindRecord Kind = "record"
)

// Frame снимок мира, для которого нужно принять решение за юнита UnitID
type Frame struct {
	MatchID string      `json:"match_id"`
	Tick    int         `json:"tick"`
	UnitID  int         `json:"unit_id"`
	Game    *model.Game `json:"game"`
}

// Validate проверяет, что кадр пригоден для прогона стратегии
func (f *Frame) Validate() error {
	if err := record.ValidateMatchID(f.MatchID); err != nil {
		return fmt.Errorf("кадр %d: %w", f.Tick, err)
	}
	if f.Game == nil {
		return fmt.Errorf("кадр %d: %w", f.Tick, model.ErrMissingLevel)
	}
	if err := f.Game.Validate(); err != nil {
		return fmt.Errorf("кадр %d: %w", f.Tick, err)
	}
	if _, ok := f.Game.UnitByID(f.UnitID); !ok {
		return fmt.Errorf("кадр %d: юнит %d не найден", f.Tick, f.UnitID)
	}
	return nil
}

// Entry одна строка файла: кадр или запись решения
type Entry struct {
	Kind   Kind           `json:"kind"`
	Frame  *Frame         `json:"frame,omitempty"`
	Record *record.Record `json:"record,omitempty"`
}
