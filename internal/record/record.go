package record

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/strategy"
)

// Record принятое решение одного юнита на одном тике
type Record struct {
	MatchID   string           `json:"match_id"`
	Tick      int              `json:"tick"`
	UnitID    int              `json:"unit_id"`
	Action    model.UnitAction `json:"action"`
	Target    strategy.Target  `json:"target"`
	Elapsed   time.Duration    `json:"elapsed_ns"`
	CreatedAt time.Time        `json:"created_at"`
}

// Key возвращает ключ записи. Ключи одного матча упорядочены по тику
// и затем по юниту, поэтому префиксный обход отдаёт их по порядку.
func (r Record) Key() []byte {
	return []byte(fmt.Sprintf("%s%010d/%06d", MatchPrefix(r.MatchID), r.Tick, r.UnitID))
}

// ErrInvalidMatchID возвращается для идентификатора матча с разделителем ключа
var ErrInvalidMatchID = errors.New("record: недопустимый идентификатор матча")

// ValidateMatchID проверяет, что идентификатор не содержит '/'. Иначе ключи
// матча "cup/final" попали бы под префикс матча "cup".
func ValidateMatchID(matchID string) error {
	if strings.Contains(matchID, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidMatchID, matchID)
	}
	return nil
}

// MatchPrefix возвращает общий префикс ключей матча
func MatchPrefix(matchID string) []byte {
	return []byte("decision/" + matchID + "/")
}

// Summary агрегированная статистика по набору решений
type Summary struct {
	Decisions int                         `json:"decisions"`
	ByTarget  map[strategy.TargetKind]int `json:"by_target"`
	Shots     int                         `json:"shots"`
	Reloads   int                         `json:"reloads"`
	Mines     int                         `json:"mines"`
	Swaps     int                         `json:"swaps"`
	Jumps     int                         `json:"jumps"`
	Elapsed   time.Duration               `json:"elapsed_ns"`
}

// Summarize считает статистику по записям
func Summarize(records []Record) Summary {
	s := Summary{ByTarget: make(map[strategy.TargetKind]int)}
	for _, r := range records {
		s.Decisions++
		s.ByTarget[r.Target.Kind]++
		s.Elapsed += r.Elapsed
		if r.Action.Shoot {
			s.Shots++
		}
		if r.Action.Reload {
			s.Reloads++
		}
		if r.Action.PlantMine {
			s.Mines++
		}
		if r.Action.SwapWeapon {
			s.Swaps++
		}
		if r.Action.Jump {
			s.Jumps++
		}
	}
	return s
}
