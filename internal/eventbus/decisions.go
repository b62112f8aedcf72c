package eventbus

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/annel0/aicup-bot/internal/record"
	"github.com/google/uuid"
)

// NewDecisionEnvelope упаковывает запись решения в событие
func NewDecisionEnvelope(source string, rec record.Record) (*Envelope, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal decision: %w", err)
	}

	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: EventDecision,
		MatchID:   rec.MatchID,
		Payload:   payload,
		Metadata: map[string]string{
			"tick":    strconv.Itoa(rec.Tick),
			"unit_id": strconv.Itoa(rec.UnitID),
			"target":  rec.Target.Kind.String(),
		},
	}, nil
}

// NewMatchEnvelope создаёт событие начала или конца матча
func NewMatchEnvelope(source, eventType, matchID string) *Envelope {
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		MatchID:   matchID,
		Priority:  5,
	}
}

// DecodeDecision извлекает запись решения из события
func DecodeDecision(ev *Envelope) (record.Record, error) {
	var rec record.Record
	if ev.EventType != EventDecision {
		return rec, fmt.Errorf("событие %s не является решением", ev.EventType)
	}
	if err := json.Unmarshal(ev.Payload, &rec); err != nil {
		return rec, fmt.Errorf("unmarshal decision: %w", err)
	}
	return rec, nil
}
