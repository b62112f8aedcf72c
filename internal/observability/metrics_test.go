package observability

import (
	"testing"
	"time"

	"github.com/annel0/aicup-bot/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDecisionMetrics(reg)

	m.Observe("enemy", model.UnitAction{Shoot: true}, time.Microsecond)
	m.Observe("enemy", model.UnitAction{Reload: true, PlantMine: true}, time.Microsecond)
	m.Observe("assault_rifle", model.UnitAction{SwapWeapon: true, Reload: true}, time.Microsecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.decisions.WithLabelValues("enemy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("assault_rifle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.shots))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reloads))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mines))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.swaps))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "bot_decision_duration_seconds")
}

func TestDecisionMetrics_NilIsNoop(t *testing.T) {
	var m *DecisionMetrics
	assert.NotPanics(t, func() {
		m.Observe("none", model.UnitAction{}, 0)
	})
}
