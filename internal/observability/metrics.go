package observability

import (
	"time"

	"github.com/annel0/aicup-bot/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

// DecisionMetrics Prometheus-метрики принятия решений
type DecisionMetrics struct {
	decisions *prometheus.CounterVec
	shots     prometheus.Counter
	reloads   prometheus.Counter
	mines     prometheus.Counter
	swaps     prometheus.Counter
	duration  prometheus.Histogram
}

// NewDecisionMetrics создаёт метрики и регистрирует их в reg.
// Если reg == nil, используется глобальный регистр Prometheus.
func NewDecisionMetrics(reg prometheus.Registerer) *DecisionMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &DecisionMetrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bot",
			Name:      "decisions_total",
			Help:      "Число принятых решений по виду цели.",
		}, []string{"target"}),
		shots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bot",
			Name:      "shots_total",
			Help:      "Решений со стрельбой.",
		}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bot",
			Name:      "reloads_total",
			Help:      "Решений с перезарядкой.",
		}),
		mines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bot",
			Name:      "mines_planted_total",
			Help:      "Решений с установкой мины.",
		}),
		swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bot",
			Name:      "weapon_swaps_total",
			Help:      "Решений со сменой оружия.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bot",
			Name:      "decision_duration_seconds",
			Help:      "Время принятия одного решения.",
			Buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3},
		}),
	}

	reg.MustRegister(m.decisions, m.shots, m.reloads, m.mines, m.swaps, m.duration)
	return m
}

// Observe учитывает одно решение
func (m *DecisionMetrics) Observe(target string, action model.UnitAction, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.decisions.WithLabelValues(target).Inc()
	if action.Shoot {
		m.shots.Inc()
	}
	if action.Reload {
		m.reloads.Inc()
	}
	if action.PlantMine {
		m.mines.Inc()
	}
	if action.SwapWeapon {
		m.swaps.Inc()
	}
	m.duration.Observe(elapsed.Seconds())
}
