package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts workspace activity. A nil *Metrics records nothing.
type Metrics struct {
	commands *prometheus.CounterVec
	renders  *prometheus.CounterVec
	exports  *prometheus.CounterVec
	ai       *prometheus.CounterVec
	saves    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resume_builder",
			Name:      "commands_total",
			Help:      "Dispatched editor commands by name and outcome",
		}, []string{"command", "outcome"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resume_builder",
			Name:      "renders_total",
			Help:      "Themed renders by theme",
		}, []string{"theme"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resume_builder",
			Name:      "exports_total",
			Help:      "Completed exports by format",
		}, []string{"format"}),
		ai: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resume_builder",
			Name:      "ai_requests_total",
			Help:      "AI requests by operation and outcome",
		}, []string{"op", "outcome"}),
		saves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resume_builder",
			Name:      "autosaves_total",
			Help:      "Documents written by autosave",
		}),
	}
	for _, c := range []prometheus.Collector{m.commands, m.renders, m.exports, m.ai, m.saves} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) command(name string, err error) {
	if m != nil {
		m.commands.WithLabelValues(name, outcome(err)).Inc()
	}
}

func (m *Metrics) rendered(themeID string) {
	if m != nil {
		m.renders.WithLabelValues(themeID).Inc()
	}
}

func (m *Metrics) exported(format string) {
	if m != nil {
		m.exports.WithLabelValues(format).Inc()
	}
}

func (m *Metrics) aiRequest(op string, err error) {
	if m != nil {
		m.ai.WithLabelValues(op, outcome(err)).Inc()
	}
}

func (m *Metrics) saved() {
	if m != nil {
		m.saves.Inc()
	}
}
