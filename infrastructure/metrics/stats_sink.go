package metrics

import (
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "latticed"

// StatsSink counts ledger events in a prometheus counter labelled by
// type, detail and direction
type StatsSink struct {
	events *prometheus.CounterVec
}

// NewStatsSink creates a StatsSink and registers its counter with registerer
func NewStatsSink(registerer prometheus.Registerer) (*StatsSink, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Count of ledger events by type, detail and direction.",
	}, []string{"type", "detail", "dir"})

	err := registerer.Register(events)
	if err != nil {
		return nil, errors.Wrap(err, "could not register the event counter")
	}
	return &StatsSink{events: events}, nil
}

// Inc counts one event
func (s *StatsSink) Inc(statType model.StatType, detail string, dir model.StatDir) {
	s.events.WithLabelValues(string(statType), detail, string(dir)).Inc()
}

// Add counts value events at once
func (s *StatsSink) Add(statType model.StatType, detail string, dir model.StatDir, value uint64) {
	s.events.WithLabelValues(string(statType), detail, string(dir)).Add(float64(value))
}

// Counter returns the counter of the given events
func (s *StatsSink) Counter(statType model.StatType, detail string, dir model.StatDir) prometheus.Counter {
	return s.events.WithLabelValues(string(statType), detail, string(dir))
}
