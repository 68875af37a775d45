package gamification

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var eventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kidcalc",
	Subsystem: "gamification",
	Name:      "events_total",
	Help:      "Gamification events appended to the log, by type.",
}, []string{"type"})

// RegisterMetrics exposes the event counter and the engine's points, level
// and streak as Prometheus gauges.
func RegisterMetrics(reg prometheus.Registerer, e *Engine) error {
	gauge := func(name, help string, read func(Progress) int) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "kidcalc",
			Subsystem: "gamification",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(read(e.Progress())) })
	}

	collectors := []prometheus.Collector{
		eventsTotal,
		gauge("points", "Total points earned.", func(p Progress) int { return p.Points }),
		gauge("level", "Current level derived from points.", Progress.Level),
		gauge("streak_days", "Consecutive active days.", func(p Progress) int { return p.Streak }),
		gauge("achievements", "Unlocked achievements.", func(p Progress) int { return len(p.Achievements) }),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
