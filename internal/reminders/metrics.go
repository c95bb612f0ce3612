package reminders

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chargeminder/chargeminder/internal/domain"
)

var (
	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "chargeminder",
		Subsystem: "reminders",
		Name:      "sweep_duration_seconds",
		Help:      "Duration of reminder sweeps.",
		Buckets:   prometheus.DefBuckets,
	})

	sweepCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "chargeminder",
		Subsystem: "reminders",
		Name:      "sweep_candidates",
		Help:      "Candidates examined per sweep.",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})

	remindersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chargeminder",
		Subsystem: "reminders",
		Name:      "processed_total",
		Help:      "Reminder send outcomes by result.",
	}, []string{"result"})
)

func observeSweep(result *domain.RunResult, elapsed time.Duration) {
	sweepDuration.Observe(elapsed.Seconds())
	sweepCandidates.Observe(float64(result.Candidates))
}

func recordReminder(result string) {
	remindersTotal.WithLabelValues(result).Inc()
}
