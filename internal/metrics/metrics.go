package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nexttrain"

var (
	// Bot metrics
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bot",
		Name:      "updates_total",
		Help:      "Total Telegram updates handled, by command and outcome",
	}, []string{"command", "outcome"})

	HandlerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "bot",
		Name:      "handler_duration_seconds",
		Help:      "Handler latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"command"})

	ActiveDialogs = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "bot",
		Name:      "active_dialogs",
		Help:      "Dialogs waiting for a station choice",
	})

	DialogTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bot",
		Name:      "dialog_timeouts_total",
		Help:      "Dialogs closed by the inactivity timeout",
	})

	// Metro metrics
	ScheduleLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "metro",
		Name:      "schedule_lookups_total",
		Help:      "Schedule lookups by number of trains found (0, 1, many)",
	}, []string{"trains"})

	MetroClosedReplies = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "metro",
		Name:      "closed_replies_total",
		Help:      "Requests answered with the metro-closed notice",
	})

	// Database pool metrics
	DBConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Connections open in the database pool",
	})

	DBConnsInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "pool_conns_in_use",
		Help:      "Connections currently in use",
	})

	DBConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})

	DBWaitCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "pool_wait_count",
		Help:      "Total times waited for a connection",
	})
)

// ObserveHandler records one handled update.
func ObserveHandler(command string, err error, took time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpdatesTotal.WithLabelValues(command, outcome).Inc()
	HandlerDuration.WithLabelValues(command).Observe(took.Seconds())
}

// ObserveSchedule records a schedule lookup by the number of trains found.
func ObserveSchedule(found int) {
	label := "many"
	switch found {
	case 0:
		label = "0"
	case 1:
		label = "1"
	}
	ScheduleLookups.WithLabelValues(label).Inc()
}

// UpdateDBPoolMetrics copies database/sql pool stats into the gauges.
func UpdateDBPoolMetrics(s sql.DBStats) {
	DBConnsOpen.Set(float64(s.OpenConnections))
	DBConnsInUse.Set(float64(s.InUse))
	DBConnsIdle.Set(float64(s.Idle))
	DBWaitCount.Set(float64(s.WaitCount))
}

// Handler serves the Prometheus /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
