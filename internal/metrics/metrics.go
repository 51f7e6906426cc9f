package metrics

import (
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	spawned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "apphub",
		Name:      "processes_spawned_total",
		Help:      "Total number of processes spawned by the supervisor.",
	})

	terminationSignals = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "apphub",
		Name:      "termination_signals_total",
		Help:      "Total number of termination signals delivered, by signal.",
	}, []string{"signal"})

	reaped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "apphub",
		Name:      "processes_reaped_total",
		Help:      "Total number of owned processes whose exit was reaped.",
	})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "apphub",
		Name:      "build_info",
		Help:      "Build metadata for the running apphub binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(spawned, terminationSignals, reaped, buildInfo)
}

// Registry returns the Prometheus registry containing all apphub metrics.
func Registry() *prometheus.Registry {
	return registry
}

// IncSpawned records one spawned process.
func IncSpawned() {
	spawned.Inc()
}

// AddTerminationSignals records n delivered termination signals.
func AddTerminationSignals(signal string, n int) {
	if signal == "" || n <= 0 {
		return
	}
	terminationSignals.WithLabelValues(signal).Add(float64(n))
}

// AddReaped records n reaped process exits.
func AddReaped(n int) {
	if n <= 0 {
		return
	}
	reaped.Add(float64(n))
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}
