// Package metrics exposes the Prometheus registry and the counters the
// service records.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "csquare"

// Registry is the Prometheus registry for all service metrics.
var Registry = prometheus.NewRegistry()

// AppInfo exposes version information as labels (value is always 1).
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// LoginAttemptsTotal counts admin login attempts by outcome.
// result: success|invalid_credentials|rate_limited
var LoginAttemptsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of admin login attempts",
	},
	[]string{"result"},
)

// RateLimitedTotal counts rejected requests by limiter scope.
// scope: login|global
var RateLimitedTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by a rate limiter",
	},
	[]string{"scope"},
)

// ContactSubmissionsTotal counts accepted contact-form submissions by type.
var ContactSubmissionsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_submissions_total",
		Help:      "Total number of accepted contact form submissions",
	},
	[]string{"type"},
)

// ProxiedImagesTotal counts image proxy fetches by outcome.
// outcome: success|not_found|timeout|forbidden|error
var ProxiedImagesTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proxied_images_total",
		Help:      "Total number of image proxy fetches",
	},
	[]string{"outcome"},
)

// Init registers runtime collectors and sets version info.
func Init(version, commit, buildDate string) {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}
