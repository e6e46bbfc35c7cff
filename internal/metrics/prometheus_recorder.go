// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"fmt"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "tagpin"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry        *prom.Registry
	requests        *prom.CounterVec
	requestDuration *prom.HistogramVec
	apiErrors       *prom.CounterVec
	repositories    *prom.GaugeVec
	runDuration     prom.Gauge
	lastRunSuccess  prom.Gauge
	lastRunTime     prom.Gauge
}

// NewPrometheusRecorder constructs and registers the run metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "GitHub API requests by endpoint and HTTP status code",
		}, []string{"endpoint", "code"}),
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "GitHub API request latency",
			Buckets:   prom.DefBuckets,
		}, []string{"endpoint"}),
		apiErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "GitHub API error objects received in place of a list",
		}, []string{"endpoint"}),
		repositories: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "repositories",
			Help:      "Repositories listed, matched by prefix, and resolved to a release tag in the last run",
		}, []string{"stage"}),
		runDuration: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		lastRunSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run wrote a manifest, 0 otherwise",
		}),
		lastRunTime: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
	reg.MustRegister(pr.requests, pr.requestDuration, pr.apiErrors, pr.repositories,
		pr.runDuration, pr.lastRunSuccess, pr.lastRunTime)
	return pr
}

func (p *PrometheusRecorder) ObserveRequest(endpoint string, status int, d time.Duration) {
	p.requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	p.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncAPIError(endpoint string) {
	p.apiErrors.WithLabelValues(endpoint).Inc()
}

func (p *PrometheusRecorder) SetRepositories(stage string, n int) {
	p.repositories.WithLabelValues(stage).Set(float64(n))
}

func (p *PrometheusRecorder) ObserveRun(d time.Duration, success bool) {
	p.runDuration.Set(d.Seconds())
	if success {
		p.lastRunSuccess.Set(1)
	} else {
		p.lastRunSuccess.Set(0)
	}
	p.lastRunTime.SetToCurrentTime()
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text exposition format. The write is atomic.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
