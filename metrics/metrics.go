// Package metrics exports bridge activity as prometheus counters.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mediabridge/mediabridge/constant"
	"github.com/mediabridge/mediabridge/log"
	"github.com/mediabridge/mediabridge/media"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements media.Recorder on top of a prometheus registry.
type Collector struct {
	commands      *prometheus.CounterVec
	notifications *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	handles       prometheus.Gauge
}

var _ media.Recorder = (*Collector)(nil)

// New registers the bridge metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: constant.Mediabridge,
			Name:      "commands_total",
			Help:      "Commands sent to the native media service.",
		}, []string{"action"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: constant.Mediabridge,
			Name:      "notifications_total",
			Help:      "Status notifications routed to a handle.",
		}, []string{"kind"}),
		dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: constant.Mediabridge,
			Name:      "notifications_dropped_total",
			Help:      "Status notifications that could not be routed.",
		}, []string{"reason"}),
		handles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: constant.Mediabridge,
			Name:      "handles_live",
			Help:      "Handles currently held in the registry.",
		}),
	}
}

func (c *Collector) CommandIssued(action string) {
	c.commands.WithLabelValues(action).Inc()
}

func (c *Collector) NotificationDispatched(kind media.MessageKind) {
	c.notifications.WithLabelValues(kind.String()).Inc()
}

func (c *Collector) NotificationDropped(reason string) {
	c.dropped.WithLabelValues(reason).Inc()
}

func (c *Collector) HandlesLive(n int) {
	c.handles.Set(float64(n))
}

// Server serves /metrics for a gatherer.
type Server struct {
	http *http.Server
}

// Serve starts the metrics endpoint on addr in the background.
func Serve(addr string, gatherer prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s := &Server{http: &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}

	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server on %s: %v", addr, err)
		}
	}()

	log.Infof("serving metrics on %s/metrics", addr)
	return s
}

// Handler exposes the underlying mux, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Shutdown stops the endpoint.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
