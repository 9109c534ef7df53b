package app

import (
	"context"
	"strconv"
	"time"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and measures
// the time spent handling them. Each observation is labeled with the phase
// (check or deliver), the message path and the ABCI result code.
type Metrics struct {
	processed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

var _ htlc.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator and registers its collectors with
// the given registerer. Nil registerer means the collectors are not exposed.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "htlc",
			Subsystem: "tx",
			Name:      "processed_total",
			Help:      "Total number of transactions processed, by phase, message path and result code.",
		}, []string{"phase", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "htlc",
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Time spent processing a transaction, by phase and message path.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"phase", "path"}),
	}
	if reg != nil {
		reg.MustRegister(m.processed, m.duration)
	}
	return m
}

// Collectors returns all collectors maintained by this decorator.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.processed, m.duration}
}

// Check implements htlc.Decorator.
func (m *Metrics) Check(ctx context.Context, info htlc.BlockInfo, store htlc.KVStore, tx htlc.Tx, next htlc.Checker) (*htlc.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, info, store, tx)
	m.observe("check", msgPath(tx), start, err)
	return res, err
}

// Deliver implements htlc.Decorator.
func (m *Metrics) Deliver(ctx context.Context, info htlc.BlockInfo, store htlc.KVStore, tx htlc.Tx, next htlc.Deliverer) (*htlc.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, info, store, tx)
	m.observe("deliver", msgPath(tx), start, err)
	return res, err
}

func (m *Metrics) observe(phase, path string, start time.Time, err error) {
	code, _ := errors.ABCIInfo(err, false)
	m.processed.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}
