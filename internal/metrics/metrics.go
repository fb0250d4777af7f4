package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"creditScope/internal/model"
)

// Recorder collects run metrics on its own registry so batch runs can dump
// them to a node_exporter textfile.
type Recorder struct {
	registry *prometheus.Registry

	// RecordsDecoded counts decoded records per action
	RecordsDecoded *prometheus.CounterVec
	// RecordsRejected counts input lines that failed to load
	RecordsRejected prometheus.Counter
	// WalletsScored counts scored wallets
	WalletsScored prometheus.Counter
	// CreditScores tracks the score distribution in 100-point buckets
	CreditScores prometheus.Histogram
	// LastRunTimestamp is the unix time of the last completed run
	LastRunTimestamp prometheus.Gauge
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		RecordsDecoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditscope_records_decoded_total",
				Help: "Total number of decoded transaction records",
			},
			[]string{"action"},
		),
		RecordsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditscope_records_rejected_total",
			Help: "Total number of input records that failed to load",
		}),
		WalletsScored: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditscope_wallets_scored_total",
			Help: "Total number of wallets scored",
		}),
		CreditScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditscope_credit_score",
			Help:    "Distribution of wallet credit scores",
			Buckets: prometheus.LinearBuckets(100, 100, 10),
		}),
		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "creditscope_last_run_timestamp_seconds",
			Help: "Unix time of the last completed scoring run",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveDecoded(records []model.DecodedTransaction) {
	for _, rec := range records {
		r.RecordsDecoded.WithLabelValues(actionLabel(rec.Action)).Inc()
	}
}

func (r *Recorder) ObserveRejected(n int) {
	r.RecordsRejected.Add(float64(n))
}

func (r *Recorder) ObserveScores(scores map[string]model.WalletScore) {
	r.WalletsScored.Add(float64(len(scores)))
	for _, s := range scores {
		r.CreditScores.Observe(s.CreditScore)
	}
	r.LastRunTimestamp.SetToCurrentTime()
}

// WriteTextfile writes the registry in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// actionLabel keeps label cardinality bounded.
func actionLabel(action string) string {
	switch action {
	case model.ActionDeposit, model.ActionBorrow, model.ActionRepay, model.ActionRedeem, model.ActionLiquidation:
		return action
	default:
		return "other"
	}
}
