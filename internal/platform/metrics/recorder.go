package metrics

import (
	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "promotion"

// Recorder は promotion.Recorder の Prometheus 実装です。
type Recorder struct {
	evaluations *prometheus.CounterVec
	decisions   *prometheus.CounterVec
}

var _ promotion.Recorder = (*Recorder)(nil)

// NewRecorder は reg にカウンタを登録した Recorder を生成します。
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Eligibility evaluations by verdict.",
		}, []string{"verdict"}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Promotion, activation and vacancy decisions by outcome.",
		}, []string{"operation", "outcome"}),
	}
}

// RecordEvaluation は判定結果を 1 件数えます。
func (r *Recorder) RecordEvaluation(verdict promotion.Verdict) {
	r.evaluations.WithLabelValues(string(verdict)).Inc()
}

// RecordDecision は操作の結果を 1 件数えます。
func (r *Recorder) RecordDecision(operation, outcome string) {
	r.decisions.WithLabelValues(operation, outcome).Inc()
}
