// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
	RecordResponseUpserted()
	RecordRosterChanges(op string, count int)
	RecordRosterSyncFailure(reason string)
}

var _ MetricsCollector = (*Collector)(nil)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus        *prometheus.CounterVec
	requestDuration   prometheus.Histogram
	responsesUpserted prometheus.Counter
	rosterChanges     *prometheus.CounterVec
	rosterSyncFail    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamcal_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "teamcal_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		responsesUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "teamcal_responses_upserted_total",
			Help: "登録・上書きされた出欠回答の合計数",
		}),
		rosterChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamcal_roster_changes_total",
			Help: "名簿同期で適用された変更数（操作別）",
		}, []string{"op"}),
		rosterSyncFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamcal_roster_sync_failures_total",
			Help: "名簿同期の失敗数（原因別）",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestDuration,
		c.responsesUpserted,
		c.rosterChanges,
		c.rosterSyncFail,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// RecordResponseUpserted は出欠回答の登録・上書きを記録する。
func (c *Collector) RecordResponseUpserted() {
	c.responsesUpserted.Inc()
}

// RecordRosterChanges は名簿同期の変更数を操作別（delete/update/insert）に記録する。
func (c *Collector) RecordRosterChanges(op string, count int) {
	c.rosterChanges.WithLabelValues(op).Add(float64(count))
}

// RecordRosterSyncFailure は名簿同期の失敗を原因別に記録する。
func (c *Collector) RecordRosterSyncFailure(reason string) {
	c.rosterSyncFail.WithLabelValues(reason).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
