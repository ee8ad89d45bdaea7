// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/teamcal/internal/metrics"
	"github.com/hitoshi/teamcal/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	MetricsRecorder   middleware.HTTPMetricsRecorder
	MetricsGatherer   prometheus.Gatherer

	// サービス
	EventService    EventServiceInterface
	ResponseService ResponseServiceInterface
	PersonService   PersonServiceInterface

	// ヘルスチェック
	HealthChecker HealthChecker
}

// HealthChecker はヘルスチェックでストアの疎通を確認するためのインターフェース。
type HealthChecker interface {
	Ping() error
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → RecoveryMiddleware → LoggingMiddleware → MetricsMiddleware → RateLimitMiddleware(General)
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS ミドルウェアを最上位に適用（全ルートに効く）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	eventHandler := NewEventHandler(deps.EventService)
	responseHandler := NewResponseHandler(deps.ResponseService)
	personHandler := NewPersonHandler(deps.PersonService)

	// --- 監視用ルート（レート制限の外） ---
	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General)、書き込み系はMutationを追加
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())
		mutation := deps.RateLimiter.MutationMiddleware()

		// イベント管理
		r.Route("/api/events", func(r chi.Router) {
			r.Get("/", eventHandler.ListEvents)
			r.With(mutation).Post("/", eventHandler.CreateEvent)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", eventHandler.GetEvent)
				r.With(mutation).Put("/", eventHandler.UpdateEvent)
				r.With(mutation).Delete("/", eventHandler.DeleteEvent)

				// 出欠回答
				r.Route("/responses", func(r chi.Router) {
					r.Get("/", responseHandler.ListResponses)
					r.With(mutation).Post("/", responseHandler.RecordResponse)
					r.Get("/summary", responseHandler.GetSummary)
					r.With(mutation).Delete("/{personID}", responseHandler.DeleteResponse)
				})
			})
		})

		// イベント種別管理
		r.Route("/api/event-types", func(r chi.Router) {
			r.Get("/", eventHandler.ListEventTypes)
			r.With(mutation).Post("/", eventHandler.CreateEventType)
		})

		// メンバー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", personHandler.ListPersons)
			r.With(mutation).Post("/", personHandler.CreatePerson)
			r.With(mutation).Delete("/{id}", personHandler.DeletePerson)
		})
	})

	return r
}

// newHealthHandler はヘルスチェックハンドラーを返す。
// ストアへの疎通が取れない場合は503を返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if checker != nil {
			if err := checker.Ping(); err != nil {
				status = "unavailable"
				code = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}
