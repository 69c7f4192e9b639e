package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/audit"
)

var (
	// requestsTotal は gRPC メソッドと応答コードごとのリクエスト数です。
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hc_grpc_requests_total",
		Help: "Total gRPC requests by method and status code",
	}, []string{"method", "code"})

	// requestDuration は gRPC メソッドごとの処理時間です。
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hc_grpc_request_duration_seconds",
		Help:    "gRPC request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"method"})

	// mutationsTotal はコミットされた社員レコード変更の件数です。
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hc_employee_mutations_total",
		Help: "Total committed employee record mutations by action",
	}, []string{"action"})
)

// ObserveRequest は 1 件の gRPC リクエスト結果を記録します。
func ObserveRequest(method, code string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(method, code).Inc()
	requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveMutation は社員レコード変更を 1 件記録します。employee.WithMutationObserver に渡して使います。
func ObserveMutation(action audit.Action) {
	mutationsTotal.WithLabelValues(string(action)).Inc()
}

// Server は /metrics を公開する HTTP サーバーです。
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer は addr で待ち受けるメトリクスサーバーを構築します。
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler は登録済みのハンドラーを返します。
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run はサーバーを起動し、コンテキストがキャンセルされると停止します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("metrics: listen on %s: %w", s.addr, err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()

	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics: serve: %w", err)
	}
	return nil
}
