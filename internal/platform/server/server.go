package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ogurasousui/hc-talent-grpc/internal/adapters/grpc/handler"
	talentv1 "github.com/ogurasousui/hc-talent-grpc/internal/adapters/grpc/talentv1"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/audit"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/dashboard"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/employee"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/operator"
)

// Services はサーバーに登録するユースケースの集合です。
type Services struct {
	Employee  employee.UseCase
	Audit     audit.UseCase
	Dashboard dashboard.UseCase
	Operator  operator.UseCase
}

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	logger     *zap.Logger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
// 操作者の解決、アクセスログ、メトリクスの各インターセプタを順に適用します。
func New(listenAddr string, services Services, logger *zap.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	interceptors := grpc.ChainUnaryInterceptor(
		MetricsInterceptor(),
		LoggingInterceptor(logger),
		handler.ActorInterceptor(services.Operator),
	)
	srv := grpc.NewServer(append([]grpc.ServerOption{interceptors}, opts...)...)

	talentv1.RegisterEmployeeServiceServer(srv, handler.NewEmployeeGrpcHandler(services.Employee))
	talentv1.RegisterAuditServiceServer(srv, handler.NewAuditGrpcHandler(services.Audit))
	talentv1.RegisterDashboardServiceServer(srv, handler.NewDashboardGrpcHandler(services.Dashboard))
	talentv1.RegisterOperatorServiceServer(srv, handler.NewOperatorGrpcHandler(services.Operator))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	for _, name := range []string{
		talentv1.EmployeeServiceName,
		talentv1.AuditServiceName,
		talentv1.DashboardServiceName,
		talentv1.OperatorServiceName,
	} {
		healthSrv.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     healthSrv,
		logger:     logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は与えられたリスナーで待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	s.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
