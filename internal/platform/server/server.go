package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ogurasousui/personnel-promotion/internal/adapters/grpc/handler"
	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Services はサーバーに登録するユースケースです。
type Services struct {
	Members    member.UseCase
	Records    record.UseCase
	Promotions promotion.UseCase
}

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
}

var serviceNames = []string{
	handler.MemberServiceName,
	handler.RecordServiceName,
	handler.PromotionServiceName,
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
func New(listenAddr string, svc Services, opts ...grpc.ServerOption) *Server {
	opts = append([]grpc.ServerOption{grpc.StatsHandler(otelgrpc.NewServerHandler())}, opts...)
	srv := grpc.NewServer(opts...)

	handler.RegisterMemberServiceServer(srv, handler.NewMemberHandler(svc.Members))
	handler.RegisterRecordServiceServer(srv, handler.NewRecordHandler(svc.Records))
	handler.RegisterPromotionServiceServer(srv, handler.NewPromotionHandler(svc.Promotions))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, name := range serviceNames {
		healthServer.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     healthServer,
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
