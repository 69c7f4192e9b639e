package handler

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/access"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/operator"
)

func captureActor(seen *access.Actor, found *bool) grpc.UnaryHandler {
	return func(ctx context.Context, req any) (any, error) {
		*seen, *found = access.FromContext(ctx)
		return "ok", nil
	}
}

func TestActorInterceptor_ResolvesOperator(t *testing.T) {
	t.Parallel()

	stub := &stubOperatorUseCase{resolveActor: access.Actor{Identity: "op-1", Role: access.RoleHRAdmin, Address: "10.0.0.1"}}
	interceptor := ActorInterceptor(stub)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		OperatorIDMetadataKey, "op-1",
		ForwardedForMetadataKey, "10.0.0.1, 172.16.0.1",
	))

	var (
		seen  access.Actor
		found bool
	)
	resp, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/test"}, captureActor(&seen, &found))
	if err != nil {
		t.Fatalf("interceptor returned error: %v", err)
	}
	if resp != "ok" {
		t.Errorf("expected handler response, got %v", resp)
	}
	if !found || seen.Identity != "op-1" {
		t.Fatalf("expected actor in context, got %+v", seen)
	}
	if stub.resolveID != "op-1" || stub.resolveAddress != "10.0.0.1" {
		t.Errorf("unexpected resolve arguments %s %s", stub.resolveID, stub.resolveAddress)
	}
}

func TestActorInterceptor_PeerAddress(t *testing.T) {
	t.Parallel()

	stub := &stubOperatorUseCase{resolveActor: access.Actor{Identity: "op-1", Role: access.RoleViewer}}
	interceptor := ActorInterceptor(stub)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(OperatorIDMetadataKey, "op-1"))
	ctx = peer.NewContext(ctx, &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("192.168.1.5"), Port: 5000}})

	var (
		seen  access.Actor
		found bool
	)
	if _, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{}, captureActor(&seen, &found)); err != nil {
		t.Fatalf("interceptor returned error: %v", err)
	}
	if stub.resolveAddress != "192.168.1.5:5000" {
		t.Errorf("expected peer address, got %s", stub.resolveAddress)
	}
}

func TestActorInterceptor_Anonymous(t *testing.T) {
	t.Parallel()

	stub := &stubOperatorUseCase{}
	interceptor := ActorInterceptor(stub)

	var (
		seen  access.Actor
		found bool
	)
	if _, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{}, captureActor(&seen, &found)); err != nil {
		t.Fatalf("interceptor returned error: %v", err)
	}
	if found {
		t.Errorf("expected no actor, got %+v", seen)
	}
	if stub.resolveID != "" {
		t.Errorf("resolver must not be called")
	}
}

func TestActorInterceptor_ResolveError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want codes.Code
	}{
		{err: operator.ErrOperatorNotFound, want: codes.NotFound},
		{err: operator.ErrOperatorInactive, want: codes.PermissionDenied},
	}

	for _, tc := range cases {
		stub := &stubOperatorUseCase{resolveErr: tc.err}
		interceptor := ActorInterceptor(stub)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(OperatorIDMetadataKey, "op-x"))

		called := false
		_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, req any) (any, error) {
			called = true
			return nil, nil
		})
		if status.Code(err) != tc.want {
			t.Errorf("expected %v, got %v", tc.want, err)
		}
		if called {
			t.Errorf("handler must not run when actor resolution fails")
		}
	}
}
