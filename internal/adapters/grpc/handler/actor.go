package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/access"
)

// 操作者を識別するメタデータキーです。
const (
	OperatorIDMetadataKey   = "x-operator-id"
	ForwardedForMetadataKey = "x-forwarded-for"
)

// ActorResolver は操作者 ID から Actor を解決します。
type ActorResolver interface {
	ResolveActor(ctx context.Context, id, address string) (access.Actor, error)
}

// ActorInterceptor は x-operator-id を解決した Actor をコンテキストに載せます。
// ID が無いリクエストは Actor 無しで処理し、変更系はユースケース側で拒否されます。
func ActorInterceptor(resolver ActorResolver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		id := firstMetadata(md, OperatorIDMetadataKey)
		if id == "" {
			return handler(ctx, req)
		}

		actor, err := resolver.ResolveActor(ctx, id, clientAddress(ctx, md))
		if err != nil {
			return nil, toStatusError(err)
		}
		return handler(access.WithActor(ctx, actor), req)
	}
}

func clientAddress(ctx context.Context, md metadata.MD) string {
	if forwarded := firstMetadata(md, ForwardedForMetadataKey); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return p.Addr.String()
	}
	return ""
}

func firstMetadata(md metadata.MD, key string) string {
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
