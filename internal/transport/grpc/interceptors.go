package grpc

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	bookingv1 "welfaredesk/backend/internal/api/booking/v1"
	"welfaredesk/backend/internal/service/booking"
)

// DefaultRequestTimeout bounds calls that arrive without a deadline.
func DefaultRequestTimeout(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}

func AccessLog(log *slog.Logger) grpc.UnaryServerInterceptor {
	log = log.With(slog.String("component", "grpc.access"))
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug(
			"rpc finished",
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return resp, err
	}
}

type TokenParser interface {
	Parse(raw string) (booking.Actor, error)
}

type actorKey struct{}

func withActor(ctx context.Context, actor booking.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// Authenticate requires a valid bearer token in the authorization metadata
// of every booking service call. Other services, such as health, pass through.
func Authenticate(parser TokenParser, log *slog.Logger) grpc.UnaryServerInterceptor {
	log = log.With(slog.String("component", "grpc.auth"))
	prefix := "/" + bookingv1.ServiceName + "/"
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, prefix) {
			return handler(ctx, req)
		}

		raw, ok := bearerToken(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}
		actor, err := parser.Parse(raw)
		if err != nil {
			log.Debug("token rejected", slog.String("method", info.FullMethod), slog.Any("err", err))
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		return handler(withActor(ctx, actor), req)
	}
}

func bearerToken(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", false
	}
	scheme, raw, ok := strings.Cut(strings.TrimSpace(values[0]), " ")
	raw = strings.TrimSpace(raw)
	if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
		return "", false
	}
	return raw, true
}
