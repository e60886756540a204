package server

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-staff-admin/internal/platform/logger"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestIDHeader = "x-request-id"

// TimeoutInterceptor は各リクエストに上限時間を設定します。0 以下の場合は何もしません。
func TimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if timeout <= 0 {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return handler(ctx, req)
	}
}

// LoggingInterceptor はリクエスト ID 付きのロガーをコンテキストへ格納し、結果を記録します。
func LoggingInterceptor(base zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := incomingRequestID(ctx)
		l := base.With().Str("request_id", requestID).Str("method", info.FullMethod).Logger()
		ctx = logger.WithContext(ctx, l)

		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		event := l.Info()
		if code != codes.OK {
			event = l.Warn().Err(err)
		}
		event.Str("code", code.String()).Dur("elapsed", time.Since(start)).Msg("request handled")
		return resp, err
	}
}

// RecoveryInterceptor は panic を Internal エラーに変換します。
func RecoveryInterceptor(l zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				l.Error().
					Interface("panic", r).
					Str("method", info.FullMethod).
					Str("stack_trace", string(debug.Stack())).
					Msg("recovered from panic")
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

func incomingRequestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(requestIDHeader); len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	return uuid.NewString()
}
