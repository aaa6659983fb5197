package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, duration and any error code. When
// RequireAdmin runs further down the chain the admin username is logged too.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			ctx, p := withPrincipal(ctx)
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", procedure,
				"peer", req.Peer().Addr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if p.admin != "" {
				attrs = append(attrs, "admin", p.admin)
			}

			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal {
					slog.WarnContext(ctx, "RPC error", append(attrs,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
					)...)
				} else {
					slog.ErrorContext(ctx, "RPC error", append(attrs, "error", err)...)
				}
			} else {
				slog.InfoContext(ctx, "RPC ok", attrs...)
			}

			return resp, err
		}
	}
}
