package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// AccessLog emits one structured line per handled request.
func AccessLog(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)

			logger.Info("request",
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", ctx.Response.StatusCode()),
				zap.Duration("duration", time.Since(start)),
				zap.ByteString("requestId", ctx.Response.Header.Peek("X-Request-ID")),
			)
		}
	}
}

// Recover turns handler panics into a 500 instead of tearing down the worker.
func Recover(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("handler panic",
						zap.Any("panic", r),
						zap.ByteString("path", ctx.Path()),
					)
					ctx.Response.Reset()
					ctx.Response.Header.SetContentType("application/json")
					ctx.SetStatusCode(fasthttp.StatusInternalServerError)
					ctx.SetBodyString(`{"status":"error","code":"INTERNAL","error":"internal server error"}`)
				}
			}()
			next(ctx)
		}
	}
}
