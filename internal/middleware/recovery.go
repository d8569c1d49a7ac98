package middleware

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"
	"unicode/utf8"

	"trac/config"
	"trac/internal/core"
	"trac/internal/database/fluentd/model"
	cErr "trac/internal/pkg/error"
	res "trac/internal/pkg/response"
	"trac/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Recovery struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
	sink   ResponseLogSink
}

func NewRecovery(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	sink ResponseLogSink,
) *Recovery {
	return &Recovery{
		logger: logger,
		trace:  trace,
		config: config,
		sink:   sink,
	}
}

// ErrorHandler 統一輸出 panic 與 gin errors；*cErr.Error 依其 HttpCode 回應
func (middleware *Recovery) ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestTime := time.Now()
		if startTime, exists := c.Get("requestDuration"); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}

		// ---- panic recover 必須在 c.Next() 之前註冊 ----
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			duration := time.Since(requestTime)
			ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))
			requestID := requestIDFrom(span)

			meta := core.TracePanicMeta{
				Path:       c.Request.URL.Path,
				Method:     c.Request.Method,
				ClientIP:   c.ClientIP(),
				UserAgent:  c.Request.UserAgent(),
				DurationMs: float64(duration.Milliseconds()),
				Message:    toSafeString(fmt.Sprint(rec)),
				Stack:      toSafeStack(debug.Stack()),
				Status:     http.StatusInternalServerError,
			}
			middleware.trace.ApplyTraceAttributes(span, meta)

			middleware.logger.Error("[PANIC] Recovered",
				zap.String("path", meta.Path),
				zap.String("method", meta.Method),
				zap.String("client_ip", meta.ClientIP),
				zap.String("user_agent", meta.UserAgent),
				zap.Duration("duration", duration),
				zap.String("panic", meta.Message),
				zap.String("stacktrace", meta.Stack),
				zap.String("traceId", requestID),
			)

			err := cErr.InternalServer("unexpected panic")
			end(err)
			// 尚未回寫才輸出
			if !c.Writer.Written() {
				res.FailByErr(c, requestID, err)
			}
			middleware.ship(ctx, requestID, cErr.INTERNAL_ERROR, http.StatusInternalServerError, meta.Message, duration)
			c.Abort()
		}()

		c.Next()

		// ---- 統一處理非 panic 的 gin errors（若尚未回寫）----
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		duration := time.Since(requestTime)
		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))
		requestID := requestIDFrom(span)

		// 找第一個 *cErr.Error
		for _, e := range c.Errors {
			appErr, ok := cErr.As(e.Err)
			if !ok {
				continue
			}
			middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
				Code:       appErr.ErrorCode(),
				Message:    appErr.Error(),
				Detail:     appErr.ErrorDesc(),
				DurationMs: float64(duration.Milliseconds()),
				Status:     appErr.HttpCode(),
			})
			middleware.logger.Warn(appErr.Error(),
				zap.Int("code", appErr.ErrorCode()),
				zap.String("data", appErr.ErrorDesc()),
				zap.Duration("duration", duration),
				zap.String("traceId", requestID),
			)
			end(appErr)
			res.FailByErr(c, requestID, appErr)
			middleware.ship(ctx, requestID, appErr.ErrorCode(), appErr.HttpCode(), appErr.Error(), duration)
			c.Abort()
			return
		}

		// 其餘未知錯誤
		unknown := c.Errors.String()
		middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
			Code:       cErr.INTERNAL_ERROR,
			Message:    "unknown-error",
			Detail:     toSafeString(unknown),
			DurationMs: float64(duration.Milliseconds()),
			Status:     http.StatusInternalServerError,
		})
		middleware.logger.Warn("[ERROR] unknown",
			zap.String("error", unknown),
			zap.Duration("duration", duration),
			zap.String("traceId", requestID),
		)
		end(c.Errors.Last().Err)
		res.Fail(c, requestID, http.StatusInternalServerError, cErr.INTERNAL_ERROR, "unknown-error", unknown)
		middleware.ship(ctx, requestID, cErr.INTERNAL_ERROR, http.StatusInternalServerError, toSafeString(unknown), duration)
		c.Abort()
	}
}

func (middleware *Recovery) ship(ctx context.Context, requestID string, code, status int, message string, duration time.Duration) {
	if middleware.sink == nil {
		return
	}
	err := middleware.sink.LogResponse(ctx, model.ResponseLog{
		RequestID:   requestID,
		ProjectName: middleware.config.App.Name,
		Code:        code,
		StatusCode:  status,
		Error:       message,
		DurationMs:  duration.Milliseconds(),
		Version:     middleware.config.App.Version,
		ResponseTS:  time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
	})
	if err != nil {
		middleware.logger.Warn("failed to ship response log", zap.Error(err))
	}
}

// requestIDFrom 未啟用 trace 時以 UUIDv7 代替
func requestIDFrom(span trace.Span) string {
	if sc := span.SpanContext(); sc.HasTraceID() {
		traceID := sc.TraceID()
		return fmt.Sprintf("%x", traceID[:])
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// ---- helpers ----

func toSafeString(s string) string {
	const max = 8000
	if utf8.ValidString(s) {
		if len(s) > max {
			return s[:max] + "…"
		}
		return s
	}
	b := []byte(s)
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

func toSafeStack(b []byte) string {
	const max = 16000
	if utf8.Valid(b) {
		if len(b) > max {
			return string(b[:max]) + "…"
		}
		return string(b)
	}
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}
