package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"
	"unicode/utf8"

	"trac/config"
	"trac/internal/core"
	"trac/internal/database/fluentd/model"
	"trac/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogSink API 請求紀錄的寫入端（Fluentd）
type RequestLogSink interface {
	LogRequest(ctx context.Context, request model.RequestLog) error
}

type Logger struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
	sink   RequestLogSink
}

func NewLogger(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	sink RequestLogSink,
) *Logger {
	return &Logger{
		logger: logger,
		trace:  trace,
		config: config,
		sink:   sink,
	}
}

// 不記錄內容的 header
var redactedHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
}

// LoggerHandler 記錄每個請求（二進位 body 不讀；文字 body 做安全截斷）
func (m *Logger) LoggerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if skipObservability(endpoint) {
			c.Next()
			return
		}

		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanLoggerMiddleware))

		requestTime := time.Now().UTC()
		if startTime, exists := c.Get("requestDuration"); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}

		mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
		var bodyRaw string
		if isBinaryContent(mediaType) {
			bodyRaw = fmt.Sprintf("(binary %s, %d bytes)", mediaType, c.Request.ContentLength)
		} else if c.Request.Body != nil && c.Request.ContentLength != 0 {
			// 讀完後回填，下游仍可讀取
			data, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(data))
			bodyRaw = toSafePreview(data, 2000)
		}

		headerMap := make(map[string]string, len(c.Request.Header))
		for k, v := range c.Request.Header {
			lk := strings.ToLower(k)
			if _, redact := redactedHeaders[lk]; redact {
				headerMap[lk] = "[redacted]"
				continue
			}
			headerMap[lk] = strings.Join(v, ",")
		}
		paramsMap := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			paramsMap[p.Key] = p.Value
		}

		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		traceID := span.SpanContext().TraceID()
		spanID := span.SpanContext().SpanID()

		m.trace.ApplyTraceAttributes(span, core.LoggerRequestMeta{
			Method:     method,
			Path:       path,
			FullPath:   endpoint,
			Query:      query,
			Body:       bodyRaw,
			Host:       c.Request.Host,
			UserAgent:  c.Request.UserAgent(),
			ContentLen: c.Request.ContentLength,
			Proto:      c.Request.Proto,
			ClientIP:   c.ClientIP(),
			Headers:    headerMap,
			Params:     paramsMap,
		})

		logFields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Any("headers", headerMap),
		}
		if query != "" {
			logFields = append(logFields, zap.String("query", query))
		}
		if len(paramsMap) > 0 {
			logFields = append(logFields, zap.Any("params", paramsMap))
		}
		if bodyRaw != "" {
			logFields = append(logFields, zap.String("body", bodyRaw))
		}
		logFields = append(logFields,
			zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
			zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
		)
		m.logger.Info("[Request] logging middleware message", logFields...)

		if m.sink != nil {
			requestLog := model.RequestLog{
				RequestID:   fmt.Sprintf("%x", traceID[:]),
				Method:      method,
				Path:        path,
				Query:       query,
				ProjectName: m.config.App.Name,
				IPHash:      base64.RawStdEncoding.EncodeToString([]byte(c.ClientIP())),
				UserAgent:   c.Request.UserAgent(),
				Version:     m.config.App.Version,
				RequestTS:   requestTime.Format("2006-01-02 15:04:05.999999 UTC"),
			}
			if err := m.sink.LogRequest(ctx, requestLog); err != nil {
				m.logger.Warn("failed to ship request log", zap.Error(err))
			}
		}
		end(nil)
		c.Next()
	}
}

// skipObservability 這些路徑不做 trace / log / 統一回應
func skipObservability(endpoint string) bool {
	return strings.HasPrefix(endpoint, "/swagger") ||
		strings.HasPrefix(endpoint, "/metrics") ||
		strings.HasPrefix(endpoint, "/version") ||
		strings.HasPrefix(endpoint, "/health") ||
		strings.HasPrefix(endpoint, "/debug/pprof")
}

// 僅對文字內容做安全預覽：UTF-8 直接截斷；非 UTF-8 以 Base64 表示
func toSafePreview(b []byte, max int) string {
	if len(b) == 0 {
		return ""
	}
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

// 是否為二進位內容（不讀 body）
func isBinaryContent(mediaType string) bool {
	return strings.HasPrefix(mediaType, "multipart/") ||
		strings.HasPrefix(mediaType, "image/") ||
		strings.HasPrefix(mediaType, "audio/") ||
		strings.HasPrefix(mediaType, "video/") ||
		mediaType == "application/octet-stream"
}
