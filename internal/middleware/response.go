package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"trac/config"
	"trac/internal/core"
	"trac/internal/database/fluentd/model"
	cErr "trac/internal/pkg/error"
	"trac/internal/pkg/response"
	"trac/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResponseLogSink API 回應紀錄的寫入端（Fluentd）
type ResponseLogSink interface {
	LogResponse(ctx context.Context, response model.ResponseLog) error
}

type Response struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
	sink   ResponseLogSink
}

func NewResponse(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	sink ResponseLogSink,
) *Response {
	return &Response{
		logger: logger,
		trace:  trace,
		config: config,
		sink:   sink,
	}
}

// FormatHandler 將 handler 以 c.Set("data") 留下的結果包成統一回應
func (middleware *Response) FormatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipObservability(c.FullPath()) {
			c.Next()
			return
		}

		requestTime := time.Now()
		if startTime, exists := c.Get("requestDuration"); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		} else {
			c.Set("requestDuration", requestTime)
		}

		// 執行下游
		c.Next()

		// 若已經有錯誤交由 Recovery 處理，或已經寫出回應，就不要再動了
		if len(c.Errors) > 0 || c.Writer.Written() {
			return
		}

		statusCode := c.Writer.Status()
		// 若 status >= 400：轉為應用錯誤交給 Recovery 統一輸出
		if statusCode >= http.StatusBadRequest {
			response.AbortWithError(c, cErr.MapHttpStatusToError(statusCode, "request error"))
			return
		}

		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanResponseMiddleware))
		defer end(nil)

		data, _ := c.Get(response.DataKey)
		if data == nil {
			data = map[string]any{}
		}
		message := "Request Success"
		if s := c.GetString(response.MessageKey); s != "" {
			message = s
		}

		duration := time.Since(requestTime)
		spanID := span.SpanContext().SpanID()
		requestID := requestIDFrom(span)

		middleware.trace.ApplyTraceAttributes(span, core.TraceResponseMeta{
			Path:       c.Request.URL.Path,
			Method:     c.Request.Method,
			Status:     statusCode,
			Message:    message,
			Code:       0,
			DurationMs: float64(duration.Milliseconds()),
			Data:       safePreviewJSON(data, 2000),
		})

		middleware.logger.Info("[Response] "+message,
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
			zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
			zap.String("traceId", requestID),
		)

		if middleware.sink != nil {
			responseLog := model.ResponseLog{
				RequestID:   requestID,
				ProjectName: middleware.config.App.Name,
				Code:        0,
				StatusCode:  statusCode,
				DurationMs:  duration.Milliseconds(),
				Version:     middleware.config.App.Version,
				ResponseTS:  time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
			}
			if err := middleware.sink.LogResponse(ctx, responseLog); err != nil {
				middleware.logger.Warn("failed to ship response log", zap.Error(err))
			}
		}

		jsonBytes, err := json.Marshal(response.Response{
			RequestID:   requestID,
			Code:        0,
			Data:        data,
			Message:     "OK",
			Description: message,
		})
		if err != nil {
			// Marshal 失敗視為 500，交給 Recovery 處理
			response.AbortWithError(c, cErr.InternalServer("marshal response failed"))
			return
		}

		c.Writer.Header().Set("Content-Type", "application/json")
		c.Writer.WriteHeader(statusCode) // handler 可能設了 201
		if _, werr := c.Writer.Write(jsonBytes); werr != nil {
			middleware.logger.Warn("failed to write response", zap.Error(werr))
		}
	}
}

// safePreviewJSON 會把資料序列化為 JSON 字串（UTF-8），並限制長度。
func safePreviewJSON(data any, max int) string {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("[marshal error: %v]", err)
	}
	out := string(b)
	if len(out) > max {
		return out[:max] + "…"
	}
	return out
}
