package telemetry

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"

	"trac/config"
	"trac/internal/core"

	gcppropagator "github.com/GoogleCloudPlatform/opentelemetry-operations-go/propagator"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Trace 未啟用時 TracerProvider 為 nil，所有方法改用 noop tracer；nil *Trace 亦可安全呼叫
type Trace struct {
	TracerProvider *sdktrace.TracerProvider
	ServiceName    string
}

var noopTracer = noop.NewTracerProvider().Tracer("noop")

func NewTrace(conf *config.Configuration) (*Trace, error) {
	if conf == nil || !conf.Telemetry.Trace.Enabled {
		return &Trace{}, nil
	}
	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpointURL(conf.Telemetry.Trace.EndpointUrl),
		otlptracehttp.WithRetry(otlptracehttp.RetryConfig{
			Enabled:         true,
			InitialInterval: 5 * time.Second,
			MaxInterval:     10 * time.Second,
			MaxElapsedTime:  60 * time.Second, // 超過即丟棄該批 span
		}),
		otlptracehttp.WithTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(conf.Telemetry.Trace.SampleRatioOrDefault()))),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(conf.App.Name),
			semconv.ServiceVersion(conf.App.Version),
			semconv.DeploymentEnvironmentName(conf.App.Env),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(Propagator())
	return &Trace{TracerProvider: tp, ServiceName: conf.App.Name}, nil
}

// Propagator W3C traceparent/baggage 為主，另外接受 GCP Load Balancer 帶入的
// X-Cloud-Trace-Context（只讀不寫）
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		gcppropagator.CloudTraceOneWayPropagator{},
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// Shutdown flush 尚未送出的 span
func (t *Trace) Shutdown(ctx context.Context) error {
	if t == nil || t.TracerProvider == nil {
		return nil
	}
	return t.TracerProvider.Shutdown(ctx)
}

func (t *Trace) tracer() trace.Tracer {
	if t == nil || t.TracerProvider == nil {
		return noopTracer
	}
	return t.TracerProvider.Tracer(t.ServiceName)
}

func (t *Trace) StartSpanForLayer(ctx context.Context, spanName core.TraceSpanName, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer().Start(ctx, string(spanName), opts...)
}

// WithSpan parent 可為 *gin.Context（handler）或 context.Context（service / repository）。
// 未指定名稱時：handler 用 handler 函式名，其餘用呼叫者的方法名
func (t *Trace) WithSpan(parent any, name ...string) (context.Context, trace.Span, func(error)) {
	override := ""
	if len(name) > 0 {
		override = strings.TrimSpace(name[0])
	}

	var (
		ctx  context.Context
		span trace.Span
	)
	switch p := parent.(type) {
	case *gin.Context:
		spanName := override
		if spanName == "" {
			spanName = spanNameFromGin(p)
		}
		ctx, span = t.StartSpanForLayer(t.GetTraceContext(p), core.TraceSpanName(spanName))
		p.Set(core.ContextTraceKey, ctx)
	case context.Context:
		spanName := override
		if spanName == "" {
			spanName = prettifyFuncName(callerFuncName(2))
		}
		if spanName == "" {
			spanName = "unknown"
		}
		ctx, span = t.StartSpanForLayer(p, core.TraceSpanName(spanName))
	default:
		spanName := override
		if spanName == "" {
			spanName = "unknown"
		}
		ctx, span = t.StartSpanForLayer(context.Background(), core.TraceSpanName(spanName))
	}
	return ctx, span, func(err error) { t.EndSpan(span, err) }
}

// EndSpan 結束 span，err 非 nil 時標記為錯誤
func (t *Trace) EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// GetTraceContext TraceEntry 放進 gin.Context 的最新 ctx；沒有時用 request ctx
func (t *Trace) GetTraceContext(c *gin.Context) context.Context {
	if v, ok := c.Get(core.ContextTraceKey); ok {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return c.Request.Context()
}

// ApplyTraceAttributes 依 `trace:"key"` tag 將 struct 欄位寫成 span attributes。
// 巢狀 struct / 指標遞迴處理；map[string]T 展開為 key.<mapKey>
func (t *Trace) ApplyTraceAttributes(span trace.Span, obj any) {
	if span == nil || obj == nil || !span.IsRecording() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			span.RecordError(fmt.Errorf("apply trace attributes: %v", r))
		}
	}()
	span.SetAttributes(traceAttributes(reflect.ValueOf(obj))...)
}

func traceAttributes(val reflect.Value) []attribute.KeyValue {
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	var attrs []attribute.KeyValue
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		key := typ.Field(i).Tag.Get("trace")
		field := val.Field(i)
		if key == "" || !field.CanInterface() {
			continue
		}

		switch field.Kind() {
		case reflect.Struct, reflect.Ptr:
			attrs = append(attrs, traceAttributes(field)...)
		case reflect.Map:
			if field.Type().Key().Kind() != reflect.String {
				continue
			}
			iter := field.MapRange()
			for iter.Next() {
				if kv, ok := scalarAttribute(key+"."+iter.Key().String(), iter.Value()); ok {
					attrs = append(attrs, kv)
				}
			}
		case reflect.Slice, reflect.Array:
			if field.Type().Elem().Kind() != reflect.String {
				continue
			}
			strs := make([]string, field.Len())
			for j := range strs {
				strs[j] = field.Index(j).String()
			}
			attrs = append(attrs, attribute.StringSlice(key, strs))
		default:
			if kv, ok := scalarAttribute(key, field); ok {
				attrs = append(attrs, kv)
			}
		}
	}
	return attrs
}

func scalarAttribute(key string, v reflect.Value) (attribute.KeyValue, bool) {
	if v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String:
		return attribute.String(key, v.String()), true
	case reflect.Bool:
		return attribute.Bool(key, v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return attribute.Int64(key, v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return attribute.Int64(key, int64(v.Uint())), true
	case reflect.Float32, reflect.Float64:
		return attribute.Float64(key, v.Float()), true
	}
	return attribute.KeyValue{}, false
}

// prettifyFuncName "trac/internal/service.(*TeamService).Stats-fm" → "TeamService.Stats"
func prettifyFuncName(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	full = strings.TrimSuffix(full, "-fm")
	if i := strings.LastIndex(full, ".func"); i >= 0 {
		full = full[:i]
	}
	if i := strings.Index(full, "."); i >= 0 {
		full = full[i+1:]
	}
	full = strings.NewReplacer("(*", "", "(", "", ")", "").Replace(full)
	if i := strings.Index(full, "["); i >= 0 {
		if j := strings.Index(full, "]"); j > i {
			full = full[:i] + full[j+1:]
		}
	}
	return full
}

func spanNameFromGin(c *gin.Context) string {
	if hn := c.HandlerName(); hn != "" {
		return prettifyFuncName(hn)
	}
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return c.Request.Method + " " + route
}

func callerFuncName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return ""
}
