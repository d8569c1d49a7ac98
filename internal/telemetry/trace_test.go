package telemetry

import (
	"context"
	"errors"
	"testing"

	"trac/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTrace() (*Trace, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return &Trace{TracerProvider: tp, ServiceName: "trac-test"}, recorder
}

type sessionMeta struct {
	OrgID   string            `trace:"session.org_id"`
	Members int               `trace:"session.members"`
	Online  bool              `trace:"session.online"`
	Apps    []string          `trace:"session.apps"`
	Labels  map[string]string `trace:"session.label"`
	Nested  *nestedMeta       `trace:"nested"`
	Ignored string
}

type nestedMeta struct {
	Ratio float64 `trace:"session.ratio"`
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	out := map[string]attribute.Value{}
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value
	}
	return out
}

func TestApplyTraceAttributes(t *testing.T) {
	tr, recorder := newRecordingTrace()

	_, span, end := tr.WithSpan(context.Background(), "apply")
	tr.ApplyTraceAttributes(span, sessionMeta{
		OrgID:   "acme",
		Members: 3,
		Online:  true,
		Apps:    []string{"Code", "Slack"},
		Labels:  map[string]string{"day": "2024-05-01"},
		Nested:  &nestedMeta{Ratio: 0.5},
		Ignored: "x",
	})
	end(nil)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "acme", attrs["session.org_id"].AsString())
	assert.Equal(t, int64(3), attrs["session.members"].AsInt64())
	assert.True(t, attrs["session.online"].AsBool())
	assert.Equal(t, []string{"Code", "Slack"}, attrs["session.apps"].AsStringSlice())
	assert.Equal(t, "2024-05-01", attrs["session.label.day"].AsString())
	assert.Equal(t, 0.5, attrs["session.ratio"].AsFloat64())
	assert.Len(t, attrs, 6)
}

func TestWithSpan_NamesAndErrors(t *testing.T) {
	tr, recorder := newRecordingTrace()

	_, _, end := tr.WithSpan(context.Background())
	end(errors.New("boom"))

	_, _, end = tr.WithSpan(42, "orphan")
	end(nil)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "TestWithSpan_NamesAndErrors", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "orphan", spans[1].Name())
}

func TestTrace_Disabled(t *testing.T) {
	var nilTrace *Trace
	ctx, span, end := nilTrace.WithSpan(context.Background(), string(core.SpanAuthMiddleware))
	assert.NotNil(t, ctx)
	assert.False(t, span.IsRecording())
	end(errors.New("ignored"))
	assert.NoError(t, nilTrace.Shutdown(context.Background()))

	tr, err := NewTrace(nil)
	require.NoError(t, err)
	assert.Nil(t, tr.TracerProvider)
}

func TestPrettifyFuncName(t *testing.T) {
	assert.Equal(t, "TeamService.Stats", prettifyFuncName("trac/internal/service.(*TeamService).Stats"))
	assert.Equal(t, "TeamHandler.Stats", prettifyFuncName("trac/internal/handler.(*TeamHandler).Stats-fm"))
	assert.Equal(t, "Registry.Get", prettifyFuncName("trac/internal/personnel.(*Registry[...]).Get.func1"))
}
