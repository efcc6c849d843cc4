package apiclient_test

import (
	"context"
	"net/http"
	"testing"

	"logineko/internal/apiclient"
	"logineko/internal/apiclient/apitest"
	"logineko/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRequestsCarryTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	srv := apitest.NewServer(t)
	srv.Reply("GET /courses/{id}", models.Course{ID: 42})

	c := apiclient.New(srv.URL, apiclient.WithTracer(tp.Tracer("test")))
	_, err := c.GetCourse(context.Background(), 42)
	require.NoError(t, err)

	req := srv.RequestsTo(http.MethodGet, "/courses/42")[0]
	assert.NotEmpty(t, req.Header.Get("traceparent"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /courses/{id}", spans[0].Name())
}
