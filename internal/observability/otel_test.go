package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-barber-booking/internal/config"
)

// keepGlobals restores the process-wide OTel state after t.
func keepGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func enabledCfg(name string, insecure bool) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    insecure,
		Endpoint:    "localhost:4317",
		ServiceName: name,
		SampleRatio: 1.0,
	}
}

func TestSetupOTel_Disabled_NoOp(t *testing.T) {
	keepGlobals(t)
	prevTP := otel.GetTracerProvider()

	cfg := enabledCfg("barber-booking", true)
	cfg.Enabled = false
	shutdown, err := SetupOTel(context.Background(), cfg, "dev")
	if err != nil || shutdown == nil {
		t.Fatalf("disabled setup: shutdown set=%v err=%v", shutdown != nil, err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown returned error: %v", err)
	}
	if otel.GetTracerProvider() != prevTP {
		t.Fatalf("disabled tracing must not replace the provider")
	}
}

func TestSetupOTel_InstallsProvider(t *testing.T) {
	cases := []struct {
		name     string
		insecure bool
		cancel   bool
	}{
		{"insecure", true, false},
		{"tls", false, false},
		{"canceled context", true, true}, // exporter dials lazily
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			keepGlobals(t)
			ctx, cancel := context.WithCancel(context.Background())
			if tc.cancel {
				cancel()
			} else {
				defer cancel()
			}

			shutdown, err := SetupOTel(ctx, enabledCfg("barber-"+tc.name, tc.insecure), "v1.0.0")
			if err != nil {
				t.Fatalf("SetupOTel: %v", err)
			}
			if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
				t.Fatalf("expected *sdktrace.TracerProvider, got %T", otel.GetTracerProvider())
			}

			_, span := otel.Tracer("services/ReservationService").Start(context.Background(), "Reserve",
				trace.WithSpanKind(trace.SpanKindInternal))
			span.End()

			sctx, scancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
			defer scancel()
			_ = shutdown(sctx)
		})
	}
}

func TestSetupOTel_PropagatesTraceContext(t *testing.T) {
	keepGlobals(t)
	shutdown, err := SetupOTel(context.Background(), enabledCfg("barber-prop", true), "v1")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	ctx, span := otel.Tracer("test").Start(context.Background(), "ListSlots")
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if carrier.Get("traceparent") == "" {
		t.Fatalf("traceparent not injected: %v", carrier)
	}
	got := trace.SpanContextFromContext(otel.GetTextMapPropagator().Extract(context.Background(), carrier))
	if got.TraceID() != span.SpanContext().TraceID() {
		t.Fatalf("trace id lost across propagation")
	}
}

func TestSetupOTel_FailuresLeaveGlobalsIntact(t *testing.T) {
	cases := []struct {
		name  string
		patch func(t *testing.T)
	}{
		{"exporter", func(t *testing.T) {
			orig := newOTLPExporterFn
			t.Cleanup(func() { newOTLPExporterFn = orig })
			newOTLPExporterFn = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
				return nil, errors.New("exporter down")
			}
		}},
		{"resource", func(t *testing.T) {
			orig := newServiceResourceFn
			t.Cleanup(func() { newServiceResourceFn = orig })
			newServiceResourceFn = func(context.Context, string, string) (*resource.Resource, error) {
				return nil, errors.New("bad resource")
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			keepGlobals(t)
			tc.patch(t)
			prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()

			if _, err := SetupOTel(context.Background(), enabledCfg("svc", true), "v0"); err == nil {
				t.Fatalf("expected error")
			}
			if otel.GetTracerProvider() != prevTP || otel.GetTextMapPropagator() != prevProp {
				t.Fatalf("globals changed on failure")
			}
		})
	}
}

func TestServiceResource_Attributes(t *testing.T) {
	res, err := newServiceResourceFn(context.Background(), "barber-booking", "1.4.0")
	if err != nil {
		t.Fatalf("resource: %v", err)
	}
	want := map[string]string{
		string(semconv.ServiceNameKey):      "barber-booking",
		string(semconv.ServiceVersionKey):   "1.4.0",
		string(semconv.ServiceNamespaceKey): serviceNamespace,
	}
	got := map[string]string{}
	for _, kv := range res.Attributes() {
		got[string(kv.Key)] = kv.Value.Emit()
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestSampler_RootDecisions(t *testing.T) {
	params := sdktrace.SamplingParameters{
		ParentContext: context.Background(),
		TraceID:       trace.TraceID{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		Name:          "Reserve",
	}
	cases := []struct {
		ratio float64
		want  sdktrace.SamplingDecision
	}{
		{-1, sdktrace.Drop},
		{0, sdktrace.Drop},
		{1, sdktrace.RecordAndSample},
		{2, sdktrace.RecordAndSample},
	}
	for _, tc := range cases {
		if got := sampler(tc.ratio).ShouldSample(params).Decision; got != tc.want {
			t.Fatalf("sampler(%v) = %v, want %v", tc.ratio, got, tc.want)
		}
	}
	if d := sampler(0.5).Description(); !strings.Contains(d, "TraceIDRatioBased") {
		t.Fatalf("fractional ratio should sample by trace id, got %q", d)
	}
}

func TestLogErrors_WritesWarning(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	logErrors.Handle(errors.New("collector unreachable"))

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, "collector unreachable") || !strings.Contains(out, `"component":"otel"`) {
		t.Fatalf("unexpected log: %s", out)
	}
}
