// Package tracing initializes the OpenTelemetry TracerProvider used to
// annotate outbound classifier and upstream calls with spans parented to the
// inbound request.
package tracing

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Shutdown tears down the installed TracerProvider, if one was installed.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Init installs a TracerProvider with an OTLP/gRPC exporter when
// OTEL_EXPORTER_OTLP_ENDPOINT is set. Tracing is never load-bearing: a
// missing endpoint logs at debug level, a resource or exporter failure logs
// a warning, and in both cases Init returns a no-op shutdown so the gateway
// starts regardless.
func Init(ctx context.Context, serviceName string, logger *zap.Logger) Shutdown {
	endpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if endpoint == "" {
		logger.Debug("OTEL_EXPORTER_OTLP_ENDPOINT not set, tracing disabled")
		return noop
	}

	res, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewSchemaless(
			attribute.String("service.name", serviceName),
		),
	)
	if err != nil {
		logger.Warn("failed to build tracing resource, tracing disabled", zap.Error(err))
		return noop
	}

	exp, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	if err != nil {
		logger.Warn("failed to start otlp trace exporter, tracing disabled", zap.Error(err))
		return noop
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("tracing initialized", zap.String("endpoint", endpoint))
	return tp.Shutdown
}
