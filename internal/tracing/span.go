package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/agamariel/polofashions"

// Layer - архитектурный слой, к которому относится спан.
type Layer string

const (
	LayerService Layer = "service"
	LayerStorage Layer = "storage"
	LayerBroker  Layer = "broker"
	LayerWorker  Layer = "worker"
)

// Start открывает спан операции. Имя спана - "<layer> <operation>".
func Start(ctx context.Context, layer Layer, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, string(layer)+" "+operation)
	span.SetAttributes(append(attrs, attribute.String("layer", string(layer)))...)
	return ctx, span
}

// Fail отмечает ошибку на спане и возвращает её без изменений.
func Fail(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
	}
	return err
}
