package tracing

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const traceparentHeader = "traceparent"

// KafkaHeaders возвращает заголовок traceparent для записи Kafka. Без активного спана - пусто.
func KafkaHeaders(ctx context.Context) []kgo.RecordHeader {
	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)

	traceparent, ok := carrier[traceparentHeader]
	if !ok {
		return nil
	}

	return []kgo.RecordHeader{{Key: traceparentHeader, Value: []byte(traceparent)}}
}

// SpanContextFromKafka восстанавливает контекст трассы из заголовков записи.
func SpanContextFromKafka(ctx context.Context, headers []kgo.RecordHeader) trace.SpanContext {
	carrier := propagation.MapCarrier{}
	for _, h := range headers {
		if h.Key == traceparentHeader {
			carrier[traceparentHeader] = string(h.Value)
			break
		}
	}
	if carrier[traceparentHeader] == "" {
		return trace.SpanContext{}
	}

	return trace.SpanContextFromContext(propagation.TraceContext{}.Extract(ctx, carrier))
}
