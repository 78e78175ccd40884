package zone

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type tracingDevice struct {
	base   Device
	tracer trace.Tracer
}

// NewTracingDevice creates a decorator for Device that creates an
// OpenTelemetry span for every transfer. Failed transfers are recorded
// as errors on the span.
func NewTracingDevice(base Device, tracerProvider trace.TracerProvider) Device {
	return &tracingDevice{
		base:   base,
		tracer: tracerProvider.Tracer("github.com/buildbarn/bb-zonestore/pkg/zone"),
	}
}

func getTransferAttributes(vectors [][]byte, zoneAddress Address, offsetBytes int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("zone_address", int64(zoneAddress)),
		attribute.Int64("offset_bytes", offsetBytes),
		attribute.Int64("size_bytes", GetVectorsSizeBytes(vectors)),
		attribute.Int("vectors", len(vectors)),
	}
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (d *tracingDevice) WriteVectors(ctx context.Context, vectors [][]byte, zoneAddress Address, offsetBytes int64, durable bool) error {
	ctxWithSpan, span := d.tracer.Start(
		ctx,
		"zone.Device.WriteVectors",
		trace.WithAttributes(append(
			getTransferAttributes(vectors, zoneAddress, offsetBytes),
			attribute.Bool("durable", durable))...))
	err := d.base.WriteVectors(ctxWithSpan, vectors, zoneAddress, offsetBytes, durable)
	finishSpan(span, err)
	return err
}

func (d *tracingDevice) ReadVectors(ctx context.Context, vectors [][]byte, zoneAddress Address, offsetBytes int64) error {
	ctxWithSpan, span := d.tracer.Start(
		ctx,
		"zone.Device.ReadVectors",
		trace.WithAttributes(getTransferAttributes(vectors, zoneAddress, offsetBytes)...))
	err := d.base.ReadVectors(ctxWithSpan, vectors, zoneAddress, offsetBytes)
	finishSpan(span, err)
	return err
}
