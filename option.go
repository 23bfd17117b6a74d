package custodian

import (
	"github.com/viant/afs"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/viant/custodian/model"
	"github.com/viant/custodian/service/messaging"
	"github.com/viant/custodian/service/operation"
	"github.com/viant/custodian/service/registry"
	"github.com/viant/custodian/service/request"
	"github.com/viant/custodian/tracing"
)

// Option customises the service assembled by New.
type Option func(s *Service)

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithFs sets the file system service used for config, policy documents and
// upgrade artifact staging.
func WithFs(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithLedger sets the blockchain gateway used by transfer requests.
func WithLedger(ledger operation.Ledger) Option {
	return func(s *Service) { s.ledger = ledger }
}

// WithEventQueue sets the queue lifecycle events are published to.
func WithEventQueue(queue messaging.Queue[request.Event]) Option {
	return func(s *Service) { s.events = queue }
}

// WithNotificationQueue sets the queue notifications are fanned out on.
func WithNotificationQueue(queue messaging.Queue[model.Notification]) Option {
	return func(s *Service) { s.notificationQueue = queue }
}

// WithHandlers registers additional or replacement operation handlers.
func WithHandlers(handlers ...registry.Handler) Option {
	return func(s *Service) { s.extraHandlers = append(s.extraHandlers, handlers...) }
}

// WithTracing configures OpenTelemetry tracing for the service. If
// outputFile is empty the stdout exporter is used; otherwise traces are
// written to the supplied file path. Safe to call multiple times; the first
// successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter, for example OTLP, Jaeger or Zipkin. Safe to call multiple
// times; the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
