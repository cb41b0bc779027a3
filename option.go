package wfconsole

import (
	"net/http"

	"github.com/viant/wfconsole/i18n"
	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/service/engine"
	"github.com/viant/wfconsole/service/messaging"
	"github.com/viant/wfconsole/service/prompt"
	"github.com/viant/wfconsole/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures a Service.
type Option func(s *Service)

// WithConfig sets the configuration; DefaultConfig is used otherwise.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithEngine replaces the HTTP engine client, e.g. with a test double.
func WithEngine(eng engine.Engine) Option {
	return func(s *Service) {
		s.engine = eng
	}
}

// WithPrompt sets the provider asked for decision comments and reasons.
func WithPrompt(provider prompt.Provider) Option {
	return func(s *Service) {
		s.prompt = provider
	}
}

// WithHTTPClient sets the client used to reach the engine.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.httpClient = client
	}
}

// WithTranslator overrides the locale catalog.
func WithTranslator(translator i18n.Translator) Option {
	return func(s *Service) {
		s.translator = translator
	}
}

// WithActivityQueue publishes every activity entry to queue.
func WithActivityQueue(queue messaging.Queue[model.Entry]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithTracingExporter exports spans through exporter. The first successful
// initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
